package components

// PivotEmitter fans every unit out into the three posting spaces. It keeps no
// state.
type PivotEmitter struct{}

// NewPivotEmitter returns a PivotEmitter
func NewPivotEmitter() *PivotEmitter {
	return &PivotEmitter{}
}

// Emit returns the three entries of u:
//
//	(predobj, P, Label)  -> S
//	(subjobj, S, Label)  -> P
//	(subjpred, S, P)     -> Label
func (e *PivotEmitter) Emit(u Unit) [3]PostingEntry {
	return [3]PostingEntry{
		{Key: PivotKey{Kind: PredObj, First: u.Predicate, Second: u.Label}, Value: u.Subject},
		{Key: PivotKey{Kind: SubjObj, First: u.Subject, Second: u.Label}, Value: u.Predicate},
		{Key: PivotKey{Kind: SubjPred, First: u.Subject, Second: u.Predicate}, Value: u.Label},
	}
}

// EmitAll appends the entries of all units to dst and returns the extended
// slice. Passing dst[:0] reuses its backing array.
func (e *PivotEmitter) EmitAll(units []Unit, dst []PostingEntry) []PostingEntry {
	for _, u := range units {
		entries := e.Emit(u)
		dst = append(dst, entries[:]...)
	}
	return dst
}
