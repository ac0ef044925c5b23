package components

import (
	"fmt"
	"strings"
)

// BUFSIZE is the buffer size of the channels connecting processes
const BUFSIZE = 16

// --------------------------------------------------------------------------------
// IP: Triple
// --------------------------------------------------------------------------------

// Triple is one parsed RDF statement. Subject and Predicate are never empty.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// Term is the object of a triple. It is implemented only by Resource,
// PlainLiteral and TypedLiteral.
type Term interface {
	isTerm()
}

// Resource is an object referring to an IRI or a blank node.
type Resource struct {
	IRI string
}

// PlainLiteral is a literal without datatype, optionally language tagged.
type PlainLiteral struct {
	Text string
	Lang string
}

// TypedLiteral is a literal carrying an explicit datatype IRI.
type TypedLiteral struct {
	Text     string
	Datatype string
}

func (Resource) isTerm()     {}
func (PlainLiteral) isTerm() {}
func (TypedLiteral) isTerm() {}

// --------------------------------------------------------------------------------
// IP: PivotKey
// --------------------------------------------------------------------------------

// PivotKind names which two triple components form a key.
type PivotKind int

const (
	PredObj PivotKind = iota
	SubjObj
	SubjPred
)

func (k PivotKind) String() string {
	switch k {
	case PredObj:
		return "predobj"
	case SubjObj:
		return "subjobj"
	case SubjPred:
		return "subjpred"
	}
	return "unknown"
}

// ParsePivotKind is the inverse of PivotKind.String
func ParsePivotKind(s string) (PivotKind, error) {
	switch s {
	case "predobj":
		return PredObj, nil
	case "subjobj":
		return SubjObj, nil
	case "subjpred":
		return SubjPred, nil
	}
	return 0, fmt.Errorf("unknown pivot kind %q", s)
}

// PivotKey is the key of one posting list: a kind tag plus the two triple
// components it was built from, in the order the kind names them.
type PivotKey struct {
	Kind   PivotKind
	First  string
	Second string
}

// Less orders keys by kind, then first component, then second component.
func (k PivotKey) Less(o PivotKey) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if c := strings.Compare(k.First, o.First); c != 0 {
		return c < 0
	}
	return k.Second < o.Second
}

func (k PivotKey) String() string {
	return "(" + k.Kind.String() + ", " + k.First + ", " + k.Second + ")"
}

// --------------------------------------------------------------------------------
// IP: PostingEntry, KeyGroup, PostingsList
// --------------------------------------------------------------------------------

// PostingEntry is one unit of map output.
type PostingEntry struct {
	Key   PivotKey
	Value string
}

// KeyGroup holds every value emitted for Key across the corpus, in arrival
// order, together with the reduce partition the key was assigned to.
type KeyGroup struct {
	Partition int
	Key       PivotKey
	Values    []string
}

// PostingsList is a final, sorted posting list. Duplicates are kept.
type PostingsList struct {
	Partition int
	Key       PivotKey
	Values    []string
}

func (l *PostingsList) String() string {
	return l.Key.String() + "\t[" + strings.Join(l.Values, ", ") + "]"
}
