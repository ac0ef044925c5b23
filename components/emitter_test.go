package components

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPivotEmitterEmit(t *testing.T) {
	e := NewPivotEmitter()
	c := newTestClassifier()

	units := c.Classify(Triple{Subject: "ex:Alice", Predicate: "ex:knows", Object: Resource{IRI: "ex:Bob"}})
	entries := e.EmitAll(units, nil)

	assert.Equal(t, []PostingEntry{
		{Key: PivotKey{Kind: PredObj, First: "ex:knows", Second: "Resource:ex:Bob"}, Value: "ex:Alice"},
		{Key: PivotKey{Kind: SubjObj, First: "ex:Alice", Second: "Resource:ex:Bob"}, Value: "ex:knows"},
		{Key: PivotKey{Kind: SubjPred, First: "ex:Alice", Second: "ex:knows"}, Value: "Resource:ex:Bob"},
	}, entries)
}

func TestPivotEmitterEntryCount(t *testing.T) {
	e := NewPivotEmitter()
	c := newTestClassifier()

	triples := []Triple{
		{Subject: "ex:a", Predicate: "ex:p", Object: Resource{IRI: "ex:b"}},
		{Subject: "ex:a", Predicate: "ex:n", Object: TypedLiteral{Text: "1", Datatype: "ex:int"}},
		{Subject: "ex:a", Predicate: "ex:l", Object: PlainLiteral{Text: "red apples"}},
		{Subject: "ex:a", Predicate: "ex:l", Object: PlainLiteral{Text: "the"}},
	}
	var entries []PostingEntry
	for _, tr := range triples {
		entries = e.EmitAll(c.Classify(tr), entries)
	}

	// N=4 triples, K=2 plain literals giving 2 and 0 tokens: 3 * (4 - 2 + 2)
	assert.Len(t, entries, 12)
}

func TestPivotEmitterReusesBuffer(t *testing.T) {
	e := NewPivotEmitter()
	buf := make([]PostingEntry, 0, 8)

	buf = e.EmitAll([]Unit{{Subject: "s1", Predicate: "p1", Label: "l1"}}, buf[:0])
	assert.Len(t, buf, 3)
	buf = e.EmitAll([]Unit{{Subject: "s2", Predicate: "p2", Label: "l2"}}, buf[:0])
	assert.Len(t, buf, 3)
	assert.Equal(t, "s2", buf[0].Value)
}
