package components

import (
	"context"
	"errors"
	"io"
	str "strings"

	"github.com/flowbase/flowbase"
)

// Mapper runs the map side of the index build: document assembly, parsing,
// classification and pivoting
type Mapper struct {
	source     TripleSource
	classifier *TokenClassifier
	emitter    *PivotEmitter
	marker     string
	metrics    *Metrics
}

// NewMapper returns a Mapper. A nil metrics gets a private, unexported set.
func NewMapper(source TripleSource, classifier *TokenClassifier, marker string, metrics *Metrics) *Mapper {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Mapper{
		source:     source,
		classifier: classifier,
		emitter:    NewPivotEmitter(),
		marker:     marker,
		metrics:    metrics,
	}
}

// MapDocument parses one complete document and appends its posting entries
// to dst. When parsing fails dst is returned unchanged with the error.
func (m *Mapper) MapDocument(document string, dst []PostingEntry) ([]PostingEntry, error) {
	triples, err := m.source.Parse(document)
	if err != nil {
		return dst, err
	}
	m.metrics.TriplesParsed.Add(float64(len(triples)))
	for _, tr := range triples {
		dst = m.emitter.EmitAll(m.classifier.Classify(tr), dst)
	}
	return dst, nil
}

// MapPartition reads the fragments of one partition in order, assembles
// documents and passes every posting entry to emit. Documents that fail to
// parse are logged and skipped. Errors from reading r or from emit, and
// context cancellation, end the partition.
func (m *Mapper) MapPartition(ctx context.Context, name string, r io.Reader, emit func(PostingEntry) error) error {
	assembler := NewDocumentAssembler(m.marker)
	entries := make([]PostingEntry, 0, 64)
	docNo := 0

	err := ForEachFragment(r, func(fragment string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, complete := assembler.Push(fragment)
		if !complete {
			return nil
		}
		docNo++
		m.metrics.DocumentsAssembled.Inc()

		var err error
		entries, err = m.MapDocument(doc, entries[:0])
		if err != nil {
			var perr *ParseError
			if !errors.As(err, &perr) {
				return err
			}
			m.metrics.ParseFailures.Inc()
			flowbase.Warning.Printf("Skipping document %d of %s: %v\n", docNo, name, err)
			return nil
		}
		for _, e := range entries {
			if err := emit(e); err != nil {
				return err
			}
			m.metrics.entryEmitted(e.Key.Kind)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if rest := assembler.Discard(); str.TrimSpace(rest) != "" {
		m.metrics.IncompleteDocuments.Inc()
		flowbase.Warning.Printf("Discarding %d bytes at the end of %s without closing marker %q\n", len(rest), name, m.marker)
	}
	m.metrics.PartitionsProcessed.Inc()
	flowbase.Debug.Printf("Mapped %d documents from %s\n", docNo, name)
	return nil
}
