package components

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors of one indexing job
type Metrics struct {
	Registry            *prometheus.Registry
	PartitionsProcessed prometheus.Counter
	DocumentsAssembled  prometheus.Counter
	ParseFailures       prometheus.Counter
	IncompleteDocuments prometheus.Counter
	TriplesParsed       prometheus.Counter
	EntriesEmitted      *prometheus.CounterVec
	KeysReduced         prometheus.Counter
	PostingsWritten     *prometheus.CounterVec

	entriesByKind [3]prometheus.Counter
}

// NewMetrics creates all collectors and registers them on a fresh registry
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PartitionsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_partitions_processed_total",
			Help: "Input partitions fully mapped.",
		}),
		DocumentsAssembled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_documents_assembled_total",
			Help: "Complete documents assembled from partition fragments.",
		}),
		ParseFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_parse_failures_total",
			Help: "Documents skipped because they could not be parsed.",
		}),
		IncompleteDocuments: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_incomplete_documents_total",
			Help: "Trailing partition text discarded for lack of a closing marker.",
		}),
		TriplesParsed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_triples_parsed_total",
			Help: "Triples parsed from assembled documents.",
		}),
		EntriesEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdf2idx_entries_emitted_total",
			Help: "Posting entries emitted by the map stage, by pivot kind.",
		}, []string{"kind"}),
		KeysReduced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rdf2idx_keys_reduced_total",
			Help: "Distinct pivot keys turned into posting lists.",
		}),
		PostingsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rdf2idx_postings_lists_written_total",
			Help: "Posting lists written, by sink.",
		}, []string{"sink"}),
	}
	m.Registry.MustRegister(
		m.PartitionsProcessed,
		m.DocumentsAssembled,
		m.ParseFailures,
		m.IncompleteDocuments,
		m.TriplesParsed,
		m.EntriesEmitted,
		m.KeysReduced,
		m.PostingsWritten,
	)
	for _, kind := range []PivotKind{PredObj, SubjObj, SubjPred} {
		m.entriesByKind[kind] = m.EntriesEmitted.WithLabelValues(kind.String())
	}
	return m
}

func (m *Metrics) entryEmitted(kind PivotKind) {
	m.entriesByKind[kind].Inc()
}

// WriteToTextfile writes all metrics in the text exposition format, for
// node_exporter's textfile collector
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
