package components

import (
	"fmt"
	"io"
	str "strings"

	"github.com/knakk/rdf"
)

const (
	dataTypeURIString     = "http://www.w3.org/2001/XMLSchema#string"
	dataTypeURILangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// TripleSource turns one complete document into triples
type TripleSource interface {
	Parse(document string) ([]Triple, error)
}

// ParseError is returned by a TripleSource when a document can not be parsed.
// No triples of such a document are used.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "could not parse document: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// formatsByName maps the configurable format names to knakk/rdf formats
var formatsByName = map[string]rdf.Format{
	"rdfxml":   rdf.RDFXML,
	"turtle":   rdf.Turtle,
	"ntriples": rdf.NTriples,
}

// RDFSource is a TripleSource decoding documents with knakk/rdf
type RDFSource struct {
	format rdf.Format
}

// NewRDFSource returns an RDFSource for the named format ("rdfxml", "turtle"
// or "ntriples")
func NewRDFSource(formatName string) (*RDFSource, error) {
	f, ok := formatsByName[formatName]
	if !ok {
		return nil, fmt.Errorf("unknown RDF format %q", formatName)
	}
	return &RDFSource{format: f}, nil
}

// Parse decodes all triples of document. Either every triple is returned, or
// a *ParseError and no triples.
func (s *RDFSource) Parse(document string) ([]Triple, error) {
	dec := rdf.NewTripleDecoder(str.NewReader(document), s.format)
	var triples []Triple
	for tr, err := dec.Decode(); err != io.EOF; tr, err = dec.Decode() {
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		if tr.Subj == nil || tr.Pred == nil || tr.Obj == nil {
			return nil, &ParseError{Err: fmt.Errorf("something was decoded as nil in the triple: %v", tr)}
		}
		triple := Triple{
			Subject:   tr.Subj.String(),
			Predicate: tr.Pred.String(),
			Object:    convertObject(tr.Obj),
		}
		if triple.Subject == "" || triple.Predicate == "" {
			return nil, &ParseError{Err: fmt.Errorf("empty subject or predicate in triple: %v", tr)}
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

// convertObject maps a knakk/rdf object onto a Term. Untyped literals come
// out of the decoders as xsd:string or rdf:langString, so those count as
// plain.
func convertObject(obj rdf.Object) Term {
	switch o := obj.(type) {
	case rdf.Literal:
		dataTypeStr := o.DataType.String()
		switch dataTypeStr {
		case "", dataTypeURIString, dataTypeURILangString:
			return PlainLiteral{Text: o.String(), Lang: o.Lang()}
		}
		return TypedLiteral{Text: o.String(), Datatype: dataTypeStr}
	default:
		return Resource{IRI: obj.String()}
	}
}
