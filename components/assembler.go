package components

import "strings"

// DefaultDocumentMarker closes an RDF/XML document
const DefaultDocumentMarker = "</rdf:RDF>"

// DocumentAssembler rebuilds complete documents from the fragments (lines) of
// one partition. It holds the text seen since the last complete document, and
// releases it as soon as the closing marker has been seen. Fragments must be
// pushed in their original order.
type DocumentAssembler struct {
	marker string
	buf    strings.Builder
}

// NewDocumentAssembler returns an empty DocumentAssembler completing
// documents on marker
func NewDocumentAssembler(marker string) *DocumentAssembler {
	return &DocumentAssembler{marker: marker}
}

// Push appends fragment to the buffer. If the buffer then contains the
// marker, the whole buffer is returned as a complete document and the
// assembler is reset.
func (a *DocumentAssembler) Push(fragment string) (document string, complete bool) {
	// Only a marker ending inside the new fragment can be new, so the scan
	// starts len(marker)-1 bytes before it.
	from := a.buf.Len() - len(a.marker) + 1
	if from < 0 {
		from = 0
	}
	a.buf.WriteString(fragment)
	if a.marker == "" || !strings.Contains(a.buf.String()[from:], a.marker) {
		return "", false
	}
	document = a.buf.String()
	a.buf.Reset()
	return document, true
}

// Pending returns the number of buffered bytes not yet released
func (a *DocumentAssembler) Pending() int {
	return a.buf.Len()
}

// Discard drops any buffered text and returns it
func (a *DocumentAssembler) Discard() string {
	rest := a.buf.String()
	a.buf.Reset()
	return rest
}
