package components

import (
	"fmt"
	"io"
)

// PostingsPrinter prints every PostingsList it receives, in the text output
// format, to an io.Writer
type PostingsPrinter struct {
	In      chan *PostingsList
	OutDone chan interface{}
	w       io.Writer
}

// NewPostingsPrinter returns an initialized PostingsPrinter writing to w
func NewPostingsPrinter(w io.Writer) *PostingsPrinter {
	return &PostingsPrinter{
		In:      make(chan *PostingsList, BUFSIZE),
		OutDone: make(chan interface{}, BUFSIZE),
		w:       w,
	}
}

// Run runs the PostingsPrinter process
func (p *PostingsPrinter) Run() {
	defer close(p.OutDone)
	for list := range p.In {
		fmt.Fprintln(p.w, list.String())
	}
	p.OutDone <- &DoneSignal{}
}
