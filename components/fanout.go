package components

// PostingsFanOut sends every PostingsList it receives to all of its out-ports
type PostingsFanOut struct {
	In  chan *PostingsList
	Out map[string]chan *PostingsList
}

// NewPostingsFanOut creates a new PostingsFanOut process
func NewPostingsFanOut() *PostingsFanOut {
	return &PostingsFanOut{
		In:  make(chan *PostingsList, BUFSIZE),
		Out: make(map[string]chan *PostingsList),
	}
}

// Run runs the PostingsFanOut process
func (proc *PostingsFanOut) Run() {
	for _, outPort := range proc.Out {
		defer close(outPort)
	}

	for list := range proc.In {
		for _, outPort := range proc.Out {
			outPort <- list
		}
	}
}
