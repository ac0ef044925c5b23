package components

import (
	"golang.org/x/sync/errgroup"
)

// ReduceStage is a process reducing every KeyGroup it receives into a
// PostingsList. Each reduce partition gets its own goroutine, so lists of one
// partition leave in the order their groups arrived.
type ReduceStage struct {
	In          chan *KeyGroup
	Out         chan *PostingsList
	NumReducers int
	reducer     *GroupingReducer
	metrics     *Metrics
}

// NewReduceStage returns an initialized ReduceStage
func NewReduceStage(numReducers int, metrics *Metrics) *ReduceStage {
	if numReducers < 1 {
		numReducers = 1
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &ReduceStage{
		In:          make(chan *KeyGroup, BUFSIZE),
		Out:         make(chan *PostingsList, BUFSIZE),
		NumReducers: numReducers,
		reducer:     NewGroupingReducer(),
		metrics:     metrics,
	}
}

// Run runs the ReduceStage process
func (p *ReduceStage) Run() {
	defer close(p.Out)

	var g errgroup.Group
	partitionIn := make([]chan *KeyGroup, p.NumReducers)
	for i := range partitionIn {
		in := make(chan *KeyGroup, BUFSIZE)
		partitionIn[i] = in
		g.Go(func() error {
			for group := range in {
				p.Out <- p.reducer.ReduceGroup(group)
				p.metrics.KeysReduced.Inc()
			}
			return nil
		})
	}

	for group := range p.In {
		partitionIn[group.Partition%p.NumReducers] <- group
	}
	for _, in := range partitionIn {
		close(in)
	}
	g.Wait()
}
