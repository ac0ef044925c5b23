package components

import (
	"context"
	"sort"

	"github.com/cespare/xxhash/v2"
	"github.com/flowbase/flowbase"
)

// Shuffler groups all posting entries by key. It is the barrier between the
// map and reduce side: nothing is sent on Out before In is closed. Keys are
// spread over NumReducers reduce partitions, and sent partition by partition
// in key order.
type Shuffler struct {
	In          chan PostingEntry
	Out         chan *KeyGroup
	NumReducers int
	ctx         context.Context
}

// NewShuffler returns an initialized Shuffler. If ctx is cancelled by the
// time the input is drained, the map output is incomplete and nothing is sent.
func NewShuffler(ctx context.Context, numReducers int) *Shuffler {
	if numReducers < 1 {
		numReducers = 1
	}
	return &Shuffler{
		In:          make(chan PostingEntry, BUFSIZE),
		Out:         make(chan *KeyGroup, BUFSIZE),
		NumReducers: numReducers,
		ctx:         ctx,
	}
}

// Run runs the Shuffler process
func (p *Shuffler) Run() {
	defer close(p.Out)

	groups := make(map[PivotKey][]string)
	for e := range p.In {
		groups[e.Key] = append(groups[e.Key], e.Value)
	}
	if err := p.ctx.Err(); err != nil {
		flowbase.Warning.Printf("Dropping %d key groups of incomplete map output: %v\n", len(groups), context.Cause(p.ctx))
		return
	}

	partitions := make([][]PivotKey, p.NumReducers)
	for key := range groups {
		n := ReducePartition(key, p.NumReducers)
		partitions[n] = append(partitions[n], key)
	}
	flowbase.Debug.Printf("Shuffled %d keys into %d partitions\n", len(groups), p.NumReducers)

	for n, keys := range partitions {
		sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
		for _, key := range keys {
			p.Out <- &KeyGroup{Partition: n, Key: key, Values: groups[key]}
		}
	}
}

// ReducePartition returns the reduce partition, in [0, numReducers), of key
func ReducePartition(key PivotKey, numReducers int) int {
	h := xxhash.Sum64String(key.Kind.String() + "\x00" + key.First + "\x00" + key.Second)
	return int(h % uint64(numReducers))
}
