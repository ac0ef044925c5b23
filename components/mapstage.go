package components

import (
	"context"
	"fmt"

	"github.com/flowbase/flowbase"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// MapStage is a process mapping the partitions it receives on InPartition,
// Workers of them at a time, and sending all posting entries on OutEntry.
// Fragments of one partition are always handled in order by one goroutine.
type MapStage struct {
	InPartition chan string
	OutEntry    chan PostingEntry
	Workers     int
	fs          afero.Fs
	mapper      *Mapper
	ctx         context.Context
	cancel      context.CancelCauseFunc
	err         error
}

// NewMapStage returns an initialized MapStage reading partitions from fs. If
// a partition fails, cancel is called with the error so that downstream
// processes can tell a complete map output from a truncated one.
func NewMapStage(ctx context.Context, cancel context.CancelCauseFunc, fs afero.Fs, mapper *Mapper, workers int) *MapStage {
	if workers < 1 {
		workers = 1
	}
	return &MapStage{
		InPartition: make(chan string, BUFSIZE),
		OutEntry:    make(chan PostingEntry, BUFSIZE),
		Workers:     workers,
		fs:          fs,
		mapper:      mapper,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Run runs the MapStage process
func (p *MapStage) Run() {
	defer close(p.OutEntry)

	g, ctx := errgroup.WithContext(p.ctx)
	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			for name := range p.InPartition {
				if err := p.mapPartition(ctx, name); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		flowbase.Error.Println("Map stage failed:", err)
		p.err = err
		if p.cancel != nil {
			p.cancel(err)
		}
		// Let the feeder of InPartition finish
		for range p.InPartition {
		}
	}
}

// Err returns the error that stopped the stage, if any. Only valid after Run
// has returned.
func (p *MapStage) Err() error {
	return p.err
}

func (p *MapStage) mapPartition(ctx context.Context, name string) error {
	flowbase.Debug.Printf("Starting processing partition %s\n", name)
	fh, err := OpenPartition(p.fs, name)
	if err != nil {
		return fmt.Errorf("open partition %s: %w", name, err)
	}
	defer fh.Close()

	err = p.mapper.MapPartition(ctx, name, fh, func(e PostingEntry) error {
		select {
		case p.OutEntry <- e:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		return fmt.Errorf("map partition %s: %w", name, err)
	}
	return nil
}
