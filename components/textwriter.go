package components

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/flowbase/flowbase"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// ErrOutputExists is returned when the output directory of a job already has
// content
var ErrOutputExists = errors.New("output directory already exists and is not empty")

// SuccessFileName marks an output directory whose part files are complete
const SuccessFileName = "_SUCCESS"

// PostingsTextWriter writes posting lists to one text file per reduce
// partition, part-r-00000 and so on, one list per line:
//
//	(predobj, <predicate>, <label>)\t[<subject>, <subject>, ...]
//
// When all lists are written, an empty _SUCCESS file is created and a
// DoneSignal is sent on OutDone.
type PostingsTextWriter struct {
	In          chan *PostingsList
	OutDone     chan interface{}
	fs          afero.Fs
	dir         string
	numReducers int
	compress    bool
	ctx         context.Context
	metrics     *Metrics
	err         error
}

// NewPostingsTextWriter returns an initialized PostingsTextWriter writing
// into dir on fs. With compress set, part files are zstd compressed and get
// a .zst suffix.
func NewPostingsTextWriter(ctx context.Context, fs afero.Fs, dir string, numReducers int, compress bool, metrics *Metrics) *PostingsTextWriter {
	if numReducers < 1 {
		numReducers = 1
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &PostingsTextWriter{
		In:          make(chan *PostingsList, BUFSIZE),
		OutDone:     make(chan interface{}, BUFSIZE),
		fs:          fs,
		dir:         dir,
		numReducers: numReducers,
		compress:    compress,
		ctx:         ctx,
		metrics:     metrics,
	}
}

// PartFileName returns the name of the part file of a reduce partition
func PartFileName(partition int, compressed bool) string {
	name := fmt.Sprintf("part-r-%05d", partition)
	if compressed {
		name += ".zst"
	}
	return name
}

// Run runs the PostingsTextWriter process
func (p *PostingsTextWriter) Run() {
	defer close(p.OutDone)

	if err := p.write(); err != nil {
		flowbase.Error.Println("Could not write text output:", err)
		p.err = err
		for range p.In {
		}
		return
	}

	flowbase.Debug.Printf("Sending done signal on chan %v now in PostingsTextWriter ...\n", p.OutDone)
	p.OutDone <- &DoneSignal{}
}

// Err returns the error that stopped the writer, if any. Only valid after
// Run has returned.
func (p *PostingsTextWriter) Err() error {
	return p.err
}

func (p *PostingsTextWriter) write() error {
	if err := p.prepareDir(); err != nil {
		return err
	}

	parts := make([]*partFile, p.numReducers)
	defer func() {
		for _, part := range parts {
			if part != nil {
				part.Close()
			}
		}
	}()
	for i := range parts {
		part, err := p.createPart(i)
		if err != nil {
			return err
		}
		parts[i] = part
	}

	written := p.metrics.PostingsWritten.WithLabelValues("text")
	for list := range p.In {
		if _, err := parts[list.Partition%p.numReducers].WriteString(list.String() + "\n"); err != nil {
			return fmt.Errorf("write %s: %w", PartFileName(list.Partition, p.compress), err)
		}
		written.Inc()
	}

	for i, part := range parts {
		parts[i] = nil
		if err := part.Close(); err != nil {
			return fmt.Errorf("close %s: %w", PartFileName(i, p.compress), err)
		}
	}

	if err := p.ctx.Err(); err != nil {
		return fmt.Errorf("not marking output complete: %w", context.Cause(p.ctx))
	}
	return afero.WriteFile(p.fs, filepath.Join(p.dir, SuccessFileName), nil, 0644)
}

func (p *PostingsTextWriter) prepareDir() error {
	exists, err := afero.DirExists(p.fs, p.dir)
	if err != nil {
		return err
	}
	if exists {
		empty, err := afero.IsEmpty(p.fs, p.dir)
		if err != nil {
			return err
		}
		if !empty {
			return fmt.Errorf("%s: %w", p.dir, ErrOutputExists)
		}
	}
	return p.fs.MkdirAll(p.dir, 0755)
}

func (p *PostingsTextWriter) createPart(partition int) (*partFile, error) {
	fh, err := p.fs.Create(filepath.Join(p.dir, PartFileName(partition, p.compress)))
	if err != nil {
		return nil, fmt.Errorf("create part file: %w", err)
	}
	part := &partFile{file: fh}
	var w io.Writer = fh
	if p.compress {
		enc, err := zstd.NewWriter(fh)
		if err != nil {
			fh.Close()
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		part.enc = enc
		w = enc
	}
	part.Writer = bufio.NewWriter(w)
	return part, nil
}

// partFile is one open part file, with buffering and optional compression
// layered on top
type partFile struct {
	*bufio.Writer
	enc  *zstd.Encoder
	file afero.File
}

func (f *partFile) Close() error {
	err := f.Flush()
	if f.enc != nil {
		if cerr := f.enc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// DoneSignal is sent by sinks when they have written all their input
type DoneSignal struct{}
