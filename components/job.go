package components

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flowbase/flowbase"
	"github.com/spf13/afero"
)

// Job builds the index for one Config: it lists the input partitions, wires
// the map, shuffle, reduce and sink processes into a flowbase pipeline, and
// runs it.
type Job struct {
	Config  *Config
	Fs      afero.Fs
	Metrics *Metrics
	// Stdout receives the posting lists when Config.Print is set
	Stdout io.Writer

	runID string
}

// NewJob returns a Job for cfg on fs, with fresh metrics
func NewJob(cfg *Config, fs afero.Fs) *Job {
	return &Job{
		Config:  cfg,
		Fs:      fs,
		Metrics: NewMetrics(),
		Stdout:  os.Stdout,
	}
}

// RunID returns the id the postings were stored under in the database sink,
// or "" when there was none. Only valid after Run.
func (j *Job) RunID() string {
	return j.runID
}

// Run runs the job to completion. Documents that can not be parsed are
// skipped; any other failure is returned.
func (j *Job) Run(ctx context.Context) error {
	cfg := j.Config
	if err := cfg.Validate(); err != nil {
		return err
	}

	var stopWords *StopList
	if cfg.StopWords != "" {
		var err error
		if stopWords, err = LoadStopList(j.Fs, cfg.StopWords); err != nil {
			return err
		}
	} else {
		stopWords = NewStopList(EnglishStopWords)
	}

	source, err := NewRDFSource(cfg.Format)
	if err != nil {
		return err
	}
	partitions, err := ListPartitions(j.Fs, cfg.Input)
	if err != nil {
		return err
	}
	flowbase.Info.Printf("Indexing %d partitions from %s with %d workers and %d reducers\n",
		len(partitions), cfg.Input, cfg.Workers, cfg.NumReducers)

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	// Create a pipeline runner
	pipeRunner := flowbase.NewNet()

	// Initialize processes and add to runner
	mapper := NewMapper(source, NewTokenClassifier(stopWords), cfg.Marker, j.Metrics)
	mapStage := NewMapStage(ctx, cancel, j.Fs, mapper, cfg.Workers)
	pipeRunner.AddProcess(mapStage)

	shuffler := NewShuffler(ctx, cfg.NumReducers)
	pipeRunner.AddProcess(shuffler)

	reduceStage := NewReduceStage(cfg.NumReducers, j.Metrics)
	pipeRunner.AddProcess(reduceStage)

	fanOut := NewPostingsFanOut()
	pipeRunner.AddProcess(fanOut)

	sink := flowbase.NewSink()

	textWriter := NewPostingsTextWriter(ctx, j.Fs, cfg.Output, cfg.NumReducers, cfg.Compress, j.Metrics)
	pipeRunner.AddProcess(textWriter)
	fanOut.Out["text"] = textWriter.In
	sink.Connect(textWriter.OutDone)

	var sqlWriter *PostingsSQLWriter
	if cfg.Database.Driver != "" {
		db, err := OpenPostingsDB(ctx, cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open postings database: %w", err)
		}
		defer db.Close()
		sqlWriter = NewPostingsSQLWriter(ctx, db, cfg.Database.Driver, RunInfo{Input: cfg.Input, Reducers: cfg.NumReducers}, j.Metrics)
		pipeRunner.AddProcess(sqlWriter)
		fanOut.Out["sql"] = sqlWriter.In
		sink.Connect(sqlWriter.OutDone)
	}

	if cfg.Print {
		printer := NewPostingsPrinter(j.Stdout)
		pipeRunner.AddProcess(printer)
		fanOut.Out["print"] = printer.In
		sink.Connect(printer.OutDone)
	}

	pipeRunner.AddProcess(sink)

	// Connect workflow dependency network
	shuffler.In = mapStage.OutEntry
	reduceStage.In = shuffler.Out
	fanOut.In = reduceStage.Out

	go func() {
		defer close(mapStage.InPartition)
		for _, name := range partitions {
			mapStage.InPartition <- name
		}
	}()

	// Run the pipeline!
	pipeRunner.Run()

	errs := []error{mapStage.Err(), textWriter.Err()}
	if sqlWriter != nil {
		errs = append(errs, sqlWriter.Err())
		if sqlWriter.Err() == nil {
			j.runID = sqlWriter.RunID()
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if cfg.MetricsFile != "" {
		if err := j.Metrics.WriteToTextfile(cfg.MetricsFile); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	flowbase.Info.Printf("Index written to %s\n", cfg.Output)
	return nil
}
