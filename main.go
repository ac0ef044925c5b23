// rdf2idx builds an inverted index over a corpus of RDF documents. For every
// triple it records the subject under its (predicate, object) key, the
// predicate under its (subject, object) key and the object under its
// (subject, predicate) key, and writes the sorted posting lists of all keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/flowbase/flowbase"
	"github.com/rdfio/rdf2idx/components"
	"github.com/spf13/afero"
)

func main() {
	flowbase.InitLogInfo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}

// run parses args, runs the job and returns the exit code
func run(ctx context.Context, args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, fs, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if cfg == nil {
		return 1
	}

	switch cfg.LogLevel {
	case "debug":
		flowbase.InitLogDebug()
	case "warning":
		flowbase.InitLogWarning()
	default:
		flowbase.InitLogInfo()
	}

	job := components.NewJob(cfg, fs)
	job.Stdout = stdout
	if err := job.Run(ctx); err != nil {
		flowbase.Error.Println("Job failed:", err)
		return 1
	}
	if id := job.RunID(); id != "" {
		flowbase.Info.Println("Database run id:", id)
	}
	return 0
}

// parseArgs builds the job config from an optional -config file and the
// flags, flags taking precedence. It returns a nil config, after printing
// usage, when the input or output location is missing.
func parseArgs(args []string, fs afero.Fs, stderr io.Writer) (*components.Config, error) {
	flags := flag.NewFlagSet("rdf2idx", flag.ContinueOnError)
	flags.SetOutput(stderr)

	configFile := flags.String("config", "", "YAML config file")
	input := flags.String("input", "", "input path (file or directory of partitions)")
	output := flags.String("output", "", "output path")
	numReducers := flags.Int("numReducers", 0, "number of reducers")
	workers := flags.Int("workers", 0, "number of partitions mapped in parallel")
	format := flags.String("format", "", "input format: rdfxml, turtle or ntriples")
	marker := flags.String("marker", "", "string closing every input document")
	stopWords := flags.String("stopwords", "", "YAML stop-word file")
	compress := flags.Bool("compress", false, "zstd compress the part files")
	printLists := flags.Bool("print", false, "also print posting lists to stdout")
	dbDriver := flags.String("db-driver", "", "also store postings in a database: sqlite or postgres")
	dbDSN := flags.String("db-dsn", "", "database data source name")
	metricsFile := flags.String("metrics-file", "", "write prometheus metrics to this file")
	logLevel := flags.String("loglevel", "", "debug, info or warning")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	cfg := components.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = components.LoadConfig(fs, *configFile); err != nil {
			return nil, err
		}
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "numReducers":
			cfg.NumReducers = *numReducers
		case "workers":
			cfg.Workers = *workers
		case "format":
			cfg.Format = *format
		case "marker":
			cfg.Marker = *marker
		case "stopwords":
			cfg.StopWords = *stopWords
		case "compress":
			cfg.Compress = *compress
		case "print":
			cfg.Print = *printLists
		case "db-driver":
			cfg.Database.Driver = *dbDriver
		case "db-dsn":
			cfg.Database.DSN = *dbDSN
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "loglevel":
			cfg.LogLevel = *logLevel
		}
	})

	if cfg.Input == "" || cfg.Output == "" {
		fmt.Fprintln(stderr, "args:", args)
		fmt.Fprintln(stderr, "Both an input and an output location are required")
		flags.Usage()
		return nil, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
