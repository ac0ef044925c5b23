package components

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strconv"
	str "strings"
	"time"

	"github.com/flowbase/flowbase"
	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"
)

// Database drivers accepted by OpenPostingsDB
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const postingsSchema = `
CREATE TABLE IF NOT EXISTS index_runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	input TEXT NOT NULL,
	reducers INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS postings (
	run_id TEXT NOT NULL REFERENCES index_runs(id),
	kind TEXT NOT NULL,
	component1 TEXT NOT NULL,
	component2 TEXT NOT NULL,
	position INTEGER NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (run_id, kind, component1, component2, position)
);
`

// OpenPostingsDB opens a database for PostingsSQLWriter and creates its
// tables when missing. SQLite databases are switched to WAL mode.
func OpenPostingsDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, postingsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init postings schema: %w", err)
	}
	return db, nil
}

// RunInfo describes an index run as recorded in the index_runs table
type RunInfo struct {
	Input    string
	Reducers int
}

// PostingsSQLWriter stores posting lists in a database, one row per posting
// value, all in a single transaction per run. Each run is identified by a
// ULID, so several runs can share a database.
type PostingsSQLWriter struct {
	In      chan *PostingsList
	OutDone chan interface{}
	db      *sql.DB
	driver  string
	run     RunInfo
	runID   string
	ctx     context.Context
	metrics *Metrics
	err     error
}

// NewPostingsSQLWriter returns an initialized PostingsSQLWriter on db, which
// must have been opened with OpenPostingsDB for the same driver
func NewPostingsSQLWriter(ctx context.Context, db *sql.DB, driver string, run RunInfo, metrics *Metrics) *PostingsSQLWriter {
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &PostingsSQLWriter{
		In:      make(chan *PostingsList, BUFSIZE),
		OutDone: make(chan interface{}, BUFSIZE),
		db:      db,
		driver:  driver,
		run:     run,
		runID:   ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		ctx:     ctx,
		metrics: metrics,
	}
}

// RunID returns the id under which this writer stores its postings
func (p *PostingsSQLWriter) RunID() string {
	return p.runID
}

// Run runs the PostingsSQLWriter process
func (p *PostingsSQLWriter) Run() {
	defer close(p.OutDone)

	if err := p.write(); err != nil {
		flowbase.Error.Println("Could not write postings to database:", err)
		p.err = err
		for range p.In {
		}
		return
	}
	flowbase.Info.Printf("Stored postings of run %s\n", p.runID)
	p.OutDone <- &DoneSignal{}
}

// Err returns the error that stopped the writer, if any. Only valid after
// Run has returned.
func (p *PostingsSQLWriter) Err() error {
	return p.err
}

func (p *PostingsSQLWriter) write() error {
	tx, err := p.db.BeginTx(p.ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(p.ctx,
		rebind(p.driver, "INSERT INTO index_runs (id, started_at, input, reducers) VALUES (?, ?, ?, ?)"),
		p.runID, time.Now().UTC().Format(time.RFC3339), p.run.Input, p.run.Reducers)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(p.ctx,
		rebind(p.driver, "INSERT INTO postings (run_id, kind, component1, component2, position, value) VALUES (?, ?, ?, ?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	written := p.metrics.PostingsWritten.WithLabelValues("sql")
	for list := range p.In {
		for i, v := range list.Values {
			if _, err := stmt.ExecContext(p.ctx, p.runID, list.Key.Kind.String(), list.Key.First, list.Key.Second, i, v); err != nil {
				return fmt.Errorf("insert posting %s: %w", list.Key, err)
			}
		}
		written.Inc()
	}

	if err := p.ctx.Err(); err != nil {
		return fmt.Errorf("not committing run %s: %w", p.runID, context.Cause(p.ctx))
	}
	return tx.Commit()
}

// rebind turns ? placeholders into $1, $2, ... for PostgreSQL
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b str.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LoadPostings reads back the posting lists of a run, keyed by pivot key,
// values in stored order
func LoadPostings(ctx context.Context, db *sql.DB, driver, runID string) (map[PivotKey][]string, error) {
	rows, err := db.QueryContext(ctx,
		rebind(driver, "SELECT kind, component1, component2, value FROM postings WHERE run_id = ? ORDER BY kind, component1, component2, position"),
		runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	postings := make(map[PivotKey][]string)
	for rows.Next() {
		var kind, first, second, value string
		if err := rows.Scan(&kind, &first, &second, &value); err != nil {
			return nil, err
		}
		k, err := ParsePivotKind(kind)
		if err != nil {
			return nil, err
		}
		key := PivotKey{Kind: k, First: first, Second: second}
		postings[key] = append(postings[key], value)
	}
	return postings, rows.Err()
}
