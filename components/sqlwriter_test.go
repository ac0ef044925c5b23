package components

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSQLWriter(w *PostingsSQLWriter, lists []*PostingsList) []interface{} {
	go func() {
		defer close(w.In)
		for _, l := range lists {
			w.In <- l
		}
	}()
	go w.Run()

	var done []interface{}
	for d := range w.OutDone {
		done = append(done, d)
	}
	return done
}

func TestPostingsSQLWriter(t *testing.T) {
	ctx := context.Background()
	db, err := OpenPostingsDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "postings.db"))
	require.NoError(t, err)
	defer db.Close()

	metrics := NewMetrics()
	w := NewPostingsSQLWriter(ctx, db, DriverSQLite, RunInfo{Input: "/in", Reducers: 2}, metrics)
	done := runSQLWriter(w, testLists)

	require.NoError(t, w.Err())
	assert.Len(t, done, 1)
	assert.Len(t, w.RunID(), 26)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.PostingsWritten.WithLabelValues("sql")))

	postings, err := LoadPostings(ctx, db, DriverSQLite, w.RunID())
	require.NoError(t, err)
	require.Len(t, postings, len(testLists))
	for _, l := range testLists {
		assert.Equal(t, l.Values, postings[l.Key], l.Key.String())
	}

	var reducers int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT reducers FROM index_runs WHERE id = ?", w.RunID()).Scan(&reducers))
	assert.Equal(t, 2, reducers)
}

func TestPostingsSQLWriterRunsShareDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := OpenPostingsDB(ctx, DriverSQLite, filepath.Join(t.TempDir(), "postings.db"))
	require.NoError(t, err)
	defer db.Close()

	first := NewPostingsSQLWriter(ctx, db, DriverSQLite, RunInfo{Input: "/a", Reducers: 1}, nil)
	runSQLWriter(first, testLists[:1])
	second := NewPostingsSQLWriter(ctx, db, DriverSQLite, RunInfo{Input: "/b", Reducers: 1}, nil)
	runSQLWriter(second, testLists[1:])
	require.NoError(t, first.Err())
	require.NoError(t, second.Err())
	assert.NotEqual(t, first.RunID(), second.RunID())

	postings, err := LoadPostings(ctx, db, DriverSQLite, first.RunID())
	require.NoError(t, err)
	assert.Len(t, postings, 1)
	postings, err = LoadPostings(ctx, db, DriverSQLite, second.RunID())
	require.NoError(t, err)
	assert.Len(t, postings, 2)
}

func TestPostingsSQLWriterDoesNotCommitWhenCancelled(t *testing.T) {
	db, err := OpenPostingsDB(context.Background(), DriverSQLite, filepath.Join(t.TempDir(), "postings.db"))
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithCancelCause(context.Background())
	mapErr := errors.New("partition unreadable")
	cancel(mapErr)
	w := NewPostingsSQLWriter(ctx, db, DriverSQLite, RunInfo{Input: "/in", Reducers: 1}, nil)
	done := runSQLWriter(w, nil)

	assert.Error(t, w.Err())
	assert.Empty(t, done)

	var runs int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM index_runs").Scan(&runs))
	assert.Equal(t, 0, runs)
}

func TestOpenPostingsDBUnknownDriver(t *testing.T) {
	_, err := OpenPostingsDB(context.Background(), "mysql", "dsn")
	assert.Error(t, err)
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO t (a, b) VALUES (?, ?)"
	assert.Equal(t, q, rebind(DriverSQLite, q))
	assert.Equal(t, "INSERT INTO t (a, b) VALUES ($1, $2)", rebind(DriverPostgres, q))
}
