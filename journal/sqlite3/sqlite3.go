// Package sqlite3 implements a journal in a Sqlite database.
package sqlite3

import (
	"context"
	"database/sql"
	"time"

	"github.com/bobg/sqlutil"
	_ "github.com/mattn/go-sqlite3" // register the sqlite3 type for sql.Open
	"github.com/pkg/errors"

	"github.com/bobg/direncode/journal"
)

var _ journal.Journal = &Journal{}

// Journal is a Sqlite-based journal.
type Journal struct {
	db *sql.DB
}

// Schema is the SQL that New executes.
// It creates the `jobs` table if it does not exist.
// (If it does exist, it must have the columns, constraints, and indexing described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS jobs (
  job_id TEXT PRIMARY KEY NOT NULL,
  src TEXT NOT NULL,
  dst TEXT NOT NULL,
  started TEXT NOT NULL,
  finished TEXT NOT NULL,
  ok BOOLEAN NOT NULL,
  message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS jobs_started_idx ON jobs (started);
`

// New produces a new Journal using `db` for storage.
// It expects to create table `jobs`,
// or for that table already to exist with the correct schema.
// (See variable Schema.)
func New(ctx context.Context, db *sql.DB) (*Journal, error) {
	_, err := db.ExecContext(ctx, Schema)
	return &Journal{db: db}, errors.Wrap(err, "creating schema")
}

// Record implements journal.Journal.
func (j *Journal) Record(ctx context.Context, e journal.Entry) error {
	const q = `INSERT INTO jobs (job_id, src, dst, started, finished, ok, message) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := j.db.ExecContext(ctx, q, e.JobID, e.Src, e.Dst, formatTime(e.Started), formatTime(e.Finished), e.OK, e.Message)
	return errors.Wrapf(err, "inserting job %s", e.JobID)
}

// List implements journal.Journal.
func (j *Journal) List(ctx context.Context, f func(journal.Entry) error) error {
	const q = `SELECT job_id, src, dst, started, finished, ok, message FROM jobs ORDER BY started, job_id`
	return sqlutil.ForQueryRows(ctx, j.db, q, func(jobID, src, dst, startedStr, finishedStr string, ok bool, msg string) error {
		started, err := time.Parse(time.RFC3339Nano, startedStr)
		if err != nil {
			return errors.Wrapf(err, "parsing time %s", startedStr)
		}
		finished, err := time.Parse(time.RFC3339Nano, finishedStr)
		if err != nil {
			return errors.Wrapf(err, "parsing time %s", finishedStr)
		}
		return f(journal.Entry{
			JobID:    jobID,
			Src:      src,
			Dst:      dst,
			Started:  started,
			Finished: finished,
			OK:       ok,
			Message:  msg,
		})
	})
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Times are stored as fixed-width UTC strings so that they sort correctly as text.
func formatTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

func init() {
	journal.Register("sqlite3", func(ctx context.Context, conf map[string]interface{}) (journal.Journal, error) {
		conn, ok := journal.ConfString(conf, "conn")
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("sqlite3", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(ctx, db)
	})
}
