// Package pg implements a journal in a Postgresql database.
package pg

import (
	"context"
	"database/sql"
	"time"

	"github.com/bobg/sqlutil"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/bobg/direncode/journal"
)

var _ journal.Journal = &Journal{}

// Journal is a Postgresql-based journal.
type Journal struct {
	db *sql.DB
}

// Schema is the SQL that New executes.
// It creates the `direncode_jobs` table if it does not exist.
// (If it does exist, it must have the columns, constraints, and indexing described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS direncode_jobs (
  job_id TEXT PRIMARY KEY NOT NULL,
  src TEXT NOT NULL,
  dst TEXT NOT NULL,
  started TIMESTAMP WITH TIME ZONE NOT NULL,
  finished TIMESTAMP WITH TIME ZONE NOT NULL,
  ok BOOLEAN NOT NULL,
  message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS direncode_jobs_started_idx ON direncode_jobs (started);
`

// New produces a new Journal using `db` for storage.
// It expects to create table `direncode_jobs`,
// or for that table already to exist with the correct schema.
// (See variable Schema.)
func New(ctx context.Context, db *sql.DB) (*Journal, error) {
	_, err := db.ExecContext(ctx, Schema)
	return &Journal{db: db}, errors.Wrap(err, "creating schema")
}

// Record implements journal.Journal.
func (j *Journal) Record(ctx context.Context, e journal.Entry) error {
	const q = `INSERT INTO direncode_jobs (job_id, src, dst, started, finished, ok, message) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := j.db.ExecContext(ctx, q, e.JobID, e.Src, e.Dst, e.Started, e.Finished, e.OK, e.Message)
	return errors.Wrapf(err, "inserting job %s", e.JobID)
}

// List implements journal.Journal.
func (j *Journal) List(ctx context.Context, f func(journal.Entry) error) error {
	const q = `SELECT job_id, src, dst, started, finished, ok, message FROM direncode_jobs ORDER BY started, job_id`
	return sqlutil.ForQueryRows(ctx, j.db, q, func(jobID, src, dst string, started, finished time.Time, ok bool, msg string) error {
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

func init() {
	journal.Register("pg", func(ctx context.Context, conf map[string]interface{}) (journal.Journal, error) {
		conn, ok := journal.ConfString(conf, "conn")
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("postgres", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(ctx, db)
	})
}
