// Package journal records the history of encode jobs.
//
// The synchronizer itself needs no history:
// the destination directory's listing is all the state it keeps.
// A journal is for the operator,
// who may want to know which encodes ran, when, and why some failed,
// after the failure residue has been cleaned up.
package journal

import (
	"context"
	"time"

	"github.com/bobg/direncode/encoder"
)

// Entry is the record of one encode attempt.
type Entry struct {
	JobID             string
	Src, Dst          string
	Started, Finished time.Time
	OK                bool

	// Message is the error text of a failed attempt.
	Message string
}

// EntryFromResult converts the result of an encode into a journal entry.
func EntryFromResult(res encoder.Result) Entry {
	e := Entry{
		JobID:    res.JobID,
		Src:      res.Src,
		Dst:      res.Dst,
		Started:  res.Started,
		Finished: res.Finished,
		OK:       res.OK(),
	}
	if res.Err != nil {
		e.Message = res.Err.Error()
	}
	return e
}

// Journal is an append-only store of entries.
type Journal interface {
	// Record adds an entry.
	Record(context.Context, Entry) error

	// List calls f on each entry in order of start time.
	// If f returns an error, List stops and returns that error.
	List(ctx context.Context, f func(Entry) error) error
}
