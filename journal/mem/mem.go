// Package mem implements an in-memory journal that keeps only the most recent entries.
//
// Its contents last only as long as the process,
// so it is for tests and for programs embedding a synchronizer,
// not for the direncode commands.
package mem

import (
	"context"
	"sort"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/bobg/direncode/journal"
)

// DefaultSize is the number of entries a journal created from a config without "size" keeps.
const DefaultSize = 1024

var _ journal.Journal = &Journal{}

// Journal is a memory-based journal.
// When it is full, recording a new entry evicts the oldest one.
type Journal struct {
	c *lru.Cache // JobID->journal.Entry
}

// New produces a new Journal holding up to size entries.
func New(size int) (*Journal, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrapf(err, "creating cache of size %d", size)
	}
	return &Journal{c: c}, nil
}

// Record implements journal.Journal.
func (j *Journal) Record(_ context.Context, e journal.Entry) error {
	j.c.Add(e.JobID, e)
	return nil
}

// List implements journal.Journal.
func (j *Journal) List(ctx context.Context, f func(journal.Entry) error) error {
	var entries []journal.Entry
	for _, k := range j.c.Keys() {
		// Peek, not Get, so listing does not reorder the cache.
		if v, ok := j.c.Peek(k); ok {
			entries = append(entries, v.(journal.Entry))
		}
	}
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].Started.Before(entries[b].Started)
	})
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}

// Len is the number of entries currently held.
func (j *Journal) Len() int {
	return j.c.Len()
}

func init() {
	journal.Register("mem", func(_ context.Context, conf map[string]interface{}) (journal.Journal, error) {
		size, ok, err := journal.ConfInt(conf, "size")
		if err != nil {
			return nil, errors.Wrap(err, `parsing "size" parameter`)
		}
		if !ok {
			size = DefaultSize
		}
		return New(size)
	})
}
