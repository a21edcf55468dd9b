package journal

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/bobg/direncode/encoder"
)

// ctxJournal fails to record on a done context, as the SQL journals do.
type ctxJournal struct {
	entries []Entry
}

func (j *ctxJournal) Record(ctx context.Context, e Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.entries = append(j.entries, e)
	return nil
}

func (j *ctxJournal) List(ctx context.Context, f func(Entry) error) error {
	for _, e := range j.entries {
		if err := f(e); err != nil {
			return err
		}
	}
	return nil
}

func TestRecorder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	enc := encoder.Func(func(ctx context.Context, src, dst string) encoder.Result {
		res := encoder.Result{JobID: "job-" + dst, Src: src, Dst: dst}
		if dst == "b.m4v" {
			res.Err = errors.New("exit status 1")
		}
		// The interrupt arrives while the encode is running.
		cancel()
		return res
	})

	j := new(ctxJournal)
	r := NewRecorder(enc, j)

	if res := r.Encode(ctx, "a.mkv", "a.m4v"); !res.OK() {
		t.Errorf("got error %v", res.Err)
	}
	if res := r.Encode(ctx, "b.mkv", "b.m4v"); res.OK() {
		t.Error("expected failure to pass through")
	}

	if len(j.entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(j.entries))
	}
	if !j.entries[0].OK || j.entries[1].OK || j.entries[1].Message != "exit status 1" {
		t.Errorf("got entries %+v", j.entries)
	}
}
