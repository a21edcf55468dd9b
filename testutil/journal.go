// Package testutil contains helpers shared by the tests of several packages.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	"github.com/bobg/direncode/journal"
)

// Journal records some entries, out of order, in an empty journal
// and makes sure that List produces them in order of start time.
func Journal(ctx context.Context, t *testing.T, j journal.Journal) {
	t.Helper()

	base := time.Date(2021, 8, 7, 15, 13, 35, 0, time.UTC)

	var want []journal.Entry
	for i := 0; i < 5; i++ {
		e := journal.Entry{
			JobID:    fmt.Sprintf("job-%d", i),
			Src:      fmt.Sprintf("/src/movie%d.mkv", i),
			Dst:      fmt.Sprintf("/dst/movie%d.m4v", i),
			Started:  base.Add(time.Duration(i) * time.Hour),
			Finished: base.Add(time.Duration(i)*time.Hour + 20*time.Minute),
			OK:       i%2 == 0,
		}
		if !e.OK {
			e.Message = "exit status 1"
		}
		want = append(want, e)
	}

	for _, i := range []int{3, 0, 4, 1, 2} {
		if err := j.Record(ctx, want[i]); err != nil {
			t.Fatal(err)
		}
	}

	got := ListAll(ctx, t, j)

	// Compare instants, not locations.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// An error from the callback stops the listing.
	var (
		stop  = errors.New("stop")
		count int
	)
	err := j.List(ctx, func(journal.Entry) error {
		count++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("got error %v, want %v", err, stop)
	}
	if count != 1 {
		t.Errorf("callback called %d times after returning an error, want 1", count)
	}
}

// ListAll collects all the entries of a journal.
func ListAll(ctx context.Context, t *testing.T, j journal.Journal) []journal.Entry {
	t.Helper()

	var result []journal.Entry
	err := j.List(ctx, func(e journal.Entry) error {
		result = append(result, e)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}
