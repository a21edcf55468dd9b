package mem

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bobg/direncode/journal"
	"github.com/bobg/direncode/testutil"
)

func TestJournal(t *testing.T) {
	j, err := New(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	testutil.Journal(context.Background(), t, j)
}

func TestEviction(t *testing.T) {
	ctx := context.Background()

	j, err := New(3)
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2021, 8, 7, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := journal.Entry{
			JobID:   fmt.Sprintf("job-%d", i),
			Started: base.Add(time.Duration(i) * time.Minute),
		}
		if err := j.Record(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if j.Len() != 3 {
		t.Fatalf("got %d entries, want 3", j.Len())
	}

	got := testutil.ListAll(ctx, t, j)
	for i, e := range got {
		if want := fmt.Sprintf("job-%d", i+2); e.JobID != want {
			t.Errorf("entry %d is %s, want %s", i, e.JobID, want)
		}
	}
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	j, err := journal.Create(ctx, "mem", map[string]interface{}{"size": int64(2)})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := j.(*Journal); !ok {
		t.Fatalf("got a %T, want *mem.Journal", j)
	}

	if _, err = journal.Create(ctx, "mem", map[string]interface{}{"size": true}); err == nil {
		t.Error("expected an error for a non-numeric size")
	}
}
