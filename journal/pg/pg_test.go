package pg

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/bobg/direncode/testutil"
)

func TestJournal(t *testing.T) {
	withJournal(t, func(ctx context.Context, j *Journal) {
		testutil.Journal(ctx, t, j)
	})
}

const connVar = "DIRENCODE_PG_TESTING_CONN"

func withJournal(t *testing.T, f func(context.Context, *Journal)) {
	connstr := os.Getenv(connVar)
	if connstr == "" {
		t.Skipf("to run %s, set %s to a valid Postgresql connection string", t.Name(), connVar)
	}

	db, err := sql.Open("postgres", connstr)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	ctx := context.Background()

	// Start from an empty table.
	_, err = db.ExecContext(ctx, `DROP TABLE IF EXISTS direncode_jobs`)
	if err != nil {
		t.Fatal(err)
	}

	j, err := New(ctx, db)
	if err != nil {
		t.Fatal(err)
	}

	f(ctx, j)
}
