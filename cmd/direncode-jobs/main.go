// Command direncode-jobs inspects and cleans up after direncode encode jobs.
//
// Usage:
//
//	direncode-jobs ls DEST_DIR
//	direncode-jobs clean DEST_DIR
//	direncode-jobs history -type TYPE [-conn CONN]
//
// The ls subcommand lists the leftovers of failed encodes under DEST_DIR.
// The clean subcommand removes them,
// so that the next direncode run tries those encodes again.
// It waits for any direncode process working on DEST_DIR to exit first.
// The history subcommand prints the encode journal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bobg/subcmd"
	"github.com/pkg/errors"

	"github.com/bobg/direncode/dsync"
	"github.com/bobg/direncode/journal"
	_ "github.com/bobg/direncode/journal/pg"
	_ "github.com/bobg/direncode/journal/sqlite3"
)

type maincmd struct {
	out io.Writer
}

func main() {
	flag.Parse()

	err := subcmd.Run(context.Background(), maincmd{out: os.Stdout}, flag.Args())
	if err != nil {
		log.Fatal(err)
	}
}

func (c maincmd) Subcmds() map[string]subcmd.Subcmd {
	return map[string]subcmd.Subcmd{
		"ls":      withFlagSet("ls", c.ls),
		"clean":   withFlagSet("clean", c.clean),
		"history": withFlagSet("history", c.history),
	}
}

// withFlagSet adapts a subcommand that parses its own flags
// to the subcmd.Subcmd struct form.
func withFlagSet(name string, f func(context.Context, *flag.FlagSet, []string) error) subcmd.Subcmd {
	return subcmd.Subcmd{
		F: func(ctx context.Context, args []string) error {
			return f(ctx, flag.NewFlagSet(name, flag.ContinueOnError), args)
		},
	}
}

func (c maincmd) ls(_ context.Context, fset *flag.FlagSet, args []string) error {
	err := fset.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if fset.NArg() != 1 {
		return errors.New("usage: ls DEST_DIR")
	}

	residue, err := dsync.FindResidue(fset.Arg(0))
	if err != nil {
		return errors.Wrap(err, "finding residue")
	}
	for _, r := range residue {
		fmt.Fprintln(c.out, describe(r))
	}
	return nil
}

func (c maincmd) clean(_ context.Context, fset *flag.FlagSet, args []string) error {
	err := fset.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if fset.NArg() != 1 {
		return errors.New("usage: clean DEST_DIR")
	}
	dst := fset.Arg(0)

	unlock, err := dsync.Lock(dst)
	if err != nil {
		return errors.Wrapf(err, "locking %s", dst)
	}
	defer unlock()

	residue, err := dsync.CleanResidue(dst)
	if err != nil {
		return errors.Wrapf(err, "cleaning %s", dst)
	}
	for _, r := range residue {
		fmt.Fprintf(c.out, "removed %s\n", describe(r))
	}
	return nil
}

func (c maincmd) history(ctx context.Context, fset *flag.FlagSet, args []string) error {
	var (
		typ  = fset.String("type", "", "journal type ("+strings.Join(journal.Types(), ", ")+")")
		conn = fset.String("conn", "", "journal connection string")
	)
	err := fset.Parse(args)
	if err != nil {
		return errors.Wrap(err, "parsing args")
	}
	if *typ == "" {
		return errors.New("must supply -type")
	}

	conf := map[string]interface{}{"type": *typ}
	if *conn != "" {
		conf["conn"] = *conn
	}
	j, err := journal.Create(ctx, *typ, conf)
	if err != nil {
		return errors.Wrapf(err, "creating %s-type journal", *typ)
	}
	if cl, ok := j.(io.Closer); ok {
		defer cl.Close()
	}

	return j.List(ctx, func(e journal.Entry) error {
		status := "ok"
		if !e.OK {
			status = "FAILED: " + e.Message
		}
		_, err := fmt.Fprintf(c.out, "%s %s %s -> %s (%s) %s\n", e.Started.Format(time.RFC3339), e.JobID, e.Src, e.Dst, e.Finished.Sub(e.Started).Round(time.Millisecond), status)
		return err
	})
}

func describe(r dsync.Residue) string {
	var kinds []string
	if r.Part {
		kinds = append(kinds, "part")
	}
	if r.Log {
		kinds = append(kinds, "log")
	}
	return fmt.Sprintf("%s [%s]", r.Dst, strings.Join(kinds, ","))
}
