package logging

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/bobg/direncode/encoder"
)

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	var fail bool
	nested := encoder.Func(func(_ context.Context, src, dst string) encoder.Result {
		now := time.Now()
		res := encoder.Result{JobID: "job-1", Src: src, Dst: dst, LogPath: dst + ".part.log.txt", Started: now, Finished: now}
		if fail {
			res.Err = errors.New("kaboom")
		}
		return res
	})
	e := New(nested)

	res := e.Encode(context.Background(), "/src/a.mkv", "/dst/a.m4v")
	if !res.OK() {
		t.Fatal(res.Err)
	}
	if !strings.Contains(buf.String(), "[JOB job-1] encoded /dst/a.m4v") {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}

	buf.Reset()
	fail = true
	res = e.Encode(context.Background(), "/src/a.mkv", "/dst/a.m4v")
	if res.OK() {
		t.Fatal("expected failure to pass through")
	}
	if !strings.Contains(buf.String(), "ERROR encoding /src/a.mkv: kaboom") {
		t.Errorf("unexpected log output:\n%s", buf.String())
	}
}
