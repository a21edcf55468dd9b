package testutil

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bobg/direncode"
	"github.com/bobg/direncode/encoder"
)

// Call is one recorded invocation of an Encoder.
type Call struct {
	Src, Dst string
}

// Encoder is a fake encoder.Encoder that leaves the same traces on disk as the real one.
// On success it writes the source's content to dst.
// When Fail is set it writes dst.part and dst.part.log.txt instead.
type Encoder struct {
	mu    sync.Mutex
	Fail  bool
	calls []Call
}

var _ encoder.Encoder = &Encoder{}

// Encode implements encoder.Encoder.
func (e *Encoder) Encode(_ context.Context, src, dst string) encoder.Result {
	e.mu.Lock()
	e.calls = append(e.calls, Call{Src: src, Dst: dst})
	fail := e.Fail
	e.mu.Unlock()

	res := encoder.Result{
		JobID:   uuid.New().String(),
		Src:     src,
		Dst:     dst,
		LogPath: dst + direncode.LogSuffix,
		Started: time.Now(),
	}
	res.Err = fakeEncode(src, dst, fail)
	res.Finished = time.Now()
	return res
}

func fakeEncode(src, dst string, fail bool) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Wrapf(err, "reading %s", src)
	}
	if !fail {
		return os.WriteFile(dst, data, 0644)
	}
	err = os.WriteFile(dst+direncode.PartSuffix, data[:len(data)/2], 0644)
	if err != nil {
		return err
	}
	err = os.WriteFile(dst+direncode.LogSuffix, []byte("ERROR: exit status 1\n"), 0644)
	if err != nil {
		return err
	}
	return errors.New("exit status 1")
}

// Calls returns the calls made so far.
func (e *Encoder) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// Reset forgets the recorded calls.
func (e *Encoder) Reset() {
	e.mu.Lock()
	e.calls = nil
	e.mu.Unlock()
}
