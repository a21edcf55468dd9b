// Package encoder describes an adapter that transcodes one movie file.
package encoder

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNoOutput is the error in a Result when the encoder process reported success
// without producing its output file.
var ErrNoOutput = errors.New("encoder exited successfully but produced no output")

// Encoder transcodes the movie at src into dst.
//
// Implementations never panic or return failure out-of-band:
// everything that went wrong is in the Result's Err field.
// On failure the destination must not exist;
// partial output and logs may be left behind for inspection.
type Encoder interface {
	Encode(ctx context.Context, src, dst string) Result
}

// Result is the outcome of one encode attempt (an "encode job").
type Result struct {
	JobID    string
	Src, Dst string

	// LogPath is where the encoder's output was captured.
	// After a successful encode it no longer exists.
	LogPath string

	Started, Finished time.Time

	// Err is nil on success.
	Err error
}

// OK tells whether the encode succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Duration is how long the encode took.
func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Func is an adapter allowing an ordinary function to act as an Encoder.
type Func func(ctx context.Context, src, dst string) Result

// Encode implements Encoder.
func (f Func) Encode(ctx context.Context, src, dst string) Result {
	return f(ctx, src, dst)
}
