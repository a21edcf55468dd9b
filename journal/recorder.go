package journal

import (
	"context"
	"log"

	"github.com/bobg/direncode/encoder"
)

var _ encoder.Encoder = &Recorder{}

// Recorder is an implementation of encoder.Encoder that relays encodes to a nested encoder,
// but also records each result in a journal.
// Failing to record does not change the result of the encode.
type Recorder struct {
	e encoder.Encoder
	j Journal
}

func NewRecorder(e encoder.Encoder, j Journal) *Recorder {
	return &Recorder{e: e, j: j}
}

func (r *Recorder) Encode(ctx context.Context, src, dst string) encoder.Result {
	res := r.e.Encode(ctx, src, dst)
	// The encode ran to completion even if ctx was canceled meanwhile,
	// so its entry is recorded regardless.
	err := r.j.Record(context.WithoutCancel(ctx), EntryFromResult(res))
	if err != nil {
		log.Printf("ERROR recording job %s in journal: %s", res.JobID, err)
	}
	return res
}
