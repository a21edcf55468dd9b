// Package logging implements an encoder that delegates to a nested encoder,
// logging each encode as it happens.
package logging

import (
	"context"
	"log"

	"github.com/bobg/direncode/encoder"
)

var _ encoder.Encoder = &Encoder{}

type Encoder struct {
	e encoder.Encoder
}

func New(e encoder.Encoder) *Encoder {
	return &Encoder{e: e}
}

func (e *Encoder) Encode(ctx context.Context, src, dst string) encoder.Result {
	log.Printf("[JOB] encoding %s -> %s", src, dst)
	res := e.e.Encode(ctx, src, dst)
	if res.OK() {
		log.Printf("[JOB %s] encoded %s in %s", res.JobID, dst, res.Duration())
	} else {
		log.Printf("[JOB %s] ERROR encoding %s: %s (see %s)", res.JobID, src, res.Err, res.LogPath)
	}
	return res
}
