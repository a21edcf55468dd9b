// Package hb implements an encoder that runs HandBrakeCLI,
// or a wrapper script taking the same arguments (such as hbencode),
// as a subprocess.
package hb

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bobg/direncode"
	"github.com/bobg/direncode/encoder"
)

// DefaultExtra is the default value of the encoder's -x option.
const DefaultExtra = "-f mp4"

var _ encoder.Encoder = &Encoder{}

// Encoder runs an external encoder binary once per movie.
type Encoder struct {
	path  string
	extra string
}

// New produces an Encoder running the binary at path.
// The value of extra is passed with -x; if it is empty, -x is omitted.
func New(path, extra string) *Encoder {
	return &Encoder{path: path, extra: extra}
}

// Path is the location of the encoder binary.
func (e *Encoder) Path() string {
	return e.path
}

// Args are the command-line arguments for encoding src into partPath.
func (e *Encoder) Args(src, partPath string) []string {
	args := []string{"--auto", "-o", partPath}
	if e.extra != "" {
		args = append(args, "-x", e.extra)
	}
	return append(args, src)
}

// Encode implements encoder.Encoder.
// The encoder writes to dst+".part",
// and everything it prints on stdout and stderr goes to dst+".part.log.txt".
// Only a zero exit status together with an existing .part file counts as success;
// then the .part file is renamed to dst and the log is removed.
// Otherwise the error is appended to the log and both files are left in place.
//
// The subprocess is not tied to ctx:
// once started, an encode runs to completion even if ctx is canceled.
func (e *Encoder) Encode(_ context.Context, src, dst string) encoder.Result {
	res := encoder.Result{
		JobID:   uuid.New().String(),
		Src:     src,
		Dst:     dst,
		LogPath: dst + direncode.LogSuffix,
		Started: time.Now(),
	}
	res.Err = e.encode(src, dst, res.LogPath)
	res.Finished = time.Now()
	return res
}

func (e *Encoder) encode(src, dst, logPath string) error {
	partPath := dst + direncode.PartSuffix

	logFile, err := os.Create(logPath)
	if err != nil {
		return errors.Wrapf(err, "creating log file %s", logPath)
	}
	defer logFile.Close()

	err = e.run(src, partPath, logFile)
	if err != nil {
		fmt.Fprintf(logFile, "\nERROR: %+v\n", err)
		return err
	}

	err = logFile.Close()
	if err != nil {
		log.Printf("ERROR closing %s: %s", logPath, err)
	}
	err = os.Remove(logPath)
	if err != nil {
		// The movie is in place; a stray log is only clutter.
		log.Printf("ERROR removing %s: %s", logPath, err)
	}
	return nil
}

func (e *Encoder) run(src, partPath string, out *os.File) error {
	cmd := exec.Command(e.path, e.Args(src, partPath)...)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err != nil {
		return errors.Wrapf(err, "running %s on %s", e.path, src)
	}

	_, err = os.Stat(partPath)
	if os.IsNotExist(err) {
		return errors.WithStack(encoder.ErrNoOutput)
	}
	if err != nil {
		return errors.Wrapf(err, "checking for output %s", partPath)
	}

	dst := partPath[:len(partPath)-len(direncode.PartSuffix)]
	err = os.Rename(partPath, dst)
	return errors.Wrapf(err, "renaming %s to %s", partPath, dst)
}
