package dsync

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/bobg/direncode"
	"github.com/bobg/direncode/encoder"
)

// Tree is a source tree and the destination tree that mirrors it.
type Tree struct {
	Src, Dst string
	Encoder  encoder.Encoder

	// SuppressRetry makes the leftovers of a failed encode
	// (DEST.part, DEST.part.log.txt) count as the presence of that file id,
	// so the encode is not attempted again until they are removed.
	// Without it, a failed encode is retried on every pass.
	SuppressRetry bool

	// Out receives one line per action taken.
	// If it is nil, os.Stdout is used.
	Out io.Writer
}

// Sync performs one synchronization pass over the whole tree.
// It reports whether anything at the destination changed.
//
// Failed encodes do not stop the pass.
// Any other error (listing a directory, making a directory or a link) does,
// and is returned.
func (t *Tree) Sync(ctx context.Context) (bool, error) {
	return t.syncDir(ctx, t.Src, t.Dst)
}

func (t *Tree) syncDir(ctx context.Context, src, dst string) (bool, error) {
	srcEntries, err := os.ReadDir(src)
	if err != nil {
		return false, errors.Wrapf(err, "reading dir %s", src)
	}
	dstEntries, err := os.ReadDir(dst)
	if err != nil {
		return false, errors.Wrapf(err, "reading dir %s", dst)
	}

	var (
		dstIDs      = t.fileIDs(dstEntries)
		files, dirs []string
	)
	for _, entry := range srcEntries {
		name := entry.Name()
		if direncode.IsIgnored(name) {
			continue
		}
		if isDir(filepath.Join(src, name)) {
			dirs = append(dirs, name)
		} else {
			files = append(files, name)
		}
	}

	// All files, then all dirs.
	var changed bool
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		if dstIDs[direncode.FileID(name)] {
			continue
		}
		c, err := t.syncFile(ctx, src, dst, name)
		if err != nil {
			return changed, err
		}
		if c {
			changed = true
		}
	}

	for _, name := range dirs {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		var (
			srcPath = filepath.Join(src, name)
			dstPath = filepath.Join(dst, name)
		)
		_, err := os.Stat(dstPath)
		if os.IsNotExist(err) {
			t.progress("MKDIR", srcPath)
			err = os.Mkdir(dstPath, 0755)
			if err != nil {
				return changed, errors.Wrapf(err, "making dir %s", dstPath)
			}
			changed = true
		} else if err != nil {
			return changed, errors.Wrapf(err, "statting %s", dstPath)
		}

		t.progress("ENTER", srcPath)
		c, err := t.syncDir(ctx, srcPath, dstPath)
		if err != nil {
			return changed, err
		}
		if c {
			changed = true
		}
	}

	return changed, nil
}

func (t *Tree) syncFile(ctx context.Context, src, dst, name string) (bool, error) {
	srcPath := filepath.Join(src, name)

	if direncode.IsMovie(name) {
		t.progress("ENCODE", srcPath)
		res := t.Encoder.Encode(ctx, srcPath, filepath.Join(dst, direncode.EncodedName(name)))

		// A failure changes the destination only if its residue now marks the file id.
		// Otherwise reporting a change would make Watch retry forever.
		return res.OK() || t.SuppressRetry, nil
	}

	t.progress("SYMLINK", srcPath)
	dstPath := filepath.Join(dst, name)
	err := os.Symlink(srcPath, dstPath)
	return true, errors.Wrapf(err, "linking %s to %s", dstPath, srcPath)
}

// fileIDs computes the set of file ids present in a destination dir.
// Only regular files can be encode artifacts;
// a symlink named like one was made for a source file of that name.
func (t *Tree) fileIDs(entries []os.DirEntry) map[string]bool {
	result := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case IsArtifact(entry):
			if t.SuppressRetry {
				result[direncode.ArtifactFileID(name)] = true
			}
		case direncode.IsIgnored(name):
		default:
			result[direncode.FileID(name)] = true
		}
	}
	return result
}

func (t *Tree) progress(action, path string) {
	out := t.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "%s: %s\n", action, path)
}

// IsArtifact tells whether a destination directory entry
// is the partial output or log of an encode job.
// It must be a regular file with an artifact name.
func IsArtifact(entry fs.DirEntry) bool {
	return entry.Type().IsRegular() && direncode.IsJobArtifact(entry.Name())
}

// isDir follows symlinks. Anything that can't be statted is not a dir.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
