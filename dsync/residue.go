package dsync

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/bobg/direncode"
)

// Residue is what a failed encode leaves behind.
type Residue struct {
	// Dst is the destination the encode was producing.
	// It does not exist.
	Dst string

	// Part and Log tell which of Dst+".part" and Dst+".part.log.txt" exist.
	Part, Log bool
}

// Paths are the artifacts that exist for r.
func (r Residue) Paths() []string {
	var result []string
	if r.Part {
		result = append(result, r.Dst+direncode.PartSuffix)
	}
	if r.Log {
		result = append(result, r.Dst+direncode.LogSuffix)
	}
	return result
}

// FindResidue walks the destination tree at root
// and reports the leftovers of failed encodes, sorted by destination path.
func FindResidue(root string) ([]Residue, error) {
	found := make(map[string]*Residue)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !IsArtifact(d) {
			return nil
		}

		var (
			dst   string
			isLog bool
		)
		switch name := d.Name(); {
		case strings.HasSuffix(name, direncode.LogSuffix):
			dst, isLog = strings.TrimSuffix(path, direncode.LogSuffix), true
		case strings.HasSuffix(name, direncode.PartSuffix):
			dst = strings.TrimSuffix(path, direncode.PartSuffix)
		default:
			return nil
		}

		r, ok := found[dst]
		if !ok {
			r = &Residue{Dst: dst}
			found[dst] = r
		}
		if isLog {
			r.Log = true
		} else {
			r.Part = true
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "walking %s", root)
	}

	result := make([]Residue, 0, len(found))
	for _, r := range found {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Dst < result[j].Dst })
	return result, nil
}

// CleanResidue removes the leftovers of failed encodes under root,
// so that the next synchronization pass tries those encodes again.
// It returns what it removed.
func CleanResidue(root string) ([]Residue, error) {
	residue, err := FindResidue(root)
	if err != nil {
		return nil, err
	}
	for _, r := range residue {
		for _, path := range r.Paths() {
			err = os.Remove(path)
			if err != nil && !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "removing %s", path)
			}
		}
	}
	return residue, nil
}
