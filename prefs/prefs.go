// Package prefs reads and writes direncode's preferences file.
//
// The file has one key=value pair per line,
// with no quoting and no escaping.
// When a key appears more than once, the last value wins.
//
// Values that would not read back unchanged in that format,
// such as ones with leading quotes, trailing spaces, " #", or "$",
// are rejected by Set with ErrUnrepresentable.
package prefs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// ErrUnrepresentable is the error from Set for a value the file cannot hold.
var ErrUnrepresentable = errors.New("value cannot be stored in the preferences file")

// EncoderPathKey is the key under which the resolved encoder location is stored.
const EncoderPathKey = "encoder_path"

// Store is the in-memory form of a preferences file.
type Store struct {
	path string
	vals map[string]string
}

// DefaultPath is where the preferences file lives when no other location is given.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, "finding user config dir")
	}
	return filepath.Join(dir, "direncode", "prefs"), nil
}

// Load reads the preferences file at path.
// A missing file is not an error; it produces an empty Store.
func Load(path string) (*Store, error) {
	s := &Store{path: path, vals: make(map[string]string)}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	vals, err := godotenv.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	s.vals = vals
	return s, nil
}

// Path is the location of the preferences file.
func (s *Store) Path() string {
	return s.path
}

// Get gets the value of key, if present.
func (s *Store) Get(key string) (string, bool) {
	v, ok := s.vals[key]
	return v, ok
}

// Set sets the value of key. It does not write the file; see Save.
func (s *Store) Set(key, val string) error {
	if key == "" || strings.ContainsAny(key, "=#\"' \t\n\r") {
		return errors.Errorf("invalid key %q", key)
	}
	if strings.ContainsAny(val, "\n\r$") {
		return errors.Wrapf(ErrUnrepresentable, "value %q for %s", val, key)
	}
	parsed, err := godotenv.Unmarshal(key + "=" + val)
	if err != nil || parsed[key] != val {
		return errors.Wrapf(ErrUnrepresentable, "value %q for %s", val, key)
	}
	s.vals[key] = val
	return nil
}

// Save writes the preferences file, sorted by key,
// creating its directory if needed.
// The file is replaced atomically.
func (s *Store) Save() error {
	dir := filepath.Dir(s.path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "making dir %s", dir)
	}

	keys := make([]string, 0, len(s.vals))
	for k := range s.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, k := range keys {
		buf.WriteString(k)
		buf.WriteByte('=')
		buf.WriteString(s.vals[k])
		buf.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file in %s", dir)
	}
	tmpname := tmp.Name()
	defer os.Remove(tmpname) // no-op after a successful rename

	_, err = tmp.WriteString(buf.String())
	if err != nil {
		tmp.Close()
		return errors.Wrapf(err, "writing %s", tmpname)
	}
	err = tmp.Close()
	if err != nil {
		return errors.Wrapf(err, "closing %s", tmpname)
	}

	err = os.Rename(tmpname, s.path)
	return errors.Wrapf(err, "renaming %s to %s", tmpname, s.path)
}
