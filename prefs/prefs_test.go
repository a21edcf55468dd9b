package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

func TestMissing(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nonexistent"))
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := s.Get(EncoderPathKey); ok {
		t.Errorf("got %q from an empty store", v)
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "direncode", "prefs")

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if err = s.Set(EncoderPathKey, "/Applications/Hand Brake/HandBrakeCLI"); err != nil {
		t.Fatal(err)
	}
	if err = s.Set("extra", "a=b"); err != nil {
		t.Fatal(err)
	}
	if err = s.Save(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "encoder_path=/Applications/Hand Brake/HandBrakeCLI\nextra=a=b\n"
	if string(got) != want {
		t.Errorf("got file contents %q, want %q", got, want)
	}

	s, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(EncoderPathKey); v != "/Applications/Hand Brake/HandBrakeCLI" {
		t.Errorf("got encoder path %q after reloading", v)
	}
	if v, _ := s.Get("extra"); v != "a=b" {
		t.Errorf("got extra %q after reloading", v)
	}
}

func TestLastValueWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	err := os.WriteFile(path, []byte("encoder_path=/usr/bin/old\nencoder_path=/usr/bin/new\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Get(EncoderPathKey); v != "/usr/bin/new" {
		t.Errorf("got %q, want /usr/bin/new", v)
	}
}

func TestSetInvalid(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "prefs"))
	if err != nil {
		t.Fatal(err)
	}
	for _, kv := range [][2]string{{"", "x"}, {"a=b", "x"}, {"a b", "x"}} {
		if err := s.Set(kv[0], kv[1]); err == nil {
			t.Errorf("Set(%q, %q) succeeded", kv[0], kv[1])
		}
	}
}

func TestSetUnrepresentable(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "prefs"))
	if err != nil {
		t.Fatal(err)
	}
	vals := []string{
		"/opt/x #1/HandBrakeCLI",
		`"/opt/q"/hb`,
		"'/opt/q'/hb",
		"/opt/hb  ",
		"  /opt/hb",
		"/opt/$HOME/hb",
		"x\ny",
		"x\ry",
	}
	for _, val := range vals {
		err := s.Set(EncoderPathKey, val)
		if !errors.Is(err, ErrUnrepresentable) {
			t.Errorf("Set(%q) gave error %v, want %v", val, err, ErrUnrepresentable)
		}
	}
	if v, ok := s.Get(EncoderPathKey); ok {
		t.Errorf("rejected values left %q in the store", v)
	}
}

// Every value Set accepts survives Save and Load.
func TestSetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs")
	vals := []string{
		"/opt/x#1/HandBrakeCLI",
		"/opt/hb 1.9/HandBrakeCLI",
		`/opt/q"/hb`,
		"C:\\Program Files\\HandBrake\\HandBrakeCLI.exe",
		"-f mp4",
		"",
	}
	for _, val := range vals {
		s, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if err = s.Set(EncoderPathKey, val); errors.Is(err, ErrUnrepresentable) {
			continue
		} else if err != nil {
			t.Fatal(err)
		}
		if err = s.Save(); err != nil {
			t.Fatal(err)
		}
		s, err = Load(path)
		if err != nil {
			t.Fatalf("reloading after saving %q: %s", val, err)
		}
		if got, _ := s.Get(EncoderPathKey); got != val {
			t.Errorf("saved %q, reloaded %q", val, got)
		}
	}
}
