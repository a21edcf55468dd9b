package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRoots(t *testing.T) {
	tmp := t.TempDir()
	for _, dir := range []string{"src", "src/inner", "dst"} {
		if err := os.MkdirAll(filepath.Join(tmp, dir), 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(tmp, "file"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	src, dst, err := roots(filepath.Join(tmp, "src"), filepath.Join(tmp, "dst"))
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(src) || !filepath.IsAbs(dst) {
		t.Errorf("got non-absolute roots %s, %s", src, dst)
	}

	cases := map[string][2]string{
		"same":        {"src", "src"},
		"nested":      {"src", "src/inner"},
		"missing src": {"nosuch", "dst"},
		"missing dst": {"src", "nosuch"},
		"not a dir":   {"file", "dst"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			if _, _, err := roots(filepath.Join(tmp, c[0]), filepath.Join(tmp, c[1])); err == nil {
				t.Error("expected an error")
			}
		})
	}

	// A sibling whose name starts with ".." is not nested.
	sibling := filepath.Join(tmp, "src", "..x")
	if err := os.Mkdir(sibling, 0755); err != nil {
		t.Fatal(err)
	}
	if _, _, err := roots(filepath.Join(tmp, "src", "inner"), sibling); err != nil {
		t.Error(err)
	}
}
