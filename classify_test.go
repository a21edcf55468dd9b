package direncode

import "testing"

func TestIsIgnored(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{".DS_Store", true},
		{".hidden.mkv", true},
		{"Icon\r", true},
		{"Thumbs.db", true},
		{"movie.m4v.part", true},
		{"movie.m4v.part.log.txt", false},
		{"Icon", false},
		{"thumbs.db", false},
		{"movie.mkv", false},
		{"part", false},
		{"notes", false},
	}
	for _, c := range cases {
		if got := IsIgnored(c.name); got != c.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestFileID(t *testing.T) {
	cases := []struct{ name, want string }{
		{"a.b.c", "a"},
		{"a", "a"},
		{"movie.720p.mkv", "movie"},
		{"movie.m4v.part.log.txt", "movie"},
		{"", ""},
	}
	for _, c := range cases {
		if got := FileID(c.name); got != c.want {
			t.Errorf("FileID(%q) = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestIsMovie(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"x.mkv", true},
		{"x.mp4", true},
		{"x.m4v", true},
		{"x.avi", true},
		{"x.ogm", true},
		{"x.720p.mkv", true},
		{"x.MKV", false},
		{"x", false},
		{"mkv", false},
		{"x.mkv.txt", false},
		{"x.srt", false},
	}
	for _, c := range cases {
		if got := IsMovie(c.name); got != c.want {
			t.Errorf("IsMovie(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestEncodedName(t *testing.T) {
	cases := []struct{ name, want string }{
		{"a.b.mkv", "a.b.m4v"},
		{"movie.mkv", "movie.m4v"},
		{"movie.m4v", "movie.m4v"},
		{"noext", "noext.m4v"},
	}
	for _, c := range cases {
		if got := EncodedName(c.name); got != c.want {
			t.Errorf("EncodedName(%q) = %q, want %q", c.name, got, c.want)
		}
	}

	// Identity and encoded name split on different dots.
	const name = "movie.720p.mkv"
	if FileID(name) != "movie" || EncodedName(name) != "movie.720p.m4v" {
		t.Errorf("got id %q and encoded name %q for %s", FileID(name), EncodedName(name), name)
	}
}

func TestArtifacts(t *testing.T) {
	cases := []struct {
		name     string
		artifact bool
		id       string
	}{
		{"movie.720p.m4v.part", true, "movie"},
		{"movie.720p.m4v.part.log.txt", true, "movie"},
		{"movie.720p.m4v", false, "movie"},
		{"notes.txt", false, "notes"},
	}
	for _, c := range cases {
		if got := IsJobArtifact(c.name); got != c.artifact {
			t.Errorf("IsJobArtifact(%q) = %v, want %v", c.name, got, c.artifact)
		}
		if got := ArtifactFileID(c.name); got != c.id {
			t.Errorf("ArtifactFileID(%q) = %q, want %q", c.name, got, c.id)
		}
	}
}
