package direncode

import "strings"

const (
	// PartSuffix is appended to a destination path while it is being encoded.
	PartSuffix = ".part"

	// LogSuffix is appended to a destination path to name the encoder's log.
	LogSuffix = PartSuffix + ".log.txt"

	// EncodedExt is the extension of every encoded movie.
	EncodedExt = "m4v"
)

var movieExts = map[string]bool{
	"mp4": true,
	"m4v": true,
	"mkv": true,
	"avi": true,
	"ogm": true,
}

// IsIgnored tells whether a directory entry named name
// should be left out of synchronization on either side.
func IsIgnored(name string) bool {
	switch {
	case strings.HasPrefix(name, "."):
		return true
	case name == "Icon\r":
		return true
	case name == "Thumbs.db":
		return true
	case strings.HasSuffix(name, PartSuffix):
		return true
	}
	return false
}

// FileID is the synchronization key for a filename:
// everything before the first dot.
// A source file and a destination file with the same FileID
// are the same logical file, regardless of extension.
func FileID(name string) string {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// IsMovie tells whether name has one of the (case-sensitive) movie extensions.
// Unlike FileID, this splits on the last dot.
func IsMovie(name string) bool {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return false
	}
	return movieExts[name[i+1:]]
}

// EncodedName is the destination name for the encoded form of movie file name.
// The part before the last dot is kept,
// so movie.720p.mkv becomes movie.720p.m4v.
func EncodedName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[:i]
	}
	return name + "." + EncodedExt
}

// IsJobArtifact tells whether name is a leftover of an encode job:
// a partial output file or its log.
func IsJobArtifact(name string) bool {
	return strings.HasSuffix(name, PartSuffix) || strings.HasSuffix(name, LogSuffix)
}

// ArtifactFileID is the FileID of the destination that artifact name belongs to.
// For example, both movie.m4v.part and movie.m4v.part.log.txt yield movie.
func ArtifactFileID(name string) string {
	name = strings.TrimSuffix(name, LogSuffix)
	name = strings.TrimSuffix(name, PartSuffix)
	return FileID(name)
}
