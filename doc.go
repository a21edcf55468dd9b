// Package direncode keeps a destination directory tree in sync with a source tree.
//
// Movie files in the source tree are transcoded by an external encoder
// (HandBrakeCLI or a compatible wrapper such as hbencode)
// and the result is dropped in the matching destination directory.
// Every other file is mirrored as a symbolic link pointing back at the source.
//
// Files are matched across the two trees by their "file id,"
// which is the part of the name before the first dot.
// So a source file movie.720p.mkv is considered present at the destination
// as soon as anything named movie.<whatever> is there,
// such as the encoded movie.720p.m4v.
// Files in the destination that are not present in the source are left alone,
// as are the source's invisible files, .part files,
// and the litter that desktop systems leave behind (Icon\r, Thumbs.db).
//
// An encode writes to DEST.part while it runs,
// capturing the encoder's output in DEST.part.log.txt.
// On success the .part file is renamed into place and the log is removed.
// On failure both are left behind for inspection.
//
// This package holds the filename rules.
// The synchronization itself is in the dsync subpackage,
// and the encoder adapter is in encoder/hb.
package direncode
