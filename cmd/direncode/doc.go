// Command direncode mirrors a source directory tree into a destination tree.
//
// Every ordinary file in the source becomes a symlink in the destination.
// Every movie file is instead encoded into the destination
// with HandBrakeCLI (or a compatible encoder),
// producing a .m4v file with the same base name.
// Files already present in the destination,
// judged by the part of their names before the first dot,
// are left alone.
// Nothing is ever deleted from the destination.
//
// Usage:
//
//	direncode [flags] [-w|--watch] SOURCE_DIR DEST_DIR
//
// With -w (or --watch),
// direncode keeps running after the first pass,
// and re-synchronizes whenever something changes under SOURCE_DIR.
// Exit with a keyboard interrupt.
//
// While an encode is in progress,
// the encoder writes to DEST.part,
// with its output logged to DEST.part.log.txt.
// A failed encode leaves those files behind.
// Normally the encode is retried on the next pass;
// with -suppress-retry the leftover files mark the movie as done.
// See the direncode-jobs command for finding and cleaning up leftovers.
//
// The location of the encoder is taken from the -encoder flag,
// the config file,
// a previously saved preference,
// or a search of $PATH for HandBrakeCLI or hbencode,
// in that order.
// When none of those works and standard input is a terminal,
// direncode asks for it.
// The answer is saved in the preference file for next time.
//
// The optional config file is TOML:
//
//	prefs_file = "/home/me/.config/direncode/prefs"
//	suppress_retry = false
//
//	[encoder]
//	path = "/usr/local/bin/HandBrakeCLI"
//	extra = "-f mp4"
//
//	[watch]
//	interval = "1s"
//
//	[journal]
//	type = "sqlite3"
//	conn = "/var/lib/direncode/journal.db"
//
// When a journal is configured,
// every encode attempt is recorded in it.
// Journal types are sqlite3 and pg.
package main
