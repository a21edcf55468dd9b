// Package dsync contains types and functions
// for keeping a destination tree of links and encoded movies
// in sync with a source tree.
//
// A synchronization pass (Tree.Sync) walks the two trees in parallel.
// In each directory, source files whose file id is absent from the destination
// are linked (ordinary files) or encoded (movies),
// and then each source subdirectory is created at the destination if necessary
// and descended into.
//
// Tree.Watch runs a pass, then repeats passes whenever the source tree changes.
// All mutation of the destination happens on the goroutine that called Watch;
// filesystem notifications only raise a flag that the loop polls.
package dsync
