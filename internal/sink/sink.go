// Package sink writes extracted archive entries to the filesystem.
package sink

import "io"

// Committer is a writer that can be committed or discarded.
//
// Implementations stage writes until Commit is called. The file-based
// implementation writes to a temp file and renames it on Commit, or deletes
// it on Discard.
type Committer interface {
	io.Writer

	// Commit finalizes the write, making content visible at its final path.
	Commit() error

	// Discard aborts the write and cleans up any temporary resources.
	Discard() error
}
