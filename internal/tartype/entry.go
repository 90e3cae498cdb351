package tartype

import (
	"io/fs"
	"time"

	"github.com/opencontainers/go-digest"
)

// Typeflag values understood by the archive engine.
const (
	// TypeReg marks a regular file. It is the only type the writer emits.
	TypeReg byte = '0'

	// TypeRegA is the pre-POSIX regular file marker, accepted on read.
	TypeRegA byte = 0
)

// Entry describes one file stored in an archive.
type Entry struct {
	// Name is the stored file name (at most 100 bytes).
	Name string

	// Mode holds the permission bits plus setuid, setgid and sticky.
	Mode fs.FileMode

	// UID is the owner's numeric user ID.
	UID int

	// GID is the owner's numeric group ID.
	GID int

	// Size is the length of the file content in bytes.
	Size int64

	// ModTime is the modification time, at one second resolution.
	ModTime time.Time

	// Typeflag identifies the entry type.
	Typeflag byte

	// Uname is the owner's user name.
	Uname string

	// Gname is the owner's group name.
	Gname string

	// DevMajor and DevMinor identify the device holding the source file.
	DevMajor uint32
	DevMinor uint32

	// Offset is the byte offset of the entry's header block in the archive.
	// It is only set on entries produced by a reader.
	Offset int64

	// Digest is the canonical digest of the content. It is populated when
	// the content has been streamed through the writer or the extractor.
	Digest digest.Digest
}

// IsRegular reports whether the entry is a regular file.
func (e *Entry) IsRegular() bool {
	return e.Typeflag == TypeReg || e.Typeflag == TypeRegA
}
