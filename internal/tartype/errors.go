package tartype

import "errors"

// Sentinel errors for archive operations.
//
// Operations wrap one of these together with the underlying cause, so callers
// can test for the kind with errors.Is and still reach the original error.
var (
	// ErrStat is returned when a source file cannot be inspected.
	ErrStat = errors.New("minitar: stat failed")

	// ErrOwnerLookup is returned when a file's uid has no user name.
	ErrOwnerLookup = errors.New("minitar: owner lookup failed")

	// ErrGroupLookup is returned when a file's gid has no group name.
	ErrGroupLookup = errors.New("minitar: group lookup failed")

	// ErrOpen is returned when a file cannot be opened.
	ErrOpen = errors.New("minitar: open failed")

	// ErrRead is returned when reading a source file or the archive fails.
	ErrRead = errors.New("minitar: read failed")

	// ErrWrite is returned when a write to the archive fails or is short.
	ErrWrite = errors.New("minitar: write failed")

	// ErrTruncate is returned when the archive footer cannot be removed.
	ErrTruncate = errors.New("minitar: truncate failed")

	// ErrNotFound is returned when the archive does not exist.
	ErrNotFound = errors.New("minitar: archive not found")

	// ErrNotSubset is returned when requested names are absent from the archive.
	ErrNotSubset = errors.New("minitar: names not in archive")

	// ErrCorruptHeader is returned when a header block fails checksum
	// verification or carries malformed numeric fields.
	ErrCorruptHeader = errors.New("minitar: corrupt header")

	// ErrFieldOverflow is returned when a value does not fit its header field.
	ErrFieldOverflow = errors.New("minitar: header field overflow")

	// ErrNotRegular is returned when a source path is not a regular file.
	ErrNotRegular = errors.New("minitar: not a regular file")

	// ErrFileChanged is returned when a source file changes while it is archived.
	ErrFileChanged = errors.New("minitar: file changed during archiving")

	// ErrUnsafePath is returned when an entry name would escape the
	// extraction directory.
	ErrUnsafePath = errors.New("minitar: unsafe entry path")
)
