package minitar

import "github.com/meigma/minitar/internal/tartype"

// Sentinel errors re-exported from internal/tartype.
//
// Returned errors wrap one of these kinds together with the underlying
// cause; test for them with errors.Is.
var (
	// ErrStat is returned when a source file cannot be inspected.
	ErrStat = tartype.ErrStat

	// ErrOwnerLookup is returned when a file's uid has no user name.
	ErrOwnerLookup = tartype.ErrOwnerLookup

	// ErrGroupLookup is returned when a file's gid has no group name.
	ErrGroupLookup = tartype.ErrGroupLookup

	// ErrOpen is returned when a file cannot be opened.
	ErrOpen = tartype.ErrOpen

	// ErrRead is returned when reading a source file or the archive fails.
	ErrRead = tartype.ErrRead

	// ErrWrite is returned when a write fails or is short.
	ErrWrite = tartype.ErrWrite

	// ErrTruncate is returned when Append cannot remove the archive footer.
	ErrTruncate = tartype.ErrTruncate

	// ErrNotFound is returned when the archive does not exist.
	ErrNotFound = tartype.ErrNotFound

	// ErrNotSubset is returned when requested names are absent from the archive.
	ErrNotSubset = tartype.ErrNotSubset

	// ErrCorruptHeader is returned when a header block fails verification.
	ErrCorruptHeader = tartype.ErrCorruptHeader

	// ErrFieldOverflow is returned when a value does not fit its header field.
	ErrFieldOverflow = tartype.ErrFieldOverflow

	// ErrNotRegular is returned when a source path is not a regular file.
	ErrNotRegular = tartype.ErrNotRegular

	// ErrFileChanged is returned when a source file changes while archived.
	ErrFileChanged = tartype.ErrFileChanged

	// ErrUnsafePath is returned when an entry name would escape the
	// extraction directory.
	ErrUnsafePath = tartype.ErrUnsafePath
)
