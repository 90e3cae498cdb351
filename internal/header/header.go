package header

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/meigma/minitar/internal/tartype"
)

// Encode builds the header block for e.
//
// Name, uname and gname are truncated to their field widths. Numeric values
// that do not fit their field fail with tartype.ErrFieldOverflow. The
// checksum is computed last, over the fully populated block.
func Encode(e *tartype.Entry) (*Block, error) {
	b := new(Block)
	putString(b.Name(), e.Name)

	fields := []struct {
		name  string
		field []byte
		value int64
	}{
		{"mode", b.Mode(), int64(modeBits(e.Mode))},
		{"uid", b.UID(), int64(e.UID)},
		{"gid", b.GID(), int64(e.GID)},
		{"size", b.Size(), e.Size},
		{"mtime", b.ModTime(), e.ModTime.Unix()},
		{"devmajor", b.DevMajor(), int64(e.DevMajor)},
		{"devminor", b.DevMinor(), int64(e.DevMinor)},
	}
	for _, f := range fields {
		if err := formatOctal(f.field, f.value); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", e.Name, f.name, err)
		}
	}

	typeflag := e.Typeflag
	if typeflag == tartype.TypeRegA {
		typeflag = tartype.TypeReg
	}
	b.TypeFlag()[0] = typeflag
	copy(b.Magic(), Magic)
	copy(b.Version(), Version)
	putString(b.Uname(), e.Uname)
	putString(b.Gname(), e.Gname)

	b.SetChecksum()
	return b, nil
}

// Decode parses a header block after verifying its checksum.
func Decode(b *Block) (*tartype.Entry, error) {
	if !b.Verify() {
		return nil, fmt.Errorf("%w: checksum mismatch for %q", tartype.ErrCorruptHeader, getString(b.Name()))
	}

	e := &tartype.Entry{
		Name:     getString(b.Name()),
		Typeflag: b.TypeFlag()[0],
		Uname:    getString(b.Uname()),
		Gname:    getString(b.Gname()),
	}

	var mode, uid, gid, mtime, major, minor int64
	fields := []struct {
		name  string
		field []byte
		dst   *int64
	}{
		{"mode", b.Mode(), &mode},
		{"uid", b.UID(), &uid},
		{"gid", b.GID(), &gid},
		{"size", b.Size(), &e.Size},
		{"mtime", b.ModTime(), &mtime},
		{"devmajor", b.DevMajor(), &major},
		{"devminor", b.DevMinor(), &minor},
	}
	for _, f := range fields {
		v, err := parseOctal(f.field)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %s: %w", tartype.ErrCorruptHeader, e.Name, f.name, err)
		}
		*f.dst = v
	}

	if e.Size < 0 {
		return nil, fmt.Errorf("%w: %s: negative size %d", tartype.ErrCorruptHeader, e.Name, e.Size)
	}

	e.Mode = fileMode(mode)
	e.UID = int(uid)
	e.GID = int(gid)
	e.ModTime = time.Unix(mtime, 0)
	e.DevMajor = uint32(major) //nolint:gosec // seven octal digits fit uint32
	e.DevMinor = uint32(minor) //nolint:gosec // seven octal digits fit uint32
	return e, nil
}

// Unix permission bits outside fs.FileMode's perm range.
const (
	bitSetuid = 0o4000
	bitSetgid = 0o2000
	bitSticky = 0o1000
)

// modeBits converts m to the 12-bit Unix mode stored in headers.
func modeBits(m fs.FileMode) uint32 {
	bits := uint32(m.Perm())
	if m&fs.ModeSetuid != 0 {
		bits |= bitSetuid
	}
	if m&fs.ModeSetgid != 0 {
		bits |= bitSetgid
	}
	if m&fs.ModeSticky != 0 {
		bits |= bitSticky
	}
	return bits
}

// fileMode converts header mode bits back to an fs.FileMode.
func fileMode(bits int64) fs.FileMode {
	m := fs.FileMode(bits & 0o777) //nolint:gosec // masked
	if bits&bitSetuid != 0 {
		m |= fs.ModeSetuid
	}
	if bits&bitSetgid != 0 {
		m |= fs.ModeSetgid
	}
	if bits&bitSticky != 0 {
		m |= fs.ModeSticky
	}
	return m
}
