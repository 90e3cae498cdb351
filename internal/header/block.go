// Package header encodes and decodes the fixed 512-byte ustar header block.
package header

import (
	"bytes"

	"github.com/meigma/minitar/internal/blockio"
)

// Size is the length of a header block and of every data block.
const Size = blockio.BlockSize

// Magic and Version identify the POSIX ustar layout.
const (
	Magic   = "ustar\x00"
	Version = "00"
)

// Field widths that are truncated rather than rejected.
const (
	nameSize  = 100
	unameSize = 32
	gnameSize = 32
)

// Block is a raw header block.
type Block [Size]byte

func (b *Block) Name() []byte     { return b[0:][:100] }
func (b *Block) Mode() []byte     { return b[100:][:8] }
func (b *Block) UID() []byte      { return b[108:][:8] }
func (b *Block) GID() []byte      { return b[116:][:8] }
func (b *Block) Size() []byte     { return b[124:][:12] }
func (b *Block) ModTime() []byte  { return b[136:][:12] }
func (b *Block) Chksum() []byte   { return b[148:][:8] }
func (b *Block) TypeFlag() []byte { return b[156:][:1] }
func (b *Block) LinkName() []byte { return b[157:][:100] }
func (b *Block) Magic() []byte    { return b[257:][:6] }
func (b *Block) Version() []byte  { return b[263:][:2] }
func (b *Block) Uname() []byte    { return b[265:][:32] }
func (b *Block) Gname() []byte    { return b[297:][:32] }
func (b *Block) DevMajor() []byte { return b[329:][:8] }
func (b *Block) DevMinor() []byte { return b[337:][:8] }

// IsZero reports whether every byte of the block is zero.
func (b *Block) IsZero() bool {
	return *b == Block{}
}

// Checksum returns the unsigned byte sum of the block, counting the
// checksum field as eight ASCII spaces.
func (b *Block) Checksum() int64 {
	var sum int64
	for i, c := range b {
		if i >= 148 && i < 156 {
			c = ' '
		}
		sum += int64(c)
	}
	return sum
}

// SetChecksum computes the checksum and stores it in the chksum field as
// seven octal digits followed by a NUL.
func (b *Block) SetChecksum() {
	// The sum of 512 bytes always fits seven octal digits.
	_ = formatOctal(b.Chksum(), b.Checksum())
}

// Verify reports whether the stored checksum matches the block contents.
func (b *Block) Verify() bool {
	stored, err := parseOctal(b.Chksum())
	if err != nil {
		return false
	}
	return stored == b.Checksum()
}

// Reset clears the block.
func (b *Block) Reset() {
	*b = Block{}
}

// putString copies s into field, silently dropping bytes past the field width.
func putString(field []byte, s string) {
	n := copy(field, s)
	clear(field[n:])
}

// getString returns the field contents up to the first NUL.
func getString(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}
