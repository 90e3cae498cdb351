// Package blockio moves file content in and out of an archive in whole
// 512-byte blocks.
package blockio

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/meigma/minitar/internal/tartype"
)

// BlockSize is the archive's unit of alignment.
const BlockSize = 512

// FooterSize is the length of the end-of-archive marker: two zero blocks.
const FooterSize = 2 * BlockSize

// DefaultBufferSize is the copy buffer length used when none is supplied.
const DefaultBufferSize = 64 * BlockSize

// Padding returns the number of zero bytes that follow size bytes of content
// to reach the next block boundary.
func Padding(size int64) int64 {
	return -size & (BlockSize - 1)
}

// Blocks returns the number of data blocks occupied by size bytes of content.
func Blocks(size int64) int64 {
	return (size + BlockSize - 1) / BlockSize
}

// Copy streams exactly size bytes from src to dst in whole blocks, zero
// filling the tail of the final block. It returns the number of bytes
// written to dst, which is always a multiple of BlockSize when err is nil.
//
// buf is reused between calls; it is rounded down to a multiple of
// BlockSize and replaced when shorter than one block. A source that ends
// before size bytes fails with tartype.ErrFileChanged, since the header
// announcing size has already been written.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, size int64, buf []byte) (int64, error) {
	if size < 0 {
		return 0, fmt.Errorf("negative content size %d", size)
	}
	if len(buf) < BlockSize {
		buf = make([]byte, DefaultBufferSize)
	}
	buf = buf[:len(buf)/BlockSize*BlockSize]

	var written int64
	for remaining := size; remaining > 0; {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		want := min(int64(len(buf)), remaining)
		nr, err := io.ReadFull(src, buf[:want])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				got := size - remaining + int64(nr)
				return written, fmt.Errorf("%w: expected %d bytes, got %d", tartype.ErrFileChanged, size, got)
			}
			return written, fmt.Errorf("%w: %w", tartype.ErrRead, err)
		}
		remaining -= int64(nr)

		n := int64(nr)
		if pad := Padding(n); pad > 0 {
			clear(buf[n : n+pad])
			n += pad
		}
		nw, err := dst.Write(buf[:n])
		written += int64(nw)
		if err != nil {
			return written, fmt.Errorf("%w: %w", tartype.ErrWrite, err)
		}
		if int64(nw) != n {
			return written, fmt.Errorf("%w: %w", tartype.ErrWrite, io.ErrShortWrite)
		}
	}
	return written, nil
}

// Skip advances r past size bytes of content and their padding.
func Skip(r io.Reader, size int64) error {
	return Discard(r, size+Padding(size))
}

// Discard advances r by n bytes. Seekable readers are advanced with Seek;
// others are drained. Either way, a stream that ends before n bytes fails
// with tartype.ErrRead wrapping io.ErrUnexpectedEOF.
func Discard(r io.Reader, n int64) error {
	if n == 0 {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("%w: negative skip of %d bytes", tartype.ErrRead, n)
	}
	if s, ok := r.(io.Seeker); ok {
		return seekForward(s, n)
	}
	copied, err := io.CopyN(io.Discard, r, n)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return fmt.Errorf("%w: skipped %d of %d bytes: %w", tartype.ErrRead, copied, n, err)
	}
	return nil
}

// seekForward advances s by n bytes, refusing to move past the end of the
// stream. Seek itself happily moves beyond EOF.
func seekForward(s io.Seeker, n int64) error {
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("%w: %w", tartype.ErrRead, err)
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("%w: %w", tartype.ErrRead, err)
	}
	if cur+n > end {
		// Leave s at the end so later reads see EOF, not stale data.
		return fmt.Errorf("%w: skipped %d of %d bytes: %w", tartype.ErrRead, end-cur, n, io.ErrUnexpectedEOF)
	}
	if _, err := s.Seek(cur+n, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", tartype.ErrRead, err)
	}
	return nil
}

// CopyContext copies from src to dst until EOF or error, checking for
// context cancellation between reads. It returns the number of bytes written.
func CopyContext(ctx context.Context, dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		buf = make([]byte, DefaultBufferSize)
	}
	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		nr, er := src.Read(buf)
		if nr > 0 {
			nw, ew := dst.Write(buf[:nr])
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil {
			if er == io.EOF {
				return written, nil
			}
			return written, er
		}
	}
}

// WriteFooter writes the two zero blocks that end an archive.
func WriteFooter(dst io.Writer) error {
	var footer [FooterSize]byte
	n, err := dst.Write(footer[:])
	if err != nil {
		return fmt.Errorf("%w: footer: %w", tartype.ErrWrite, err)
	}
	if n != FooterSize {
		return fmt.Errorf("%w: footer: %w", tartype.ErrWrite, io.ErrShortWrite)
	}
	return nil
}

// IsZero reports whether every byte of p is zero.
func IsZero(p []byte) bool {
	for _, c := range p {
		if c != 0 {
			return false
		}
	}
	return true
}
