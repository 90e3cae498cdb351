package minitar

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/header"
)

// readConfig holds configuration for Reader, Entries and List.
type readConfig struct {
	logger *slog.Logger
}

// ReadOption configures archive reading.
type ReadOption func(*readConfig)

// ReadWithLogger sets the logger for read operations.
// If not set, logging is disabled.
func ReadWithLogger(logger *slog.Logger) ReadOption {
	return func(cfg *readConfig) {
		cfg.logger = logger
	}
}

// Reader walks the entries of an archive stream.
//
// Next advances to the following header, skipping whatever content of the
// current entry was not read. Skips use Seek when the stream supports it.
//
// The walk ends at the first all-zero block, so empty files are ordinary
// entries. Every header's checksum is verified.
type Reader struct {
	r         io.Reader
	cfg       readConfig
	block     header.Block
	offset    int64 // bytes consumed from r
	remaining int64 // unread content of the current entry
	pad       int64 // padding after the current entry's content
	done      bool
	err       error
}

// NewReader returns a Reader positioned at the start of an archive.
func NewReader(r io.Reader, opts ...ReadOption) *Reader {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{r: r, cfg: cfg}
}

// log returns the logger, falling back to a discard logger if nil.
func (r *Reader) log() *slog.Logger {
	if r.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return r.cfg.logger
}

// Next advances to the next entry and returns its header. It returns io.EOF
// at the end of the archive. Errors are sticky.
//
// An archive that ends exactly at a header boundary without a footer is
// accepted with a warning; one that ends inside a block fails with ErrRead.
func (r *Reader) Next() (*Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.done {
		return nil, io.EOF
	}
	if err := r.skipCurrent(); err != nil {
		r.err = err
		return nil, err
	}

	off := r.offset
	n, err := io.ReadFull(r.r, r.block[:])
	r.offset += int64(n)
	switch {
	case errors.Is(err, io.EOF):
		r.log().Warn("archive ends without footer", "offset", off)
		r.done = true
		return nil, io.EOF
	case err != nil:
		r.err = fmt.Errorf("%w: header at offset %d: %w", ErrRead, off, err)
		return nil, r.err
	}

	if r.block.IsZero() {
		r.done = true
		return nil, io.EOF
	}

	e, err := header.Decode(&r.block)
	if err != nil {
		r.err = fmt.Errorf("offset %d: %w", off, err)
		return nil, r.err
	}
	e.Offset = off
	r.remaining = e.Size
	r.pad = blockio.Padding(e.Size)
	return e, nil
}

// Read reads the content of the current entry. It returns io.EOF once Size
// bytes have been read; padding is never returned.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.r.Read(p)
	r.remaining -= int64(n)
	r.offset += int64(n)
	if errors.Is(err, io.EOF) && r.remaining > 0 {
		err = io.ErrUnexpectedEOF
	}
	if err != nil && !errors.Is(err, io.EOF) {
		r.err = fmt.Errorf("%w: content at offset %d: %w", ErrRead, r.offset, err)
		return n, r.err
	}
	return n, err
}

// skipCurrent discards the unread content and padding of the current entry.
func (r *Reader) skipCurrent() error {
	n := r.remaining + r.pad
	if err := blockio.Discard(r.r, n); err != nil {
		return err
	}
	r.offset += n
	r.remaining, r.pad = 0, 0
	return nil
}
