package minitar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/opencontainers/go-digest"
	"golang.org/x/sync/errgroup"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/header"
)

// Writer emits archive entries to an underlying stream.
//
// Each entry is a header block followed by the file content in whole
// blocks. Close writes the footer. A Writer does not seek, so it works for
// any io.Writer, including a file positioned after a removed footer.
type Writer struct {
	w         io.Writer
	cfg       writeConfig
	buf       []byte
	filesDone int
	bytesDone uint64
	closed    bool
}

// NewWriter returns a Writer that appends entries to w.
func NewWriter(w io.Writer, opts ...WriteOption) *Writer {
	return newWriter(w, newWriteConfig(opts))
}

func newWriter(w io.Writer, cfg writeConfig) *Writer {
	return &Writer{
		w:   w,
		cfg: cfg,
		buf: make([]byte, blockio.DefaultBufferSize),
	}
}

// pending is a file whose header has been resolved but not yet written.
type pending struct {
	path  string
	entry *Entry
	block *header.Block
}

// prepare stats the file stored as name and encodes its header.
func (cfg *writeConfig) prepare(name string) (*pending, error) {
	path := cfg.sourcePath(name)
	e, err := header.Stat(path, name)
	if err != nil {
		return nil, err
	}
	b, err := header.Encode(e)
	if err != nil {
		return nil, err
	}
	return &pending{path: path, entry: e, block: b}, nil
}

// prepareAll resolves the headers of all names, in parallel up to the
// configured limit. The result keeps the order of names.
func (cfg *writeConfig) prepareAll(ctx context.Context, names []string) ([]*pending, error) {
	cfg.reportProgress(StagePreparing, "", 0, 0, len(names))

	out := make([]*pending, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers())
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := cfg.prepare(name)
			if err != nil {
				return err
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFile writes the file stored as name: its header, then its content.
// The returned entry carries the content digest.
func (w *Writer) AddFile(ctx context.Context, name string) (Entry, error) {
	if w.closed {
		return Entry{}, errors.New("minitar: write to closed writer")
	}
	p, err := w.cfg.prepare(name)
	if err != nil {
		return Entry{}, err
	}
	return w.writeEntry(ctx, p, 0)
}

// writeAll writes prepared entries in order, stopping at the first failure.
func (w *Writer) writeAll(ctx context.Context, entries []*pending) error {
	for _, p := range entries {
		if _, err := w.writeEntry(ctx, p, len(entries)); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry opens the source before emitting the header, so an unreadable
// file never leaves a header without content behind it.
func (w *Writer) writeEntry(ctx context.Context, p *pending, filesTotal int) (Entry, error) {
	if err := ctx.Err(); err != nil {
		return Entry{}, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %s: %w", ErrOpen, p.path, err)
	}
	defer f.Close()

	n, err := w.w.Write(p.block[:])
	if err != nil {
		return Entry{}, fmt.Errorf("%w: header for %s: %w", ErrWrite, p.entry.Name, err)
	}
	if n != header.Size {
		return Entry{}, fmt.Errorf("%w: header for %s: %w", ErrWrite, p.entry.Name, io.ErrShortWrite)
	}

	digester := digest.Canonical.Digester()
	written, err := blockio.Copy(ctx, w.w, io.TeeReader(f, digester.Hash()), p.entry.Size, w.buf)
	if err != nil {
		return Entry{}, fmt.Errorf("write %s: %w", p.entry.Name, err)
	}

	if w.cfg.changeDetection == ChangeDetectionStrict {
		if err := checkUnchanged(f, p); err != nil {
			return Entry{}, err
		}
	}

	entry := *p.entry
	entry.Digest = digester.Digest()
	w.filesDone++
	w.bytesDone += uint64(entry.Size) //nolint:gosec // sizes are never negative
	w.cfg.log().Debug("entry written",
		"name", entry.Name,
		"size", entry.Size,
		"blocks", written/blockio.BlockSize,
		"digest", entry.Digest.String())
	w.cfg.reportProgress(StageWriting, entry.Name, w.bytesDone, w.filesDone, filesTotal)
	return entry, nil
}

// checkUnchanged verifies the source still matches the header written for it.
func checkUnchanged(f *os.File, p *pending) error {
	after, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStat, p.path, err)
	}
	if after.Size() != p.entry.Size || after.ModTime().Unix() != p.entry.ModTime.Unix() {
		return fmt.Errorf("%w: %s", ErrFileChanged, p.path)
	}
	return nil
}

// Close writes the footer. It does not close the underlying writer.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return blockio.WriteFooter(w.w)
}
