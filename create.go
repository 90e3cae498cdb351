package minitar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/namelist"
)

// Create writes a new archive at archivePath holding the named files, in
// order, followed by the footer. An existing file at archivePath is
// truncated.
//
// Headers are resolved for every name before archivePath is opened. A
// failure while writing aborts immediately and leaves whatever was written
// so far; nothing is rolled back.
func Create(ctx context.Context, archivePath string, names []string, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	cfg.log().Info("creating archive", "archive", archivePath, "files", len(names))

	entries, err := cfg.prepareAll(ctx, names)
	if err != nil {
		return err
	}

	f, err := os.Create(archivePath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, archivePath, err)
	}
	return writeAndClose(ctx, f, cfg, entries)
}

// Append adds the named files to the end of the existing archive at
// archivePath.
//
// The footer is removed by truncating the last 1024 bytes, the new entries
// are written in its place and a new footer follows them. Existing entries
// are never rewritten. Truncation and the rewrite are not atomic: a crash in
// between leaves an archive without a footer.
func Append(ctx context.Context, archivePath string, names []string, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	if err := requireArchive(archivePath); err != nil {
		return err
	}
	cfg.log().Info("appending to archive", "archive", archivePath, "files", len(names))

	entries, err := cfg.prepareAll(ctx, names)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(archivePath, os.O_RDWR, 0) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrOpen, archivePath, err)
	}
	end, err := removeFooter(f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return fmt.Errorf("%s: %w", archivePath, err)
	}
	if _, err := f.Seek(end, io.SeekStart); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return fmt.Errorf("%w: %s: %w", ErrWrite, archivePath, err)
	}
	cfg.log().Debug("footer removed", "archive", archivePath, "offset", end)
	if zeroBlockBefore(f, end) {
		cfg.log().Warn("archive has extra zero blocks before its footer; appended entries may be hidden",
			"archive", archivePath, "offset", end)
	}

	return writeAndClose(ctx, f, cfg, entries)
}

// Update appends fresh copies of the named files, all of which must already
// be stored in the archive. Earlier copies are left in place; readers that
// extract the whole archive end up with the newest one.
//
// If any name is missing from the archive, Update fails with ErrNotSubset
// before modifying anything.
func Update(ctx context.Context, archivePath string, names []string, opts ...WriteOption) error {
	cfg := newWriteConfig(opts)
	if err := requireArchive(archivePath); err != nil {
		return err
	}

	current, err := List(ctx, archivePath, ReadWithLogger(cfg.logger))
	if err != nil {
		return err
	}
	if missing := namelist.New(names...).Missing(current); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrNotSubset, strings.Join(missing, ", "))
	}
	return Append(ctx, archivePath, names, opts...)
}

// writeAndClose writes entries and the footer to f and closes it.
func writeAndClose(ctx context.Context, f *os.File, cfg writeConfig, entries []*pending) error {
	w := newWriter(f, cfg)
	if err := w.writeAll(ctx, entries); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return err
	}
	if err := w.Close(); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrWrite, f.Name(), err)
	}
	return nil
}

// requireArchive returns ErrNotFound if archivePath does not exist.
func requireArchive(archivePath string) error {
	_, err := os.Stat(archivePath)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrNotFound, archivePath)
	default:
		return fmt.Errorf("%w: %s: %w", ErrStat, archivePath, err)
	}
}

// zeroBlockBefore reports whether the block ending at end is all zeros. That
// is the case for archives padded to a record size, and also for entries
// whose last content block happens to be zeros.
func zeroBlockBefore(f *os.File, end int64) bool {
	if end < blockio.BlockSize {
		return false
	}
	var block [blockio.BlockSize]byte
	if _, err := f.ReadAt(block[:], end-blockio.BlockSize); err != nil {
		return false
	}
	return blockio.IsZero(block[:])
}

// removeFooter truncates the two trailing zero blocks from f and returns the
// new end offset. It refuses archives that are shorter than the footer, not
// block aligned, or whose last 1024 bytes are not zero.
func removeFooter(f *os.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTruncate, err)
	}
	size := info.Size()
	if size < blockio.FooterSize {
		return 0, fmt.Errorf("%w: archive is %d bytes, shorter than the footer", ErrTruncate, size)
	}
	if size%blockio.BlockSize != 0 {
		return 0, fmt.Errorf("%w: archive size %d is not block aligned", ErrTruncate, size)
	}

	end := size - blockio.FooterSize
	var footer [blockio.FooterSize]byte
	if _, err := f.ReadAt(footer[:], end); err != nil {
		return 0, fmt.Errorf("%w: read footer: %w", ErrTruncate, err)
	}
	if !blockio.IsZero(footer[:]) {
		return 0, fmt.Errorf("%w: archive does not end with a footer", ErrTruncate)
	}

	if err := f.Truncate(end); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrTruncate, err)
	}
	return end, nil
}
