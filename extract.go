package minitar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/sink"
	"github.com/meigma/minitar/namelist"
)

// ExtractStats contains statistics from an Extract operation.
type ExtractStats struct {
	// FileCount is the number of entries written.
	FileCount int

	// TotalBytes is the total content bytes written.
	TotalBytes uint64

	// Skipped is the number of entries left alone: existing files kept
	// with ExtractWithKeepExisting and entries that are not regular files.
	Skipped int
}

// Extract writes the entries of the archive at archivePath below destDir,
// which must exist. An empty destDir means the working directory.
//
// Leading slashes are stripped from stored names; names with ".." elements
// fail with ErrUnsafePath, and no path is ever resolved outside destDir.
// Each file is written to a temp file and renamed into place, so a failed
// entry never leaves partial content at its final path. When a name is
// stored more than once, the last copy wins.
func Extract(ctx context.Context, archivePath, destDir string, opts ...ExtractOption) (ExtractStats, error) {
	cfg := extractConfig{preserveMode: true, preserveTimes: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if destDir == "" {
		destDir = "."
	}

	var stats ExtractStats
	f, err := os.Open(archivePath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: %s", ErrNotFound, archivePath)
		}
		return stats, fmt.Errorf("%w: %s: %w", ErrOpen, archivePath, err)
	}
	defer f.Close()

	cfg.log().Info("extracting archive", "archive", archivePath, "dest", destDir)

	s := sink.NewFileSink(destDir,
		sink.WithKeepExisting(cfg.keepExisting),
		sink.WithPreserveMode(cfg.preserveMode),
		sink.WithPreserveTimes(cfg.preserveTimes),
		sink.WithDirectWrites(cfg.directWrites),
	)
	wanted := namelist.New(cfg.names...)
	found := namelist.New()
	buf := make([]byte, blockio.DefaultBufferSize)

	r := NewReader(f, ReadWithLogger(cfg.logger))
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("%s: %w", archivePath, err)
		}
		if wanted.Len() > 0 && !wanted.Contains(e.Name) {
			continue
		}
		found.Add(e.Name)

		if !e.IsRegular() {
			cfg.log().Warn("skipping unsupported entry type", "name", e.Name, "typeflag", string(e.Typeflag))
			stats.Skipped++
			continue
		}
		if !s.ShouldProcess(e) {
			cfg.log().Debug("keeping existing file", "name", e.Name)
			stats.Skipped++
			continue
		}

		if err := extractEntry(ctx, r, s, e, buf); err != nil {
			return stats, fmt.Errorf("extract %s: %w", e.Name, err)
		}
		stats.FileCount++
		stats.TotalBytes += uint64(e.Size) //nolint:gosec // sizes are never negative
		cfg.log().Debug("entry extracted", "name", e.Name, "size", e.Size, "digest", e.Digest.String())
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{
				Stage:     StageExtracting,
				Name:      e.Name,
				BytesDone: stats.TotalBytes,
				FilesDone: stats.FileCount,
			})
		}
	}

	if missing := wanted.Missing(found); len(missing) > 0 {
		return stats, fmt.Errorf("%w: %s", ErrNotSubset, strings.Join(missing, ", "))
	}
	return stats, nil
}

// extractEntry copies the current entry's content from r into the sink and
// records its digest on e.
func extractEntry(ctx context.Context, r *Reader, s *sink.FileSink, e *Entry, buf []byte) error {
	w, err := s.Writer(e)
	if err != nil {
		return err
	}
	digester := digest.Canonical.Digester()
	n, err := blockio.CopyContext(ctx, io.MultiWriter(w, digester.Hash()), r, buf)
	if err == nil && n != e.Size {
		err = fmt.Errorf("%w: expected %d content bytes, got %d", ErrRead, e.Size, n)
	}
	if err != nil {
		_ = w.Discard() //nolint:errcheck // already failing
		return err
	}
	e.Digest = digester.Digest()
	return w.Commit()
}
