package minitar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meigma/minitar/namelist"
)

// Entries returns the headers of every entry in the archive at archivePath,
// in archive order.
func Entries(ctx context.Context, archivePath string, opts ...ReadOption) ([]Entry, error) {
	f, err := os.Open(archivePath) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, archivePath, err)
	}
	defer f.Close()

	var entries []Entry
	r := NewReader(f, opts...)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", archivePath, err)
		}
		entries = append(entries, *e)
	}
	r.log().Debug("archive listed", "archive", archivePath, "entries", len(entries))
	return entries, nil
}

// List returns the names of the entries in the archive at archivePath, in
// archive order. Names stored more than once appear more than once.
func List(ctx context.Context, archivePath string, opts ...ReadOption) (*namelist.List, error) {
	entries, err := Entries(ctx, archivePath, opts...)
	if err != nil {
		return nil, err
	}
	names := namelist.New()
	for i := range entries {
		names.Add(entries[i].Name)
	}
	return names, nil
}
