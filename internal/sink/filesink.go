package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meigma/minitar/internal/pathutil"
	"github.com/meigma/minitar/internal/tartype"
)

// FileSink writes entries below a destination directory.
//
// By default, files are written to a temporary file in the same directory
// and renamed to the final path on Commit, so partially written files are
// never visible at the final path. All paths are resolved through an
// os.Root, which refuses to follow names or symlinks out of the directory.
type FileSink struct {
	destDir       string
	keepExisting  bool
	preserveMode  bool
	preserveTimes bool
	directWrite   bool
}

// FileSinkOption configures a FileSink.
type FileSinkOption func(*FileSink)

// WithKeepExisting skips entries whose destination already exists.
// By default, existing files are replaced.
func WithKeepExisting(keep bool) FileSinkOption {
	return func(s *FileSink) {
		s.keepExisting = keep
	}
}

// WithPreserveMode applies the entry's permission bits to the written file.
func WithPreserveMode(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveMode = preserve
	}
}

// WithPreserveTimes applies the entry's modification time to the written file.
func WithPreserveTimes(preserve bool) FileSinkOption {
	return func(s *FileSink) {
		s.preserveTimes = preserve
	}
}

// WithDirectWrites disables temp files and writes directly to the final path.
func WithDirectWrites(enabled bool) FileSinkOption {
	return func(s *FileSink) {
		s.directWrite = enabled
	}
}

// NewFileSink creates a FileSink that writes to destDir.
//
// destDir must exist. Parent directories of entries are created as needed.
func NewFileSink(destDir string, opts ...FileSinkOption) *FileSink {
	s := &FileSink{
		destDir: destDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ShouldProcess returns false if the destination exists and existing files
// are kept. Unsafe names return true so that Writer reports them.
func (s *FileSink) ShouldProcess(entry *tartype.Entry) bool {
	if !s.keepExisting {
		return true
	}
	rel, err := pathutil.Clean(entry.Name)
	if err != nil {
		return true
	}
	_, err = os.Lstat(filepath.Join(s.destDir, filepath.FromSlash(rel)))
	return errors.Is(err, os.ErrNotExist)
}

// Writer returns a Committer for the entry's content.
func (s *FileSink) Writer(entry *tartype.Entry) (Committer, error) {
	rel, err := pathutil.Clean(entry.Name)
	if err != nil {
		return nil, err
	}
	destRel := filepath.FromSlash(rel)
	destPath := filepath.Join(s.destDir, destRel)

	root, err := os.OpenRoot(s.destDir)
	if err != nil {
		return nil, fmt.Errorf("open destination root %s: %w", s.destDir, err)
	}
	if dir := filepath.Dir(destRel); dir != "." {
		if err := root.MkdirAll(dir, 0o750); err != nil {
			_ = root.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("create directory %s: %w", filepath.Join(s.destDir, dir), err)
		}
	}

	if s.directWrite {
		file, err := root.OpenFile(destRel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
		if err != nil {
			_ = root.Close() //nolint:errcheck // best-effort cleanup
			return nil, fmt.Errorf("%w: %s: %w", tartype.ErrOpen, destPath, err)
		}
		return &directCommitter{
			entry:    entry,
			destPath: destPath,
			destRel:  destRel,
			file:     file,
			root:     root,
			sink:     s,
		}, nil
	}

	// Create temp file in same directory (for atomic rename)
	tempFile, tempRel, err := createTempFile(root, filepath.Dir(destRel), ".minitar-")
	if err != nil {
		_ = root.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("%w: temp file for %s: %w", tartype.ErrOpen, destPath, err)
	}

	return &fileCommitter{
		entry:    entry,
		destPath: destPath,
		destRel:  destRel,
		tempFile: tempFile,
		tempRel:  tempRel,
		root:     root,
		sink:     s,
	}, nil
}

// applyMetadata sets mode and times on rel as configured.
func (s *FileSink) applyMetadata(root *os.Root, rel string, entry *tartype.Entry) error {
	if s.preserveMode {
		if err := root.Chmod(rel, entry.Mode); err != nil {
			return fmt.Errorf("chmod: %w", err)
		}
	}
	if s.preserveTimes {
		if err := root.Chtimes(rel, entry.ModTime, entry.ModTime); err != nil {
			return fmt.Errorf("chtimes: %w", err)
		}
	}
	return nil
}

// fileCommitter writes to a temp file and renames on Commit.
type fileCommitter struct {
	entry    *tartype.Entry
	destPath string
	destRel  string
	tempFile *os.File
	tempRel  string
	root     *os.Root
	sink     *FileSink
}

// Write implements io.Writer.
func (c *fileCommitter) Write(p []byte) (int, error) {
	n, err := c.tempFile.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %s: %w", tartype.ErrWrite, c.destPath, err)
	}
	return n, nil
}

// Commit closes the temp file, applies metadata, and renames to final path.
func (c *fileCommitter) Commit() error {
	if err := c.tempFile.Close(); err != nil {
		c.abort(c.tempRel)
		return fmt.Errorf("%w: close %s: %w", tartype.ErrWrite, c.destPath, err)
	}
	if err := c.sink.applyMetadata(c.root, c.tempRel, c.entry); err != nil {
		c.abort(c.tempRel)
		return err
	}
	if err := c.root.Rename(c.tempRel, c.destRel); err != nil {
		c.abort(c.tempRel)
		return fmt.Errorf("rename to %s: %w", c.destPath, err)
	}
	_ = c.root.Close() //nolint:errcheck // best-effort cleanup
	return nil
}

// Discard closes and removes the temp file.
func (c *fileCommitter) Discard() error {
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	if err := c.root.Remove(c.tempRel); err != nil {
		_ = c.root.Close() //nolint:errcheck // best-effort cleanup
		return err
	}
	return c.root.Close()
}

func (c *fileCommitter) abort(rel string) {
	_ = c.root.Remove(rel) //nolint:errcheck // best-effort cleanup
	_ = c.root.Close()     //nolint:errcheck // best-effort cleanup
}

// directCommitter writes directly to the final path.
type directCommitter struct {
	entry    *tartype.Entry
	destPath string
	destRel  string
	file     *os.File
	root     *os.Root
	sink     *FileSink
}

// Write implements io.Writer.
func (c *directCommitter) Write(p []byte) (int, error) {
	n, err := c.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %s: %w", tartype.ErrWrite, c.destPath, err)
	}
	return n, nil
}

// Commit closes the file and applies metadata.
func (c *directCommitter) Commit() error {
	if err := c.file.Close(); err != nil {
		_ = c.root.Remove(c.destRel) //nolint:errcheck // best-effort cleanup
		_ = c.root.Close()           //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("%w: close %s: %w", tartype.ErrWrite, c.destPath, err)
	}
	if err := c.sink.applyMetadata(c.root, c.destRel, c.entry); err != nil {
		_ = c.root.Remove(c.destRel) //nolint:errcheck // best-effort cleanup
		_ = c.root.Close()           //nolint:errcheck // best-effort cleanup
		return err
	}
	_ = c.root.Close() //nolint:errcheck // best-effort cleanup
	return nil
}

// Discard closes and removes the file.
func (c *directCommitter) Discard() error {
	_ = c.file.Close() //nolint:errcheck // best-effort cleanup
	if err := c.root.Remove(c.destRel); err != nil {
		_ = c.root.Close() //nolint:errcheck // best-effort cleanup
		return err
	}
	return c.root.Close()
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
