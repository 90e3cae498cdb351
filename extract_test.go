package minitar

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/minitar/internal/testutil"
)

func TestExtract_RoundTrip(t *testing.T) {
	t.Parallel()
	testutil.RequireOwnerLookup(t)

	srcDir := t.TempDir()
	files := sampleFiles()
	names := testutil.WriteFiles(t, srcDir, files...)
	mtime := time.Unix(1650000000, 0)
	require.NoError(t, os.Chmod(filepath.Join(srcDir, "a.txt"), 0o640))
	require.NoError(t, os.Chtimes(filepath.Join(srcDir, "a.txt"), mtime, mtime))

	ctx := context.Background()
	archivePath := filepath.Join(t.TempDir(), "rt.tar")
	require.NoError(t, Create(ctx, archivePath, names, WriteWithDir(srcDir)))

	var events []ProgressEvent
	dest := t.TempDir()
	stats, err := Extract(ctx, archivePath, dest,
		ExtractWithProgress(func(ev ProgressEvent) { events = append(events, ev) }))
	require.NoError(t, err)
	assert.Equal(t, len(files), stats.FileCount)
	assert.Equal(t, uint64(10+512+2400), stats.TotalBytes)
	assert.Zero(t, stats.Skipped)
	require.Len(t, events, len(files))
	assert.Equal(t, StageExtracting, events[0].Stage)

	for _, f := range files {
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(f.Name)))
		require.NoError(t, err, f.Name)
		assert.True(t, bytes.Equal(f.Data, got), "content of %s", f.Name)
	}

	info, err := os.Stat(filepath.Join(dest, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
	assert.True(t, mtime.Equal(info.ModTime()), "mtime %v != %v", info.ModTime(), mtime)
}

func TestExtract_DirectWrites(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntry(t, "nested/direct.txt", []byte("direct")),
		testutil.RawEntry(t, "other.txt", nil),
	)
	archivePath := testutil.WriteArchive(t, t.TempDir(), "d.tar", data)

	dest := t.TempDir()
	stats, err := Extract(context.Background(), archivePath, dest, ExtractWithDirectWrites(true))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)

	got, err := os.ReadFile(filepath.Join(dest, "nested", "direct.txt"))
	require.NoError(t, err)
	assert.Equal(t, "direct", string(got))

	info, err := os.Stat(filepath.Join(dest, "nested", "direct.txt"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
	assert.True(t, time.Unix(1700000000, 0).Equal(info.ModTime()))

	entries, err := os.ReadDir(filepath.Join(dest, "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestExtract_StripsLeadingSlash(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(testutil.RawEntry(t, "/abs/file.txt", []byte("abs")))
	archivePath := testutil.WriteArchive(t, t.TempDir(), "abs.tar", data)

	dest := t.TempDir()
	_, err := Extract(context.Background(), archivePath, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(dest, "abs", "file.txt"))
	require.NoError(t, err)
	assert.Equal(t, "abs", string(got))
}

func TestExtract_RejectsTraversal(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"../pwned.txt", "a/../../pwned.txt"} {
		data := testutil.RawArchive(testutil.RawEntry(t, name, []byte("pwned")))
		archivePath := testutil.WriteArchive(t, t.TempDir(), "evil.tar", data)

		parent := t.TempDir()
		dest := filepath.Join(parent, "dest")
		require.NoError(t, os.Mkdir(dest, 0o750))

		_, err := Extract(context.Background(), archivePath, dest)
		require.ErrorIs(t, err, ErrUnsafePath, name)
		_, statErr := os.Stat(filepath.Join(parent, "pwned.txt"))
		assert.True(t, os.IsNotExist(statErr), "%s must not escape the destination", name)
	}
}

func TestExtract_Names(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntry(t, "keep.txt", []byte("keep")),
		testutil.RawEntry(t, "skip.txt", []byte("skip")),
	)
	archivePath := testutil.WriteArchive(t, t.TempDir(), "n.tar", data)

	t.Run("subset", func(t *testing.T) {
		t.Parallel()

		dest := t.TempDir()
		stats, err := Extract(context.Background(), archivePath, dest, ExtractWithNames("keep.txt"))
		require.NoError(t, err)
		assert.Equal(t, 1, stats.FileCount)
		assert.FileExists(t, filepath.Join(dest, "keep.txt"))
		assert.NoFileExists(t, filepath.Join(dest, "skip.txt"))
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()

		dest := t.TempDir()
		_, err := Extract(context.Background(), archivePath, dest, ExtractWithNames("keep.txt", "absent.txt"))
		require.ErrorIs(t, err, ErrNotSubset)
		assert.Contains(t, err.Error(), "absent.txt")
		assert.FileExists(t, filepath.Join(dest, "keep.txt"))
	})
}

func TestExtract_LastDuplicateWins(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntry(t, "dup.txt", []byte("old")),
		testutil.RawEntry(t, "dup.txt", []byte("new")),
	)
	archivePath := testutil.WriteArchive(t, t.TempDir(), "dup.tar", data)

	dest := t.TempDir()
	stats, err := Extract(context.Background(), archivePath, dest)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.FileCount)

	got, err := os.ReadFile(filepath.Join(dest, "dup.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestExtract_KeepExisting(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(testutil.RawEntry(t, "f.txt", []byte("archived")))
	archivePath := testutil.WriteArchive(t, t.TempDir(), "k.tar", data)

	dest := t.TempDir()
	testutil.WriteFiles(t, dest, testutil.File{Name: "f.txt", Data: []byte("local")})

	stats, err := Extract(context.Background(), archivePath, dest, ExtractWithKeepExisting(true))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	got, err := os.ReadFile(filepath.Join(dest, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "local", string(got))

	_, err = Extract(context.Background(), archivePath, dest)
	require.NoError(t, err)
	got, err = os.ReadFile(filepath.Join(dest, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "archived", string(got))
}

func TestExtract_SkipsNonRegularEntries(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntryWithType(t, "somedir", nil, '5'),
		testutil.RawEntry(t, "file.txt", []byte("file")),
	)
	archivePath := testutil.WriteArchive(t, t.TempDir(), "t.tar", data)

	dest := t.TempDir()
	stats, err := Extract(context.Background(), archivePath, dest)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FileCount)
	assert.Equal(t, 1, stats.Skipped)
	assert.NoFileExists(t, filepath.Join(dest, "somedir"))
	assert.FileExists(t, filepath.Join(dest, "file.txt"))
}

func TestExtract_MissingArchive(t *testing.T) {
	t.Parallel()

	_, err := Extract(context.Background(), filepath.Join(t.TempDir(), "none.tar"), t.TempDir())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExtract_CorruptHeader(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntry(t, "good.txt", []byte("good")),
		testutil.RawEntry(t, "bad.txt", []byte("bad")),
	)
	data[512+512+5] ^= 0x01
	archivePath := testutil.WriteArchive(t, t.TempDir(), "c.tar", data)

	dest := t.TempDir()
	stats, err := Extract(context.Background(), archivePath, dest)
	require.ErrorIs(t, err, ErrCorruptHeader)
	assert.Equal(t, 1, stats.FileCount)
	assert.FileExists(t, filepath.Join(dest, "good.txt"))
}
