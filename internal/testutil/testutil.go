// Package testutil provides fixtures shared by the archive tests.
package testutil

import (
	"bytes"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/meigma/minitar/internal/blockio"
	"github.com/meigma/minitar/internal/header"
	"github.com/meigma/minitar/internal/tartype"
)

// File is a fixture file: a relative name and its content.
type File struct {
	Name string
	Data []byte
}

// RequireOwnerLookup skips the test when the current uid or gid has no
// name, since headers cannot be built for such files.
func RequireOwnerLookup(tb testing.TB) {
	tb.Helper()
	if _, err := user.LookupId(strconv.Itoa(os.Getuid())); err != nil {
		tb.Skipf("current uid has no user name: %v", err)
	}
	if _, err := user.LookupGroupId(strconv.Itoa(os.Getgid())); err != nil {
		tb.Skipf("current gid has no group name: %v", err)
	}
}

// WriteFiles creates files below dir and returns their names in order.
func WriteFiles(tb testing.TB, dir string, files ...File) []string {
	tb.Helper()
	names := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			tb.Fatalf("mkdir for %s: %v", f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0o644); err != nil {
			tb.Fatalf("write %s: %v", f.Name, err)
		}
		names = append(names, f.Name)
	}
	return names
}

// RawEntry builds the archive bytes for one regular file entry without
// touching the filesystem: a header block followed by padded content.
func RawEntry(tb testing.TB, name string, content []byte) []byte {
	tb.Helper()
	return RawEntryWithType(tb, name, content, tartype.TypeReg)
}

// RawEntryWithType is RawEntry with an explicit typeflag.
func RawEntryWithType(tb testing.TB, name string, content []byte, typeflag byte) []byte {
	tb.Helper()
	b, err := header.Encode(&tartype.Entry{
		Name:     name,
		Mode:     0o644,
		UID:      1000,
		GID:      1000,
		Size:     int64(len(content)),
		ModTime:  time.Unix(1700000000, 0),
		Typeflag: typeflag,
		Uname:    "test",
		Gname:    "test",
	})
	if err != nil {
		tb.Fatalf("encode header for %s: %v", name, err)
	}
	var buf bytes.Buffer
	buf.Write(b[:])
	buf.Write(content)
	buf.Write(make([]byte, blockio.Padding(int64(len(content)))))
	return buf.Bytes()
}

// RawArchive concatenates entries and appends the footer.
func RawArchive(entries ...[]byte) []byte {
	var buf bytes.Buffer
	for _, e := range entries {
		buf.Write(e)
	}
	buf.Write(make([]byte, blockio.FooterSize))
	return buf.Bytes()
}

// WriteArchive writes data to dir/name and returns the path.
func WriteArchive(tb testing.TB, dir, name string, data []byte) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		tb.Fatalf("write archive %s: %v", name, err)
	}
	return path
}
