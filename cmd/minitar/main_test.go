package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/meigma/minitar/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_CreateListExtract(t *testing.T) {
	t.Parallel()
	testutil.RequireOwnerLookup(t)

	src := t.TempDir()
	testutil.WriteFiles(t, src,
		testutil.File{Name: "a.txt", Data: []byte("alpha")},
		testutil.File{Name: "b.txt", Data: []byte("bravo")},
	)
	archive := filepath.Join(t.TempDir(), "cli.tar")

	code, stdout, stderr := runCLI(t, "-c", "-v", "-f", archive, "-C", src, "a.txt", "b.txt")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "a.txt\nb.txt\n", stdout)

	code, stdout, _ = runCLI(t, "-t", "-f", archive)
	require.Equal(t, 0, code)
	assert.Equal(t, "a.txt\nb.txt\n", stdout)

	code, stdout, _ = runCLI(t, "-t", "-v", "-f", archive)
	require.Equal(t, 0, code)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " a.txt"))
	assert.True(t, strings.HasPrefix(lines[0], "-rw"))

	dest := t.TempDir()
	code, _, stderr = runCLI(t, "-x", "-f", archive, "-C", dest)
	require.Equal(t, 0, code, stderr)
	got, err := os.ReadFile(filepath.Join(dest, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bravo", string(got))
}

func TestRun_ListYAML(t *testing.T) {
	t.Parallel()

	data := testutil.RawArchive(
		testutil.RawEntry(t, "one", []byte("1")),
		testutil.RawEntry(t, "two", nil),
	)
	archive := testutil.WriteArchive(t, t.TempDir(), "y.tar", data)

	code, stdout, stderr := runCLI(t, "-t", "-o", "yaml", "-f", archive)
	require.Equal(t, 0, code, stderr)

	var listed []listedEntry
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "one", listed[0].Name)
	assert.Equal(t, int64(1), listed[0].Size)
	assert.Equal(t, "0644", listed[0].Mode)
	assert.Equal(t, "test", listed[0].Uname)
	assert.Equal(t, int64(1024), listed[1].Offset)
	assert.Equal(t, "2023-11-14T22:13:20Z", listed[1].ModTime)
}

func TestRun_AppendAndUpdate(t *testing.T) {
	t.Parallel()
	testutil.RequireOwnerLookup(t)

	src := t.TempDir()
	testutil.WriteFiles(t, src,
		testutil.File{Name: "a.txt", Data: []byte("a")},
		testutil.File{Name: "b.txt", Data: []byte("b")},
	)
	archive := filepath.Join(t.TempDir(), "au.tar")

	code, _, stderr := runCLI(t, "-c", "-f", archive, "-C", src, "a.txt")
	require.Equal(t, 0, code, stderr)
	code, _, stderr = runCLI(t, "-a", "-f", archive, "-C", src, "b.txt")
	require.Equal(t, 0, code, stderr)
	code, _, stderr = runCLI(t, "-u", "-f", archive, "-C", src, "a.txt")
	require.Equal(t, 0, code, stderr)

	_, stdout, _ := runCLI(t, "-t", "-f", archive)
	assert.Equal(t, "a.txt\nb.txt\na.txt\n", stdout)

	testutil.WriteFiles(t, src, testutil.File{Name: "c.txt", Data: []byte("c")})
	code, _, stderr = runCLI(t, "-u", "-f", archive, "-C", src, "c.txt")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "c.txt")
}

func TestRun_Failures(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.tar")
	tests := []struct {
		name string
		args []string
	}{
		{"no mode", []string{"-f", missing}},
		{"two modes", []string{"-c", "-t", "-f", missing}},
		{"no archive", []string{"-t"}},
		{"bad format", []string{"-t", "-o", "json", "-f", missing}},
		{"unknown flag", []string{"-z"}},
		{"list missing archive", []string{"-t", "-f", missing}},
		{"append missing archive", []string{"-a", "-f", missing, "x"}},
		{"extract missing archive", []string{"-x", "-f", missing}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			code, _, stderr := runCLI(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.NotEmpty(t, stderr)
		})
	}
}
