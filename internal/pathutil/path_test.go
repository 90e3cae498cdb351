package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/minitar/internal/tartype"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"a.txt", "a.txt"},
		{"/etc/hosts", "etc/hosts"},
		{"etc//hosts", "etc/hosts"},
		{"./a.txt", "a.txt"},
		{"dir/./b", "dir/b"},
		{"dir/", "dir"},
		{"../x", "../x"},
		{"/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"a.txt", "/abs/path.txt", "./dir/file", "a..b"} {
		_, err := Clean(ok)
		require.NoError(t, err, "Clean(%q)", ok)
	}

	for _, bad := range []string{"", "/", ".", "..", "../pwned.txt", "dir/../../x", "/../etc/passwd"} {
		_, err := Clean(bad)
		require.ErrorIs(t, err, tartype.ErrUnsafePath, "Clean(%q)", bad)
	}
}
