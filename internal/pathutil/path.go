// Package pathutil turns stored entry names into paths that are safe to
// create below an extraction directory.
package pathutil

import (
	"fmt"
	"io/fs"
	"strings"

	"github.com/meigma/minitar/internal/tartype"
)

// Normalize converts a stored entry name to fs.ValidPath form.
//
// It performs the following transformations:
//   - Strips leading slashes: "/etc/hosts" → "etc/hosts"
//   - Collapses consecutive slashes: "etc//hosts" → "etc/hosts"
//   - Drops "." elements: "./a.txt" → "a.txt"
//
// ".." elements are preserved so that Clean can reject them.
func Normalize(name string) string {
	parts := strings.Split(name, "/")
	result := parts[:0] // reuse backing array
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return strings.Join(result, "/")
}

// Clean normalizes name and rejects names that cannot be extracted safely:
// empty names, names with ".." elements and names containing NUL.
func Clean(name string) (string, error) {
	p := Normalize(name)
	if p == "" || !fs.ValidPath(p) || strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q", tartype.ErrUnsafePath, name)
	}
	return p, nil
}
