package header

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/meigma/minitar/internal/tartype"
)

// formatOctal writes v into field as zero-padded octal digits filling all but
// the last byte, which is set to NUL.
func formatOctal(field []byte, v int64) error {
	digits := len(field) - 1
	if v < 0 || v >= int64(1)<<(3*digits) {
		return fmt.Errorf("%w: %d does not fit %d octal digits", tartype.ErrFieldOverflow, v, digits)
	}
	s := strconv.FormatInt(v, 8)
	n := copy(field, strings.Repeat("0", digits-len(s)))
	copy(field[n:], s)
	field[digits] = 0
	return nil
}

// parseOctal reads a numeric field. Leading and trailing spaces and NULs are
// ignored; an empty field reads as zero. Only the digits 0-7 are accepted,
// so a field never decodes to a negative value.
func parseOctal(field []byte) (int64, error) {
	s := strings.Trim(string(field), " \x00")
	if s == "" {
		return 0, nil
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '7' {
			return 0, fmt.Errorf("invalid octal field %q", s)
		}
	}
	v, err := strconv.ParseInt(s, 8, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid octal field %q", s)
	}
	return v, nil
}
