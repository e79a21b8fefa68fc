package pixelconfig

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingInt   = regexp.MustCompile(`^[+-]?[0-9]+`)
	leadingFloat = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?`)
)

// ParseInt parses s the way legacy controllers do: leading whitespace
// is skipped, then an optional sign and as many digits as are present.
// Trailing garbage is ignored and a string without digits yields 0.
//
// ok is true only when the whole (trimmed) string was a valid integer, so
// callers can tell a clean value from a legacy fallback.
func ParseInt(s string) (value int, ok bool) {
	s = strings.TrimSpace(s)
	prefix := leadingInt.FindString(s)
	if prefix == "" {
		return 0, false
	}

	n, err := strconv.ParseInt(prefix, 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), prefix == s
}

// ParseFloat is the toFloat() counterpart of ParseInt.
func ParseFloat(s string) (value float64, ok bool) {
	s = strings.TrimSpace(s)
	prefix := leadingFloat.FindString(s)
	if prefix == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, prefix == s
}

// URLDecode percent-decodes a form value. '+' becomes a space and malformed
// escapes are kept literally instead of failing the whole value.
func URLDecode(s string) string {
	if !strings.ContainsAny(s, "%+") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '+':
			b.WriteByte(' ')
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// FormatGamma renders gamma in the shortest form that parses back to the
// same value.
func FormatGamma(g float64) string {
	return strconv.FormatFloat(g, 'f', -1, 64)
}
