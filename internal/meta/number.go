package meta

import (
	"errors"
	"strconv"
	"strings"
)

var errBadNumber = errors.New("malformed numeric literal")

// parseNumber parses an unsigned numeric literal: decimal with optional
// fraction and exponent, 0x hexadecimal or 0b binary, with '_' separators
// allowed between digits.
func parseNumber(text string) (float64, error) {
	if text == "" || strings.HasPrefix(text, "_") || strings.HasSuffix(text, "_") || strings.Contains(text, "__") {
		return 0, errBadNumber
	}
	clean := strings.ReplaceAll(text, "_", "")

	if len(clean) > 2 && clean[0] == '0' {
		switch clean[1] {
		case 'x', 'X':
			return parseRadix(clean[2:], 16)
		case 'b', 'B':
			return parseRadix(clean[2:], 2)
		}
	}

	for i := 0; i < len(clean); i++ {
		c := clean[i]
		switch {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E':
		case (c == '+' || c == '-') && i > 0 && (clean[i-1] == 'e' || clean[i-1] == 'E'):
		default:
			return 0, errBadNumber
		}
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, errBadNumber
	}
	return v, nil
}

func parseRadix(digits string, base int) (float64, error) {
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, errBadNumber
	}
	return float64(u), nil
}
