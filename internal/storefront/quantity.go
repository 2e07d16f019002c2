package storefront

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseQuantity coerces raw user input into a quantity the way the storefront always has:
// leading whitespace is skipped, an optional sign and the longest run of decimal digits are
// read, and anything that yields no number or zero becomes 1. "0x1A" reads as 0, hence 1.
// Negative results are returned as-is so SetQuantity drops the line item. Magnitudes beyond
// int32 are clamped.
//
// Malformed input is normalized, never rejected.
func ParseQuantity(raw string) int {
	s := strings.TrimLeftFunc(raw, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 1
	}

	digits := s[:end]
	if negative {
		digits = "-" + digits
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	switch {
	case n > math.MaxInt32:
		return math.MaxInt32
	case n < math.MinInt32:
		return math.MinInt32
	case n == 0:
		return 1
	}
	return int(n)
}
