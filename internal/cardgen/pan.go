package cardgen

import (
	"fmt"
	"strings"
)

const bodyLen = 15

// InvalidPatternError reports a pattern that still holds a non-digit after
// wildcard substitution.
type InvalidPatternError struct {
	Pattern string
	Offset  int
	Char    byte
}

func (e *InvalidPatternError) Error() string {
	if e.Pattern == "" {
		return "invalid pattern: empty"
	}
	return fmt.Sprintf("invalid pattern %q: character %q at offset %d is not a digit or wildcard", e.Pattern, e.Char, e.Offset)
}

// IsWildcard reports whether c is replaced by a random digit.
func IsWildcard(c byte) bool {
	return c == 'x' || c == 'X'
}

// Generate expands wildcards in pattern with digits drawn from src, normalizes
// the body to 15 digits and appends the Luhn check digit.
func Generate(pattern string, src DigitSource) (string, error) {
	if pattern == "" {
		return "", &InvalidPatternError{}
	}

	b := make([]byte, len(pattern))
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if IsWildcard(c) {
			c = '0' + byte(src.Intn(10))
		}
		b[i] = c
	}
	// the whole resolved body is checked, including what truncation drops
	for i, c := range b {
		if c < '0' || c > '9' {
			return "", &InvalidPatternError{Pattern: pattern, Offset: i, Char: c}
		}
	}

	body := normalizeBody(string(b))
	return body + string(luhnCheckDigit(body)), nil
}

// normalizeBody truncates or right-pads s with '0' to exactly 15 characters.
func normalizeBody(s string) string {
	if len(s) >= bodyLen {
		return s[:bodyLen]
	}
	return s + strings.Repeat("0", bodyLen-len(s))
}

// CheckDigit returns the Luhn check digit for an all-digit body.
func CheckDigit(body string) (byte, error) {
	if body == "" || !IsDigits(body) {
		return 0, fmt.Errorf("body must contain digits only")
	}
	return luhnCheckDigit(body), nil
}

func luhnCheckDigit(body string) byte {
	// the check digit takes index 0, so the body's last digit is doubled
	sum := luhnSum(body, true)
	return '0' + byte((10-(sum%10))%10)
}

func luhnSum(s string, dbl bool) int {
	sum := 0
	for i := len(s) - 1; i >= 0; i-- {
		d := int(s[i] - '0')
		if dbl {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		dbl = !dbl
	}
	return sum
}

// Verify reports whether sequence is all digits and passes the Luhn check.
func Verify(sequence string) bool {
	if sequence == "" || !IsDigits(sequence) {
		return false
	}
	return luhnSum(sequence, false)%10 == 0
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func LastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// MaskPAN keeps the first six and last four digits for logs.
func MaskPAN(pan string) string {
	cleaned := NormalizePAN(pan)
	n := len(cleaned)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + LastN(cleaned, 4)
	}
	return cleaned[:6] + strings.Repeat("*", n-10) + LastN(cleaned, 4)
}

// NormalizePAN strips spaces, tabs and dashes.
func NormalizePAN(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-':
			return -1
		default:
			return r
		}
	}, s)
}
