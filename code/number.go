package code

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Invalid is stored in place of any numeric field that failed to parse.
const Invalid = math.MinInt32

// maxValue bounds every decoded integer, anything larger is treated as
// Invalid rather than risking overflow in later index arithmetic.
const maxValue = 1<<31 - 1

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

// floatPrefix returns the longest prefix of s that forms a decimal floating
// point literal, after leading white space has been removed. Trailing
// garbage is ignored so "3.5abc" yields "3.5".
func floatPrefix(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		return s[:i+len("Infinity")]
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return ""
	}

	// Only consume an exponent if it is complete
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}

	return s[:i]
}

// intPrefix is like floatPrefix but only accepts an optionally signed run of
// decimal digits.
func intPrefix(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return ""
	}
	return s[:i]
}

// parseTruncated parses s as a floating point literal and truncates the
// result towards zero. Anything that is not a finite number within range
// returns Invalid and false.
func parseTruncated(s string) (int, bool) {
	p := floatPrefix(s)
	if p == "" {
		return Invalid, false
	}
	f, err := strconv.ParseFloat(strings.Replace(p, "Infinity", "Inf", 1), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Invalid, false
	}
	f = math.Trunc(f)
	if math.Abs(f) > maxValue {
		return Invalid, false
	}
	return int(f), true
}

// parseInteger parses the leading integer of s, ignoring any trailing
// characters.
func parseInteger(s string) (int, bool) {
	p := intPrefix(s)
	if p == "" {
		return Invalid, false
	}
	n, err := strconv.ParseInt(p, 10, 64)
	if err != nil || n > maxValue || n < -maxValue {
		return Invalid, false
	}
	return int(n), true
}
