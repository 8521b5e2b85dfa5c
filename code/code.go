/*
Package code implements a decoder for the compact textual level encoding.

A level code starts with a fixed seven character header which is discarded.
The remainder is split on 'Z' into tokens: the level width, a run-length
encoded list of tile types terminated by an empty token, a run-length encoded
list of rotations terminated by an empty token, and finally a list of tokens
of which the last two are the foreground and background hue settings.

Decoding is deliberately permissive so that historical codes with minor
corruption can still be previewed. Structural problems are reported with a
*DecodeError alongside a usable, possibly partial, Level.
*/
package code

import (
	"errors"
	"fmt"
	"strings"
)

const (
	headerLength = 7
	separator    = "Z"

	// maxRun caps the count of a single run-length pair
	maxRun = 1 << 20
)

// Sections of a level code, used to report where a problem was found.
const (
	SectionHeader   = "header"
	SectionSize     = "size"
	SectionMap      = "map"
	SectionRotation = "rotation"
	SectionHue      = "hue"
)

// ErrMissingSeparator is wrapped by DecodeError.
var ErrMissingSeparator = errors.New("code: missing section separator")

// DecodeError reports structural corruption in a level code. It is advisory:
// Decode always returns the best-effort Level alongside it.
type DecodeError struct {
	Sections []string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("code: malformed level code, missing or truncated %s", strings.Join(e.Sections, ", "))
}

// Unwrap returns ErrMissingSeparator.
func (e *DecodeError) Unwrap() error {
	return ErrMissingSeparator
}

// NumericError records a token that could not be parsed as a number. The
// corresponding value in the Level holds Invalid.
type NumericError struct {
	Section string
	Index   int
	Token   string
}

func (e NumericError) Error() string {
	return fmt.Sprintf("code: invalid number %q in %s section at token %d", e.Token, e.Section, e.Index)
}

// Level is a decoded level code.
type Level struct {
	// Map holds 1-based tile types in row-major order
	Map []int
	// Rotations is parallel to Map
	Rotations []int
	// SizeX is the grid width, Invalid if it failed to parse
	SizeX int
	// Hue and Hue2 are the raw hue tokens for tiles and background
	Hue  string
	Hue2 string
	// Warnings lists every token that failed to parse
	Warnings []NumericError
}

// Rows returns the number of complete rows in the level.
func (l *Level) Rows() int {
	if l.SizeX <= 0 {
		return 0
	}
	return len(l.Map) / l.SizeX
}

// Start returns the index of the first start marker tile in the map, or -1
// if there isn't one.
func (l *Level) Start() int {
	for i, t := range l.Map {
		if t == StartTile {
			return i
		}
	}
	return -1
}

// StartTile is the tile type marking where the player starts.
const StartTile = 76

func indexEmpty(tokens []string) int {
	for i, t := range tokens {
		if t == "" {
			return i
		}
	}
	return -1
}

type decoder struct {
	level  Level
	broken []string
}

func (d *decoder) warn(section string, index int, token string) {
	d.level.Warnings = append(d.level.Warnings, NumericError{
		Section: section,
		Index:   index,
		Token:   token,
	})
}

// runs expands the run-length pairs in tokens, value then count, using
// value to parse each value token.
func (d *decoder) runs(section string, tokens []string, offset int, value func(string) (int, bool)) []int {
	out := []int{}
	for i := 0; i < len(tokens); i += 2 {
		v, ok := value(tokens[i])
		if !ok {
			d.warn(section, offset+i, tokens[i])
		}

		if i+1 >= len(tokens) {
			d.warn(section, offset+i+1, "")
			break
		}
		count, ok := parseTruncated(tokens[i+1])
		if !ok || count > maxRun {
			d.warn(section, offset+i+1, tokens[i+1])
			continue
		}

		for j := 0; j < count; j++ {
			out = append(out, v)
		}
	}
	return out
}

func rotationValue(s string) (int, bool) {
	if s == "Infinity" || strings.ContainsAny(s, "eE") {
		return 1, true
	}
	return parseTruncated(s)
}

func (d *decoder) decode(s string) {
	if len(s) < headerLength {
		d.broken = append(d.broken, SectionHeader)
		s = ""
	} else {
		s = s[headerLength:]
	}

	data := strings.Split(s, separator)

	size, ok := parseInteger(data[0])
	if !ok {
		d.warn(SectionSize, 0, data[0])
	}
	d.level.SizeX = size

	rest := data[1:]
	mapEnd := indexEmpty(rest)
	if mapEnd < 0 {
		d.broken = append(d.broken, SectionMap)
		d.level.Map = d.runs(SectionMap, rest, 1, parseTruncated)
		d.level.Rotations = []int{}
		return
	}
	d.level.Map = d.runs(SectionMap, rest[:mapEnd], 1, parseTruncated)

	remaining := rest[mapEnd+1:]
	offset := mapEnd + 2
	rotEnd := indexEmpty(remaining)
	if rotEnd < 0 {
		d.broken = append(d.broken, SectionRotation)
		d.level.Rotations = d.runs(SectionRotation, remaining, offset, rotationValue)
		return
	}
	d.level.Rotations = d.runs(SectionRotation, remaining[:rotEnd], offset, rotationValue)

	final := remaining[rotEnd+1:]
	switch n := len(final); {
	case n >= 2:
		d.level.Hue, d.level.Hue2 = final[n-2], final[n-1]
	case n == 1:
		d.broken = append(d.broken, SectionHue)
		d.level.Hue2 = final[0]
	default:
		d.broken = append(d.broken, SectionHue)
	}
}

// Decode parses a level code. A non-nil Level is always returned; if the
// code is structurally corrupt the error is a *DecodeError and the Level
// holds whatever could be recovered.
func Decode(s string) (*Level, error) {
	var d decoder
	d.decode(s)

	if len(d.broken) > 0 {
		return &d.level, &DecodeError{Sections: d.broken}
	}
	return &d.level, nil
}
