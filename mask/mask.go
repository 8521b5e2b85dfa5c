/*
Package mask implements the per tile type lookup table describing which base
tile types are drawn and which of them are recolored by the level hue.

The table is built from a descriptor with one line per base tile type. A
space at offset 5 marks the tile as visible and an 'h' at offset 8 marks it
as needing the hue effect.
*/
package mask

import (
	"io"
	"io/ioutil"
	"strings"
)

// Types is the number of base tile types.
const Types = 86

const (
	visibleOffset = 5
	hueOffset     = 8
)

// Entry describes a single base tile type.
type Entry struct {
	Visible  bool
	NeedsHue bool
}

// Table is an immutable lookup from tile index to Entry.
type Table struct {
	entries [Types]Entry
}

// New builds a Table from descriptor lines. Lines beyond the number of base
// tile types are ignored and missing or short lines leave the type hidden.
func New(lines []string) *Table {
	t := new(Table)
	for i, line := range lines {
		if i >= Types {
			break
		}
		t.entries[i] = Entry{
			Visible:  len(line) > visibleOffset && line[visibleOffset] == ' ',
			NeedsHue: len(line) > hueOffset && line[hueOffset] == 'h',
		}
	}
	return t
}

// Fallback returns the Table used when no descriptor is available; every
// type is visible and every fifth type needs the hue effect.
func Fallback() *Table {
	t := new(Table)
	for i := range t.entries {
		t.entries[i] = Entry{
			Visible:  true,
			NeedsHue: i%5 == 0,
		}
	}
	return t
}

// Read reads descriptor lines from r. Lines are split on '\n' and any '\r'
// is removed.
func Read(r io.Reader) ([]string, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(b), "\n")
	for i, line := range lines {
		lines[i] = strings.Replace(line, "\r", "", 1)
	}
	return lines, nil
}

func index(tile int) int {
	i := tile % Types
	if i < 0 {
		return -1
	}
	return i
}

// Lookup returns the Entry for tile, which may be any tile index as it is
// first reduced modulo the number of base tile types. Negative indices
// return the zero Entry.
func (t *Table) Lookup(tile int) Entry {
	if i := index(tile); i >= 0 {
		return t.entries[i]
	}
	return Entry{}
}

// Visible reports whether tile should be drawn.
func (t *Table) Visible(tile int) bool {
	return t.Lookup(tile).Visible
}

// NeedsHue reports whether tile is recolored by the level hue.
func (t *Table) NeedsHue(tile int) bool {
	return t.Lookup(tile).NeedsHue
}
