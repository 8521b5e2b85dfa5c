package levelpreview

import (
	"errors"
	"fmt"

	"github.com/bodgit/levelpreview/code"
	"github.com/bodgit/levelpreview/tile"
)

// Kind classifies a Diagnostic.
type Kind int

// Kinds of Diagnostic.
const (
	// DecodeWarning is structural corruption in the level code
	DecodeWarning Kind = iota + 1
	// NumericFormat is a field that is not a number
	NumericFormat
	// AssetUnavailable is a sprite, background or mask that could not be
	// loaded or is empty
	AssetUnavailable
	// BoundsViolation is a cell that falls outside the level
	BoundsViolation
	// MissingStart is a level without a start tile
	MissingStart
)

func (k Kind) String() string {
	switch k {
	case DecodeWarning:
		return "decode"
	case NumericFormat:
		return "numeric format"
	case AssetUnavailable:
		return "asset unavailable"
	case BoundsViolation:
		return "bounds violation"
	case MissingStart:
		return "missing start"
	}
	return "unknown"
}

// Diagnostic reports a non-fatal problem. Cell-level problems carry the
// layer and the on-screen column and row; Index is the map index or tile
// index involved, if any.
type Diagnostic struct {
	Kind   Kind
	Layer  tile.Layer
	Col    int
	Row    int
	Index  int
	Detail string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Detail)
}

// DecodeDiagnostics converts the warnings and error returned by code.Decode
// into diagnostics.
func DecodeDiagnostics(level *code.Level, err error) []Diagnostic {
	var diags []Diagnostic

	var de *code.DecodeError
	if errors.As(err, &de) {
		diags = append(diags, Diagnostic{
			Kind:   DecodeWarning,
			Index:  -1,
			Detail: de.Error(),
		})
	}

	if level != nil {
		for _, w := range level.Warnings {
			diags = append(diags, Diagnostic{
				Kind:   NumericFormat,
				Index:  w.Index,
				Detail: w.Error(),
			})
		}
	}

	return diags
}
