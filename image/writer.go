package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

const dataURLPrefix = "data:image/png;base64,"

// Encode writes the Image m to w in PNG format.
func Encode(w io.Writer, m image.Image) error {
	return png.Encode(w, m)
}

// EncodePaletted reduces m to at most colors colors and writes the result to
// w as a paletted PNG. Previews are mostly large areas of few colors so this
// is usually a fraction of the size produced by Encode.
func EncodePaletted(w io.Writer, m image.Image, colors int) error {
	if colors < 2 || colors > maxColors {
		return fmt.Errorf("image: palette size %d out of range", colors)
	}

	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil || len(pm.Palette) > colors {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, colors), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return png.Encode(w, pm)
}

// DataURL wraps PNG encoded data as a self-contained data URL.
func DataURL(b []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(b)
}

// ParseDataURL returns the PNG encoded data from a URL built by DataURL.
func ParseDataURL(s string) ([]byte, error) {
	if len(s) < len(dataURLPrefix) || s[:len(dataURLPrefix)] != dataURLPrefix {
		return nil, fmt.Errorf("image: not a PNG data URL")
	}
	return base64.StdEncoding.DecodeString(s[len(dataURLPrefix):])
}

// Scale resizes m to fill a w by h image.
func Scale(m image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), m, m.Bounds(), draw.Src, nil)
	return dst
}

// Fill returns a w by h image of a single color.
func Fill(c color.Color, w, h int) *image.RGBA {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return m
}

// Bytes is a convenience wrapper around Encode.
func Bytes(m image.Image) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := Encode(b, m); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
