/*
Package effect implements the color effects applied to tile and background
rasters: a rotation of the hue in HSV space, or a grayscale conversion when
the hue shift is at or beyond the Grayscale sentinel.

Results are memoized by an Engine for its lifetime.
*/
package effect

import (
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"
)

const (
	// Grayscale is the hue shift at and above which the grayscale effect
	// is used instead of a hue rotation.
	Grayscale = 1000

	hueWrap = 200
)

// Key identifies a memoized effect result.
type Key struct {
	// Source identifies the unmodified image, such as "tile:12" or "bg"
	Source string
	Shift  int
}

// Engine applies color effects and memoizes the results. It is safe for
// concurrent use.
type Engine struct {
	mu        sync.Mutex
	cache     map[Key]*image.NRGBA
	transform func(image.Image, int) *image.NRGBA
}

// New returns an Engine with an empty cache.
func New() *Engine {
	return &Engine{
		cache:     make(map[Key]*image.NRGBA),
		transform: Shift,
	}
}

// Apply returns m with the effect for shift applied. The first result for
// each key is cached and returned unchanged by later calls with the same key.
func (e *Engine) Apply(source string, m image.Image, shift int) *image.NRGBA {
	key := Key{Source: source, Shift: shift}

	e.mu.Lock()
	cached, ok := e.cache[key]
	e.mu.Unlock()
	if ok {
		return cached
	}

	result := e.transform(m, shift)

	e.mu.Lock()
	defer e.mu.Unlock()
	// Keep whichever result won a concurrent race, they are identical
	if cached, ok := e.cache[key]; ok {
		return cached
	}
	e.cache[key] = result

	return result
}

// Len returns the number of cached results.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}

// toNRGBA returns a copy of m as non-premultiplied RGBA with its top-left
// corner at (0, 0).
func toNRGBA(m image.Image) *image.NRGBA {
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	// Copy directly to avoid a round trip through premultiplied alpha
	if src, ok := m.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[i:i+dst.Stride])
		}
		return dst
	}

	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}

// Shift returns a copy of m with the effect for shift applied to every
// pixel. Alpha is preserved.
//
// The grayscale effect copies the red channel into green and blue rather
// than computing a luminance, existing previews depend on this.
func Shift(m image.Image, shift int) *image.NRGBA {
	dst := toNRGBA(m)
	pix := dst.Pix

	if shift >= Grayscale {
		for i := 0; i+3 < len(pix); i += 4 {
			pix[i+1] = pix[i]
			pix[i+2] = pix[i]
		}
		return dst
	}

	rotate := float64(shift % hueWrap)
	for i := 0; i+3 < len(pix); i += 4 {
		h, s, v := RGBToHSV(pix[i], pix[i+1], pix[i+2])
		r, g, b := HSVToRGB(math.Mod(h+rotate, 360), s, v)
		pix[i], pix[i+1], pix[i+2] = clamp(r), clamp(g), clamp(b)
	}

	return dst
}
