package tile

import (
	"image"
	"image/color"
	"testing"

	"github.com/bodgit/levelpreview/effect"
	"github.com/bodgit/levelpreview/mask"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// marker returns a square image with a single red pixel in the top-left
// corner, so rotations are easy to detect.
func marker(size int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i := 3; i < len(m.Pix); i += 4 {
		m.Pix[i] = 0xff
	}
	m.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	return m
}

func hueTable(needsHue bool) *mask.Table {
	line := "00000 xx."
	if needsHue {
		line = "00000 xxh"
	}
	lines := make([]string, mask.Types)
	for i := range lines {
		lines[i] = line
	}
	return mask.New(lines)
}

func newCache(needsHue bool) *Cache {
	tiles := make([]image.Image, Count)
	for i := range tiles {
		tiles[i] = marker(4)
	}
	return New(tiles, hueTable(needsHue), effect.New())
}

func TestLayers(t *testing.T) {
	assert.Equal(t, 172, Count)
	assert.Equal(t, []Layer{Base, Overlay}, Layers[:])
	assert.Equal(t, 0, Base.Index(1))
	assert.Equal(t, 86+75, Overlay.Index(76))
	assert.Equal(t, "overlay", Overlay.String())
}

func TestQuarterTurns(t *testing.T) {
	assert.Equal(t, 0, quarterTurns(1))
	assert.Equal(t, 1, quarterTurns(2))
	assert.Equal(t, 2, quarterTurns(3))
	assert.Equal(t, 3, quarterTurns(0))
	assert.Equal(t, 2, quarterTurns(-1))
	assert.Equal(t, 0, quarterTurns(5))
}

func TestRotate(t *testing.T) {
	m := marker(4)

	tests := []struct {
		quarters int
		x, y     int
	}{
		{0, 0, 0},
		{1, 3, 0},
		{2, 3, 3},
		{3, 0, 3},
		{4, 0, 0},
		{-1, 0, 3},
	}

	for _, tt := range tests {
		out := Rotate(m, tt.quarters)
		require.Equal(t, m.Bounds(), out.Bounds(), tt.quarters)
		r, _, _, _ := out.At(tt.x, tt.y).RGBA()
		assert.Equal(t, uint32(0xffff), r, tt.quarters)
	}
}

func TestRotateKeepsCanvas(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 6, 2))
	out := Rotate(m, 1)
	assert.Equal(t, image.Rect(0, 0, 6, 2), out.Bounds())
}

func TestResolveMissing(t *testing.T) {
	tiles := make([]image.Image, Count)
	tiles[3] = image.NewNRGBA(image.Rect(0, 0, 0, 10))
	c := New(tiles, mask.Fallback(), effect.New())

	assert.Nil(t, c.Resolve(0, "0", 1))
	assert.Nil(t, c.Resolve(3, "0", 1))
	assert.Nil(t, c.Resolve(-1, "0", 1))
	assert.Nil(t, c.Resolve(Count, "0", 1))
	assert.Equal(t, 0, c.Len())
}

func TestResolveRotationPeriodic(t *testing.T) {
	c := newCache(true)

	for r := -3; r < 4; r++ {
		a := c.Resolve(5, "40", r)
		b := c.Resolve(5, "40", r+4)
		c2 := c.Resolve(5, "40", r+8)
		require.NotNil(t, a)
		assert.Equal(t, toPix(a), toPix(b), r)
		assert.Equal(t, toPix(a), toPix(c2), r)
	}
}

func TestResolveHueGating(t *testing.T) {
	c := newCache(true)

	for r := 0; r < 4; r++ {
		require.NotNil(t, c.Resolve(7, "0", r))
	}
	assert.Equal(t, 0, c.effects.Len())

	// "00" is not the literal "0" so it still goes through the effect
	c.Resolve(7, "00", 1)
	assert.Equal(t, 1, c.effects.Len())
}

func TestResolveNoHueMask(t *testing.T) {
	c := newCache(false)
	m := c.Resolve(2, "120", 1)
	assert.Same(t, c.tiles[2], m)
	assert.Equal(t, 0, c.effects.Len())
}

func TestResolveInvalidHue(t *testing.T) {
	c := newCache(true)
	m := c.Resolve(2, "zz", 1)
	assert.Same(t, c.tiles[2], m)
	assert.Equal(t, 0, c.effects.Len())
}

func TestResolveRecolors(t *testing.T) {
	c := newCache(true)

	m := c.Resolve(90, "120", 1)
	require.NotNil(t, m)
	r, g, _, _ := m.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	assert.Equal(t, uint32(0xffff), g)

	// Grayscale via the sentinel
	m = c.Resolve(90, "Infinity", 1)
	r, g, b, _ := m.At(0, 0).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestResolveMemoizes(t *testing.T) {
	c := newCache(true)

	calls := 0
	c.rotate = func(m image.Image, q int) image.Image {
		calls++
		return Rotate(m, q)
	}

	a := c.Resolve(11, "c30", 3)
	b := c.Resolve(11, "c30", 3)
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, c.Len())

	c.Resolve(11, "c30", 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, c.Len())
}

func toPix(m image.Image) []uint8 {
	b := m.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Set(x, y, m.At(b.Min.X+x, b.Min.Y+y))
		}
	}
	return out.Pix
}
