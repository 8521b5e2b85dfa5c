package tile

import (
	"image"

	"github.com/disintegration/gift"
	"golang.org/x/image/draw"
)

// quarterTurns returns the number of clockwise quarter turns, in [0, 4),
// for rotation. A rotation of 1 is upright.
func quarterTurns(rotation int) int {
	return ((rotation-1)%4 + 4) % 4
}

// Rotate turns m clockwise by the given number of quarter turns about its
// center. The result always has the same dimensions as m; non-square images
// are clipped.
func Rotate(m image.Image, quarters int) image.Image {
	var f gift.Filter
	switch (quarters%4 + 4) % 4 {
	case 1:
		f = gift.Rotate270()
	case 2:
		f = gift.Rotate180()
	case 3:
		f = gift.Rotate90()
	default:
		return m
	}

	g := gift.New(f)
	rotated := image.NewNRGBA(g.Bounds(m.Bounds()))
	g.Draw(rotated, m)

	size := m.Bounds().Size()
	if rotated.Bounds().Size() == size {
		return rotated
	}

	// Re-center on a canvas of the original size
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	r := rotated.Bounds()
	at := image.Pt((size.X-r.Dx())/2, (size.Y-r.Dy())/2)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(r.Size())}, rotated, r.Min, draw.Src)

	return dst
}
