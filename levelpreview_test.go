package levelpreview

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	pimage "github.com/bodgit/levelpreview/image"
	"github.com/bodgit/levelpreview/mask"
	"github.com/bodgit/levelpreview/tile"
)

var (
	red   = color.RGBA{255, 0, 0, 255}
	green = color.RGBA{0, 255, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
	gray  = color.RGBA{0x80, 0x80, 0x80, 0xff}
)

type fakeProvider struct {
	tiles   map[int]image.Image
	bg      image.Image
	bgErr   error
	mask    []string
	maskErr error
	loads   int32
}

func (p *fakeProvider) Tile(ctx context.Context, index int) (image.Image, error) {
	atomic.AddInt32(&p.loads, 1)
	if m, ok := p.tiles[index]; ok {
		return m, nil
	}
	return nil, os.ErrNotExist
}

func (p *fakeProvider) Background(ctx context.Context) (image.Image, error) {
	if p.bgErr != nil {
		return nil, p.bgErr
	}
	return p.bg, nil
}

func (p *fakeProvider) Mask(ctx context.Context) ([]string, error) {
	if p.maskErr != nil {
		return nil, p.maskErr
	}
	return p.mask, nil
}

// maskLines marks every type visible and the given 1-based types as
// needing the hue effect.
func maskLines(hue ...int) []string {
	lines := make([]string, mask.Types)
	for i := range lines {
		lines[i] = "00000 xx."
	}
	for _, t := range hue {
		lines[t-1] = "00000 xxh"
	}
	return lines
}

// newProvider returns assets where type 1 is a red tile, type 76 is blue and
// every other sprite is missing.
func newProvider() *fakeProvider {
	return &fakeProvider{
		tiles: map[int]image.Image{
			tile.Base.Index(1):  pimage.Fill(red, 60, 60),
			tile.Base.Index(76): pimage.Fill(blue, 60, 60),
		},
		bg:   pimage.Fill(gray, pimage.ScreenWidth, pimage.ScreenHeight),
		mask: maskLines(1),
	}
}

// levelCode run-length encodes a level.
func levelCode(size int, cells, rotations []int, hue, hue2 string) string {
	runs := func(values []int) []string {
		var out []string
		for i := 0; i < len(values); {
			j := i
			for j < len(values) && values[j] == values[i] {
				j++
			}
			out = append(out, strconv.Itoa(values[i]), strconv.Itoa(j-i))
			i = j
		}
		return out
	}

	parts := []string{strconv.Itoa(size)}
	parts = append(parts, runs(cells)...)
	parts = append(parts, "")
	parts = append(parts, runs(rotations)...)
	parts = append(parts, "", hue, hue2)
	return "0000000" + strings.Join(parts, "Z")
}

func filled(n, v int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// scenario is a 10 by 10 level of type 1 with the start tile at index 23.
func scenario() ([]int, []int) {
	cells := filled(100, 1)
	cells[23] = 76
	return cells, filled(100, 1)
}

var errBoom = errors.New("boom")

func rgba(m image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(m.At(x, y)).(color.RGBA)
}
