package levelpreview

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/bodgit/levelpreview/code"
	pimage "github.com/bodgit/levelpreview/image"
	"github.com/bodgit/levelpreview/tile"
	"golang.org/x/image/draw"
)

const (
	windowCols = 8
	windowRows = 7
	cellSize   = 60

	// The window is positioned so the start tile is this many cells in
	// from the left and up from the bottom
	startCol = 4
	startRow = 2

	backgroundSource = "bg"
)

// ErrRender is wrapped by any error that fails a render.
var ErrRender = errors.New("levelpreview: render failed")

// Result is a rendered preview.
type Result struct {
	Image       image.Image
	Diagnostics []Diagnostic
}

// PNG encodes the preview as PNG.
func (res *Result) PNG() ([]byte, error) {
	return pimage.Bytes(res.Image)
}

// DataURL encodes the preview as a base64 PNG data URL.
func (res *Result) DataURL() (string, error) {
	b, err := res.PNG()
	if err != nil {
		return "", err
	}
	return pimage.DataURL(b), nil
}

// Paletted encodes the preview as a PNG reduced to colors colors.
func (res *Result) Paletted(colors int) ([]byte, error) {
	b := new(bytes.Buffer)
	if err := pimage.EncodePaletted(b, res.Image, colors); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// window returns the top-left level coordinates of the 8 by 7 cell window
// for a level of the given width with the start tile at index start.
func window(start, sizeX int) (int, int) {
	x := start%sizeX - startCol
	y := floorDiv(start, sizeX) - startRow
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// backgroundFor returns the background recolored by hue2 and fitted to the
// screen.
func (r *Renderer) backgroundFor(hue2 int) image.Image {
	r.mu.Lock()
	bg, ok := r.backgrounds[hue2]
	r.mu.Unlock()
	if ok {
		return bg
	}

	bg = r.fit(r.effects.Apply(backgroundSource, r.background, hue2))

	r.mu.Lock()
	defer r.mu.Unlock()
	if cached, ok := r.backgrounds[hue2]; ok {
		return cached
	}
	r.backgrounds[hue2] = bg

	return bg
}

func (r *Renderer) fit(m image.Image) image.Image {
	if m.Bounds().Dx() == r.width && m.Bounds().Dy() == r.height {
		return m
	}
	return pimage.Scale(m, r.width, r.height)
}

// cellIndex returns the level column and map index shown in the on-screen
// cell at col and row.
func cellIndex(startX, startY, col, row, sizeX int) (int, int) {
	mapX := (startX + col) % sizeX
	mapY := startY + windowRows - 1 - row
	return mapX, (mapY-1)*sizeX + mapX
}

// blitCenter draws m centered on (x, y).
func blitCenter(dst draw.Image, m image.Image, x, y int) {
	b := m.Bounds()
	at := image.Pt(x-b.Dx()/2, y-b.Dy()/2)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(b.Size())}, m, b.Min, draw.Over)
}

type compositor struct {
	*Renderer
	level *code.Level
	dst   draw.Image
	diags []Diagnostic
}

func (c *compositor) report(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// cell draws a single window cell for layer. col and row are the on-screen
// cell coordinates with row 0 at the top, while level rows are read from the
// bottom of the window upwards and are 1-based. The level wraps around
// horizontally.
func (c *compositor) cell(layer tile.Layer, startX, startY, col, row int) {
	_, i := cellIndex(startX, startY, col, row, c.level.SizeX)

	d := Diagnostic{Layer: layer, Col: col, Row: row, Index: i}

	if i < 0 || i >= len(c.level.Map) {
		d.Kind, d.Detail = BoundsViolation, fmt.Sprintf("map index %d out of range", i)
		c.report(d)
		return
	}

	t := c.level.Map[i]
	if t == code.Invalid {
		d.Kind, d.Detail = NumericFormat, fmt.Sprintf("tile type at map index %d is not a number", i)
		c.report(d)
		return
	}

	index := layer.Index(t)
	if index < 0 {
		d.Kind, d.Detail = BoundsViolation, fmt.Sprintf("negative tile index %d at map index %d", index, i)
		c.report(d)
		return
	}

	if !c.mask.Visible(index) {
		return
	}

	rotation := 1
	switch {
	case i >= len(c.level.Rotations) || c.level.Rotations[i] == code.Invalid:
		d.Kind, d.Detail = NumericFormat, fmt.Sprintf("no rotation at map index %d", i)
		c.report(d)
	default:
		rotation = c.level.Rotations[i] % 4
	}

	m := c.variants.Resolve(index, c.level.Hue, rotation)
	if m == nil {
		d.Index = index
		d.Kind, d.Detail = AssetUnavailable, fmt.Sprintf("no image for tile %d", index+1)
		c.report(d)
		return
	}

	blitCenter(c.dst, m, col*cellSize+cellSize/2, row*cellSize-cellSize/2)
}

func (c *compositor) render() {
	if _, ok := code.Hue(c.level.Hue); !ok {
		c.report(Diagnostic{Kind: NumericFormat, Index: -1, Detail: fmt.Sprintf("hue %q is not a number", c.level.Hue)})
	}

	bg := c.background
	if hue2, ok := code.Hue(c.level.Hue2); ok {
		bg = c.backgroundFor(hue2)
	} else {
		c.report(Diagnostic{Kind: NumericFormat, Index: -1, Detail: fmt.Sprintf("background hue %q is not a number", c.level.Hue2)})
		bg = c.fit(bg)
	}
	draw.Draw(c.dst, c.dst.Bounds(), bg, bg.Bounds().Min, draw.Src)

	if c.level.SizeX <= 0 {
		c.report(Diagnostic{Kind: NumericFormat, Index: -1, Detail: fmt.Sprintf("level width %d is not usable", c.level.SizeX)})
		return
	}

	start := c.level.Start()
	if start < 0 {
		c.report(Diagnostic{Kind: MissingStart, Index: -1, Detail: "no start tile, using top-left"})
	}
	startX, startY := window(start, c.level.SizeX)

	for _, layer := range tile.Layers {
		for row := 0; row < windowRows; row++ {
			for col := 0; col < windowCols; col++ {
				c.cell(layer, startX, startY, col, row)
			}
		}
	}
}

// Render composites a preview of level. The Result always holds a complete
// image; cells or assets that could not be drawn are skipped and reported in
// its Diagnostics. Any unexpected failure returns an error wrapping
// ErrRender and leaves the Renderer usable.
func (r *Renderer) Render(level *code.Level) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrRender, p)
		}
	}()

	if level == nil {
		return nil, fmt.Errorf("%w: no level", ErrRender)
	}

	c := compositor{
		Renderer: r,
		level:    level,
		dst:      r.surface(image.Rect(0, 0, r.width, r.height)),
	}
	c.diags = DecodeDiagnostics(level, nil)
	c.render()

	if len(c.diags) > 0 {
		r.logger.Printf("Rendered level with %d problem(s), first: %s\n", len(c.diags), c.diags[0])
	}

	return &Result{
		Image:       c.dst,
		Diagnostics: c.diags,
	}, nil
}

// RenderCode decodes and renders a level code. Decode problems are
// reported as diagnostics rather than failing the render.
func (r *Renderer) RenderCode(s string) (*Result, error) {
	level, err := code.Decode(s)
	res, rerr := r.Render(level)
	if rerr != nil {
		return nil, rerr
	}
	if err != nil {
		res.Diagnostics = append(DecodeDiagnostics(nil, err), res.Diagnostics...)
	}
	return res, nil
}

// RenderLevelImage renders level and returns it as a base64 PNG data URL.
func (r *Renderer) RenderLevelImage(level *code.Level) (string, []Diagnostic, error) {
	res, err := r.Render(level)
	if err != nil {
		return "", nil, err
	}
	s, err := res.DataURL()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return s, res.Diagnostics, nil
}

// Thumbnail renders level scaled down to the thumbnail size.
func (r *Renderer) Thumbnail(level *code.Level) (*Result, error) {
	res, err := r.Render(level)
	if err != nil {
		return nil, err
	}
	res.Image = pimage.Scale(res.Image, r.thumbWidth, r.thumbHeight)
	return res, nil
}
