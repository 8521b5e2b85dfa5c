/*
Package assets loads the tile sprites, background and mask descriptor used
to render level previews from a directory laid out as:

	MASK.txt
	bg.svg
	tiles/1.svg ... tiles/172.svg

Each image may alternatively be a PNG, tried when the SVG is missing.
*/
package assets

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"

	pimage "github.com/bodgit/levelpreview/image"
	"github.com/bodgit/levelpreview/mask"
)

const (
	// DefaultTiles is the directory holding the tile sprites
	DefaultTiles = "tiles"
	// DefaultBackground is the background image
	DefaultBackground = "bg.svg"
	// DefaultMask is the mask descriptor
	DefaultMask = "MASK.txt"
)

var extensions = []string{".svg", ".png"}

// Dir loads assets from a directory.
type Dir struct {
	Root           string
	Tiles          string
	BackgroundFile string
	MaskFile       string
}

// New returns a Dir rooted at root using the default layout.
func New(root string) *Dir {
	return &Dir{
		Root:           root,
		Tiles:          DefaultTiles,
		BackgroundFile: DefaultBackground,
		MaskFile:       DefaultMask,
	}
}

func (d *Dir) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.Root, name)
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := pimage.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

// decodeAny decodes the first of base plus each extension that exists.
func decodeAny(base string) (image.Image, error) {
	var err error
	for _, ext := range extensions {
		var m image.Image
		if m, err = decodeFile(base + ext); err == nil {
			return m, nil
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return nil, err
}

// Tile loads the sprite for the 0-based tile index, stored on disk with a
// 1-based filename.
func (d *Dir) Tile(ctx context.Context, index int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return decodeAny(filepath.Join(d.path(d.Tiles), strconv.Itoa(index+1)))
}

// Background loads the background image.
func (d *Dir) Background(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file := d.path(d.BackgroundFile)
	m, err := decodeFile(file)
	if os.IsNotExist(err) {
		ext := filepath.Ext(file)
		return decodeAny(file[:len(file)-len(ext)])
	}
	return m, err
}

// Mask loads the mask descriptor lines.
func (d *Dir) Mask(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(d.path(d.MaskFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return mask.Read(f)
}
