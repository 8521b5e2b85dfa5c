package levelpreview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	pimage "github.com/bodgit/levelpreview/image"
	"github.com/bodgit/levelpreview/mask"
	"github.com/bodgit/levelpreview/tile"
	"golang.org/x/sync/errgroup"
)

// AssetProvider supplies the assets used by a Renderer. Tile indices are
// 0-based and range over tile.Count.
type AssetProvider interface {
	Tile(ctx context.Context, index int) (image.Image, error)
	Background(ctx context.Context) (image.Image, error)
	Mask(ctx context.Context) ([]string, error)
}

const loadConcurrency = 16

var errEmpty = errors.New("image is empty")

var fallbackColor = color.RGBA{0x80, 0x80, 0x80, 0xff}

func empty(m image.Image) bool {
	return m == nil || m.Bounds().Empty()
}

func (r *Renderer) unavailable(index int, format string, v ...interface{}) {
	d := Diagnostic{
		Kind:   AssetUnavailable,
		Index:  index,
		Detail: fmt.Sprintf(format, v...),
	}
	r.loadDiags = append(r.loadDiags, d)
	r.logger.Println(d)
}

func (r *Renderer) load(ctx context.Context, provider AssetProvider) error {
	lines, err := provider.Mask(ctx)
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		r.unavailable(-1, "mask: %v, using defaults", err)
		r.mask = mask.Fallback()
	default:
		r.mask = mask.New(lines)
	}

	r.tiles = make([]image.Image, tile.Count)
	errs := make([]error, tile.Count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i := range r.tiles {
		i := i
		g.Go(func() error {
			m, err := provider.Tile(gctx, i)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				errs[i] = err
				return nil
			}
			r.tiles[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, err := range errs {
		if err != nil {
			r.unavailable(i, "tile %d: %v", i+1, err)
		}
	}

	bg, err := provider.Background(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil && empty(bg) {
		err = errEmpty
	}
	if err != nil {
		r.unavailable(-1, "background: %v, using fallback", err)
		bg = pimage.Fill(fallbackColor, r.width, r.height)
	}
	r.background = bg

	return nil
}
