/*
Package levelpreview renders thumbnail previews of tile based levels from
their level codes.

A Renderer loads the tile sprites, background and mask descriptor once and
then composites any number of levels, memoizing recolored and rotated tiles
for its lifetime. A LevelDB keeps a catalogue of levels and their rendered
thumbnails, and Generate renders thumbnails for a whole catalogue.
*/
package levelpreview

import (
	"context"
	"image"
	"io/ioutil"
	"log"
	"sync"

	"github.com/bodgit/levelpreview/effect"
	pimage "github.com/bodgit/levelpreview/image"
	"github.com/bodgit/levelpreview/mask"
	"github.com/bodgit/levelpreview/tile"
	"golang.org/x/image/draw"
)

// Renderer composites level previews. It is safe for concurrent use,
// although Generate gives each worker its own Renderer.
type Renderer struct {
	width, height           int
	thumbWidth, thumbHeight int
	logger                  *log.Logger
	surface                 func(image.Rectangle) draw.Image

	tiles      []image.Image
	background image.Image
	mask       *mask.Table
	loadDiags  []Diagnostic

	effects  *effect.Engine
	variants *tile.Cache

	mu          sync.Mutex
	backgrounds map[int]image.Image
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithScreenSize sets the dimensions of the rendered preview.
func WithScreenSize(w, h int) Option {
	return func(r *Renderer) {
		r.width, r.height = w, h
	}
}

// WithThumbnailSize sets the dimensions used by Thumbnail.
func WithThumbnailSize(w, h int) Option {
	return func(r *Renderer) {
		r.thumbWidth, r.thumbHeight = w, h
	}
}

// WithLogger sets the logger used to report degraded rendering.
func WithLogger(logger *log.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithSurface sets the constructor for the surface each preview is drawn
// on. The default is an *image.RGBA.
func WithSurface(f func(image.Rectangle) draw.Image) Option {
	return func(r *Renderer) {
		r.surface = f
	}
}

func newRGBA(r image.Rectangle) draw.Image {
	return image.NewRGBA(r)
}

// New returns a Renderer after loading all assets from provider. Assets that
// fail to load are replaced with fallbacks and reported by Diagnostics; an
// error is only returned if ctx is cancelled.
func New(ctx context.Context, provider AssetProvider, options ...Option) (*Renderer, error) {
	r := &Renderer{
		width:       pimage.ScreenWidth,
		height:      pimage.ScreenHeight,
		thumbWidth:  pimage.ThumbnailWidth,
		thumbHeight: pimage.ThumbnailHeight,
		logger:      log.New(ioutil.Discard, "", 0),
		surface:     newRGBA,
		backgrounds: make(map[int]image.Image),
	}
	for _, o := range options {
		o(r)
	}

	if err := r.load(ctx, provider); err != nil {
		return nil, err
	}

	r.effects = effect.New()
	r.variants = tile.New(r.tiles, r.mask, r.effects)

	return r, nil
}

// Diagnostics returns the problems found while loading assets.
func (r *Renderer) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), r.loadDiags...)
}
