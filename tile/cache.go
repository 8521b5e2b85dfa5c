package tile

import (
	"image"
	"strconv"
	"sync"

	"github.com/bodgit/levelpreview/code"
	"github.com/bodgit/levelpreview/effect"
	"github.com/bodgit/levelpreview/mask"
)

// Key identifies a resolved tile raster.
type Key struct {
	Index    int
	Hue      string
	Rotation int
}

// Cache resolves and memoizes the raster for each tile index, hue and
// rotation. It is safe for concurrent use.
type Cache struct {
	tiles   []image.Image
	mask    *mask.Table
	effects *effect.Engine

	mu    sync.Mutex
	cache map[Key]image.Image

	rotate func(image.Image, int) image.Image
}

// New returns a Cache over tiles, indexed by tile index. Entries may be nil
// for tiles that could not be loaded.
func New(tiles []image.Image, table *mask.Table, effects *effect.Engine) *Cache {
	return &Cache{
		tiles:   tiles,
		mask:    table,
		effects: effects,
		cache:   make(map[Key]image.Image),
		rotate:  Rotate,
	}
}

// Source returns the effect engine source identifier for a tile index.
func Source(index int) string {
	return "tile:" + strconv.Itoa(index)
}

func (c *Cache) base(index int) image.Image {
	if index < 0 || index >= len(c.tiles) || c.tiles[index] == nil {
		return nil
	}
	if b := c.tiles[index].Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	return c.tiles[index]
}

// Resolve returns the raster for the tile index recolored by hue and rotated
// by rotation, or nil if there is no usable image for index.
//
// The hue token is only normalized to compute the size of the shift; a raw
// token of exactly "0" skips recoloring altogether, and so does a token that
// is not a number.
func (c *Cache) Resolve(index int, hue string, rotation int) image.Image {
	key := Key{Index: index, Hue: hue, Rotation: rotation}

	c.mu.Lock()
	cached, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return cached
	}

	m := c.base(index)
	if m == nil {
		return nil
	}

	if hue != "0" && c.mask.NeedsHue(index) {
		if shift, ok := code.Hue(hue); ok {
			m = c.effects.Apply(Source(index), m, shift)
		}
	}

	if rotation != 1 {
		m = c.rotate(m, quarterTurns(rotation))
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.cache[key]; ok {
		return cached
	}
	c.cache[key] = m

	return m
}

// Len returns the number of cached rasters.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
