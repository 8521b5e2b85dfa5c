/*
Package tile implements the cache of per cell tile rasters.

There are 86 base tile types and two layers of sprites, a base layer and an
overlay layer drawn on top of it, giving 172 tile indices. A tile index is
recolored by the level hue if its base type needs it and then rotated by a
number of quarter turns.
*/
package tile

import "github.com/bodgit/levelpreview/mask"

const (
	// Count is the number of tile indices across all layers
	Count = len(Layers) * mask.Types
)

// Layer is the offset of a set of tile sprites within the tile indices.
type Layer int

// Layers in the order they are drawn.
const (
	Base    Layer = 0
	Overlay Layer = mask.Types
)

// Layers lists every Layer in drawing order.
var Layers = [...]Layer{Base, Overlay}

// Index returns the tile index for a 1-based tile type within l.
func (l Layer) Index(tileType int) int {
	return tileType - 1 + int(l)
}

func (l Layer) String() string {
	switch l {
	case Base:
		return "base"
	case Overlay:
		return "overlay"
	}
	return "unknown"
}
