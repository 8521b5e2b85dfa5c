/*
Package image implements decoding of the tile and background assets and
encoding of the finished level previews.

Assets may be PNG, GIF, JPEG or SVG; SVG documents are rasterized at the size
given by their view box. Previews are encoded as PNG, optionally reduced to a
small palette, and can be wrapped as a base64 data URL for embedding.
*/
package image

const (
	// ScreenWidth and ScreenHeight are the default preview dimensions
	ScreenWidth  = 480
	ScreenHeight = 360

	// ThumbnailWidth and ThumbnailHeight are the default scaled down
	// preview dimensions
	ThumbnailWidth  = 240
	ThumbnailHeight = 180

	maxColors = 256
)
