package image

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	errEmptySVG = errors.New("image: svg has no size")

	// ErrUnsupported is returned for assets in an unknown format
	ErrUnsupported = errors.New("image: unsupported format")
)

const sniffLength = 512

func isSVG(b []byte) bool {
	b = bytes.TrimSpace(b)
	return bytes.HasPrefix(b, []byte("<svg")) ||
		(bytes.HasPrefix(b, []byte("<?xml")) && bytes.Contains(b, []byte("<svg"))) ||
		(bytes.HasPrefix(b, []byte("<!")) && bytes.Contains(b, []byte("<svg")))
}

func decodeSVG(r io.Reader) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 || h <= 0 {
		return nil, errEmptySVG
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	m := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.Draw(rasterx.NewDasher(w, h, rasterx.NewScannerGV(w, h, m, m.Bounds())), 1)

	return m, nil
}

// Decode reads an asset from r. The format is detected from the content
// rather than any file extension.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReaderSize(r, sniffLength)
	b, err := br.Peek(sniffLength)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, err
	}

	if isSVG(b) {
		return decodeSVG(br)
	}

	m, _, err := image.Decode(br)
	if err == image.ErrFormat {
		return nil, ErrUnsupported
	}
	return m, err
}
