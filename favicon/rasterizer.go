package favicon

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Rasterizer converts a vector source into a square PNG of the given size
type Rasterizer interface {
	Rasterize(path string, size int) ([]byte, error)
}

// SVGRasterizer renders SVG files with oksvg
type SVGRasterizer struct{}

// Rasterize reads the SVG at path and returns PNG bytes of exactly size x size pixels.
// The view box is scaled to fit and centered, so non-square sources keep their aspect ratio.
// Sources without a viewBox or width/height have no size to scale from and are rejected.
func (SVGRasterizer) Rasterize(path string, size int) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}

	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SVG file: %w", err)
	}
	defer in.Close()

	icon, err := oksvg.ReadIconStream(in)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SVG: %w", err)
	}

	w, h := icon.ViewBox.W, icon.ViewBox.H
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG has no viewBox or width/height")
	}

	scale := float64(size) / max(w, h)
	outW := int(math.Round(w * scale))
	outH := int(math.Round(h * scale))
	offsetX := (size - outW) / 2
	offsetY := (size - outH) / 2
	icon.SetTarget(float64(offsetX), float64(offsetY), float64(outW), float64(outH))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	return buf.Bytes(), nil
}
