package image

import (
	"image"
	"image/color"
	"image/draw"

	"grid-ruler/internal/raster"
	"grid-ruler/pkg/geometry"
)

// Overlay colors.
var (
	LineColor     = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	BoxColor      = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	CentroidColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// Overlay renders detection results over a grayscale base image.
type Overlay struct {
	Base      *raster.Raster
	Rows      []int // horizontal lines (y positions)
	Cols      []int // vertical lines (x positions)
	Boxes     []geometry.RectInt
	Centroids []geometry.Point2D
	Opacity   float64 // line opacity (0.0 - 1.0)
}

// NewOverlay creates an Overlay with default settings.
func NewOverlay(base *raster.Raster) *Overlay {
	return &Overlay{Base: base, Opacity: 0.6}
}

// Render produces the composited RGBA image.
func (o *Overlay) Render() *image.RGBA {
	w, h := o.Base.Width, o.Base.Height
	result := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(result, result.Bounds(), o.Base.Gray(), image.Point{}, draw.Src)

	for _, y := range o.Rows {
		for x := 0; x < w; x++ {
			blendAt(result, x, y, LineColor, o.Opacity)
		}
	}
	for _, x := range o.Cols {
		for y := 0; y < h; y++ {
			blendAt(result, x, y, LineColor, o.Opacity)
		}
	}
	for _, b := range o.Boxes {
		for x := b.X; x <= b.Right(); x++ {
			blendAt(result, x, b.Y, BoxColor, 1)
			blendAt(result, x, b.Bottom(), BoxColor, 1)
		}
		for y := b.Y; y <= b.Bottom(); y++ {
			blendAt(result, b.X, y, BoxColor, 1)
			blendAt(result, b.Right(), y, BoxColor, 1)
		}
	}
	for _, c := range o.Centroids {
		cx, cy := int(c.X), int(c.Y)
		for d := -2; d <= 2; d++ {
			blendAt(result, cx+d, cy, CentroidColor, 1)
			blendAt(result, cx, cy+d, CentroidColor, 1)
		}
	}
	return result
}

// blendAt alpha-blends c over the pixel at (x, y); off-image points are skipped.
func blendAt(dst *image.RGBA, x, y int, c color.RGBA, opacity float64) {
	if !(image.Point{X: x, Y: y}).In(dst.Bounds()) {
		return
	}
	d := dst.RGBAAt(x, y)
	alpha := clamp(opacity, 0, 1)
	mix := func(s, d uint8) uint8 {
		return uint8(clamp(float64(s)*alpha+float64(d)*(1-alpha), 0, 255))
	}
	dst.SetRGBA(x, y, color.RGBA{R: mix(c.R, d.R), G: mix(c.G, d.G), B: mix(c.B, d.B), A: 255})
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
