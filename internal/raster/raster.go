// Package raster provides the 8-bit grayscale buffer the grid detector works on.
package raster

import (
	"errors"
	"fmt"
	"image"

	"grid-ruler/pkg/geometry"
)

// MaxValue is the brightest sample value.
const MaxValue = 255

// ErrEmptyRaster is returned for rasters with a zero or negative dimension.
var ErrEmptyRaster = errors.New("raster: width and height must be at least 1")

// Raster is a row-major buffer of 8-bit intensity samples.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8 // len = Width*Height, stride = Width
}

// New allocates a zeroed raster.
func New(width, height int) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyRaster, width, height)
	}
	return &Raster{Width: width, Height: height, Pix: make([]uint8, width*height)}, nil
}

// Filled allocates a raster with every sample set to v.
func Filled(width, height int, v uint8) (*Raster, error) {
	r, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for i := range r.Pix {
		r.Pix[i] = v
	}
	return r, nil
}

// FromPix wraps an existing buffer. The buffer is not copied.
func FromPix(width, height int, pix []uint8) (*Raster, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrEmptyRaster, width, height)
	}
	if len(pix) != width*height {
		return nil, fmt.Errorf("raster: buffer has %d samples, want %d", len(pix), width*height)
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// FromGray copies an *image.Gray, honouring its stride and bounds origin.
func FromGray(g *image.Gray) (*Raster, error) {
	b := g.Bounds()
	r, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}
	for y := 0; y < r.Height; y++ {
		src := g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(r.Pix[y*r.Width:(y+1)*r.Width], src[:r.Width])
	}
	return r, nil
}

// Gray returns a copy of the raster as an *image.Gray anchored at the origin.
func (r *Raster) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	copy(g.Pix, r.Pix)
	return g
}

// InBounds reports whether (x, y) is a valid sample position.
func (r *Raster) InBounds(x, y int) bool {
	return x >= 0 && x < r.Width && y >= 0 && y < r.Height
}

// At returns the sample at (x, y). Positions outside the raster read as 0.
func (r *Raster) At(x, y int) uint8 {
	if !r.InBounds(x, y) {
		return 0
	}
	return r.Pix[y*r.Width+x]
}

// Set writes the sample at (x, y); out-of-range writes are ignored.
func (r *Raster) Set(x, y int, v uint8) {
	if !r.InBounds(x, y) {
		return
	}
	r.Pix[y*r.Width+x] = v
}

// Row returns the samples of row y, sharing the underlying buffer.
func (r *Raster) Row(y int) []uint8 {
	return r.Pix[y*r.Width : (y+1)*r.Width]
}

// Bounds returns the raster extent.
func (r *Raster) Bounds() geometry.RectInt {
	return geometry.RectInt{Width: r.Width, Height: r.Height}
}

// Clone returns a deep copy.
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// Crop copies the region rect (clipped to the raster) into a new raster.
func (r *Raster) Crop(rect geometry.RectInt) (*Raster, error) {
	clip := rect.Intersect(r.Bounds())
	if clip.Empty() {
		return nil, fmt.Errorf("%w: crop %+v outside %dx%d", ErrEmptyRaster, rect, r.Width, r.Height)
	}
	out, err := New(clip.Width, clip.Height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < clip.Height; y++ {
		src := r.Pix[(clip.Y+y)*r.Width+clip.X:]
		copy(out.Pix[y*out.Width:(y+1)*out.Width], src[:clip.Width])
	}
	return out, nil
}

// Histogram counts samples per intensity.
func (r *Raster) Histogram() [MaxValue + 1]int {
	var h [MaxValue + 1]int
	for _, v := range r.Pix {
		h[v]++
	}
	return h
}
