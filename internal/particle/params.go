package particle

import (
	"errors"
	"fmt"
)

// ErrInvalidParams is returned by Params.Validate.
var ErrInvalidParams = errors.New("invalid particle parameters")

// Params controls segmentation and particle acceptance.
type Params struct {
	// Circularity range 4πA/P², inclusive. A disk scores 1.0.
	MinCircularity float64
	MaxCircularity float64

	// KernelSize is the side of the square structuring element used by
	// dilate and erode.
	KernelSize int

	// Watershed splits touching particles before erosion.
	Watershed bool
	// PeakFraction is the share of an object's maximum distance-to-background
	// a pixel needs to seed a watershed marker.
	PeakFraction float64
}

// DefaultParams returns the parameters used for dark particles on a bright
// grid background.
func DefaultParams() Params {
	return Params{
		MinCircularity: 0.2,
		MaxCircularity: 1.0,
		KernelSize:     3,
		Watershed:      true,
		PeakFraction:   0.75,
	}
}

// WithCircularity returns a copy of params with a custom circularity range.
func (p Params) WithCircularity(min, max float64) Params {
	p.MinCircularity = min
	p.MaxCircularity = max
	return p
}

// WithWatershed returns a copy of params with watershed splitting toggled.
func (p Params) WithWatershed(enabled bool) Params {
	p.Watershed = enabled
	return p
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.MinCircularity < 0 || p.MaxCircularity > 1 || p.MinCircularity > p.MaxCircularity {
		return fmt.Errorf("%w: circularity range [%g, %g]", ErrInvalidParams, p.MinCircularity, p.MaxCircularity)
	}
	if p.KernelSize < 1 || p.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size %d must be odd and positive", ErrInvalidParams, p.KernelSize)
	}
	if p.Watershed && (p.PeakFraction <= 0 || p.PeakFraction >= 1) {
		return fmt.Errorf("%w: peak fraction %g outside (0, 1)", ErrInvalidParams, p.PeakFraction)
	}
	return nil
}
