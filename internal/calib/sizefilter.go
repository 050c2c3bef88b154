package calib

import "fmt"

// ShapeFactor stands in for π in the particle area estimate. The value 3
// is kept so counts stay comparable with earlier measurements.
const ShapeFactor = 3.0

// SizeBounds is an inclusive pixel-area range for particle filtering.
type SizeBounds struct {
	MinAreaPx float64
	MaxAreaPx float64
}

// Contains reports whether area lies inside the inclusive range.
func (b SizeBounds) Contains(area float64) bool {
	return area >= b.MinAreaPx && area <= b.MaxAreaPx
}

// DiameterToArea converts a real-world diameter to a pixel area using
// (d/2)² · ShapeFactor / AreaCoefficient.
func (c Calibration) DiameterToArea(diameter float64) float64 {
	r := 0.5 * diameter
	return r * r * ShapeFactor / c.AreaCoefficient
}

// SizeFilter turns real-world diameter limits into pixel-area bounds.
func SizeFilter(minDiameter, maxDiameter float64, c Calibration) (SizeBounds, error) {
	if c.AreaCoefficient <= 0 {
		return SizeBounds{}, fmt.Errorf("%w: area coefficient %g", ErrInvalidCalibration, c.AreaCoefficient)
	}
	if minDiameter < 0 || maxDiameter < 0 {
		return SizeBounds{}, fmt.Errorf("%w: negative diameter (%g, %g)", ErrInvalidCalibration, minDiameter, maxDiameter)
	}
	if minDiameter > maxDiameter {
		return SizeBounds{}, fmt.Errorf("%w: min diameter %g exceeds max %g", ErrInvalidCalibration, minDiameter, maxDiameter)
	}
	return SizeBounds{
		MinAreaPx: c.DiameterToArea(minDiameter),
		MaxAreaPx: c.DiameterToArea(maxDiameter),
	}, nil
}
