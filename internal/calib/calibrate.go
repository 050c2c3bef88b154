// Package calib converts between pixel and real-world measurements.
package calib

import (
	"errors"
	"fmt"
)

// DefaultUnit labels real-world lengths when none is configured.
const DefaultUnit = "nm"

// ErrInvalidCalibration is returned for non-positive sizes or dimensions.
var ErrInvalidCalibration = errors.New("invalid calibration")

// Calibration maps pixels to real units.
type Calibration struct {
	UnitSize        float64 // real units per pixel
	AreaCoefficient float64 // UnitSize², real area per pixel
	Unit            string
}

// Calibrate derives the unit size from the real grid size and the crop's
// shorter side.
func Calibrate(gridSize float64, cropWidth, cropHeight int, unit string) (Calibration, error) {
	if gridSize <= 0 {
		return Calibration{}, fmt.Errorf("%w: grid size must be positive, got %g", ErrInvalidCalibration, gridSize)
	}
	if cropWidth <= 0 || cropHeight <= 0 {
		return Calibration{}, fmt.Errorf("%w: crop is %dx%d", ErrInvalidCalibration, cropWidth, cropHeight)
	}
	if unit == "" {
		unit = DefaultUnit
	}
	side := min(cropWidth, cropHeight)
	unitSize := gridSize / float64(side)
	return Calibration{
		UnitSize:        unitSize,
		AreaCoefficient: unitSize * unitSize,
		Unit:            unit,
	}, nil
}

// ToReal converts a pixel length to real units.
func (c Calibration) ToReal(pixels float64) float64 {
	return pixels * c.UnitSize
}

// AreaToReal converts a pixel area to real units squared.
func (c Calibration) AreaToReal(pixels float64) float64 {
	return pixels * c.AreaCoefficient
}

func (c Calibration) String() string {
	return fmt.Sprintf("%.4f %s/px", c.UnitSize, c.Unit)
}
