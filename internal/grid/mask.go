package grid

import (
	"fmt"

	"grid-ruler/internal/raster"
)

// MaskLines whitens residual grid-line pixels and returns the grid crop.
// Each pixel on a winning row line that is not brighter than the pixel
// below it by more than z is set to white; column lines are then handled
// the same way against the pixel to their right. gray is not modified.
func MaskLines(gray *raster.Raster, det *Detection) (*raster.Raster, error) {
	if det == nil {
		return nil, fmt.Errorf("mask lines: %w", ErrGridNotFound)
	}
	masked := gray.Clone()
	maskRows(masked, det.LinesY, det.Z)
	maskColumns(masked, det.LinesX, det.Z)

	crop, err := masked.Crop(det.Box.Rect())
	if err != nil {
		return nil, fmt.Errorf("crop %s: %w", det.Box, err)
	}
	return crop, nil
}

func maskRows(r *raster.Raster, rows []int, z int) {
	for _, y := range rows {
		if y < 0 || y >= r.Height {
			continue
		}
		for x := 0; x < r.Width; x++ {
			if int(r.At(x, y)) <= int(r.At(x, y+1))+z {
				r.Set(x, y, raster.MaxValue)
			}
		}
	}
}

func maskColumns(r *raster.Raster, cols []int, z int) {
	for _, x := range cols {
		if x < 0 || x >= r.Width {
			continue
		}
		for y := 0; y < r.Height; y++ {
			if int(r.At(x, y)) <= int(r.At(x+1, y))+z {
				r.Set(x, y, raster.MaxValue)
			}
		}
	}
}
