package calib

import (
	"testing"

	"grid-ruler/internal/grid"
	"grid-ruler/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalibrateUsesShorterSide(t *testing.T) {
	c, err := Calibrate(1000, 200, 210, "")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.UnitSize, 1e-12)
	assert.InDelta(t, 25.0, c.AreaCoefficient, 1e-12)
	assert.Equal(t, DefaultUnit, c.Unit)

	c, err = Calibrate(1000, 210, 200, "µm")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.UnitSize, 1e-12)
	assert.Equal(t, "µm", c.Unit)
}

func TestCalibrateErrors(t *testing.T) {
	tests := []struct {
		name     string
		gridSize float64
		w, h     int
	}{
		{"zero grid", 0, 100, 100},
		{"negative grid", -5, 100, 100},
		{"zero width", 100, 0, 100},
		{"negative height", 100, 100, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calibrate(tt.gridSize, tt.w, tt.h, "nm")
			assert.ErrorIs(t, err, ErrInvalidCalibration)
		})
	}
}

func TestCalibrationConversions(t *testing.T) {
	c, err := Calibrate(50, 100, 100, "nm")
	require.NoError(t, err)
	assert.InDelta(t, 5.0, c.ToReal(10), 1e-12)
	assert.InDelta(t, 2.5, c.AreaToReal(10), 1e-12)
	assert.Equal(t, "0.5000 nm/px", c.String())
}

func TestDetectedGridCalibration(t *testing.T) {
	// Four 50px cells between lines at 20..220 on a 260px frame.
	lines := []int{20, 70, 120, 170, 220}
	r, err := raster.Filled(260, 260, 200)
	require.NoError(t, err)
	for _, p := range lines {
		for i := 0; i < 260; i++ {
			r.Set(i, p+1, 184)
			r.Set(p+1, i, 184)
		}
	}

	det, err := grid.Detect(r, grid.DefaultParams())
	require.NoError(t, err)
	crop, err := grid.MaskLines(r, det)
	require.NoError(t, err)

	for _, gridSize := range []float64{50, 1000, 1234.5} {
		c, err := Calibrate(gridSize, crop.Width, crop.Height, "nm")
		require.NoError(t, err)
		assert.InDelta(t, gridSize/200, c.UnitSize, 1e-9)
	}
}
