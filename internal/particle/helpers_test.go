package particle

import (
	"testing"

	"grid-ruler/internal/calib"
	"grid-ruler/internal/raster"

	"github.com/stretchr/testify/require"
)

// anySize accepts every particle area.
var anySize = calib.SizeBounds{MinAreaPx: 0, MaxAreaPx: 1e9}

func filled(t *testing.T, w, h int, v uint8) *raster.Raster {
	t.Helper()
	r, err := raster.Filled(w, h, v)
	require.NoError(t, err)
	return r
}

// drawDisk sets every pixel within radius of (cx, cy) to v and returns the
// number of pixels inside the raster it touched.
func drawDisk(r *raster.Raster, cx, cy, radius int, v uint8) int {
	n := 0
	for y := cy - radius; y <= cy+radius; y++ {
		for x := cx - radius; x <= cx+radius; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= radius*radius && r.InBounds(x, y) {
				r.Set(x, y, v)
				n++
			}
		}
	}
	return n
}
