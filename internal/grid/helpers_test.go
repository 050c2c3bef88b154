package grid

import (
	"testing"

	"grid-ruler/internal/raster"

	"github.com/stretchr/testify/require"
)

// gridRaster draws one-pixel dark lines just past each listed boundary, so
// the brightness drop is detected at the boundary index itself.
func gridRaster(t *testing.T, w, h int, bg, line uint8, rows, cols []int) *raster.Raster {
	t.Helper()
	r, err := raster.Filled(w, h, bg)
	require.NoError(t, err)
	for _, y := range rows {
		for x := 0; x < w; x++ {
			r.Set(x, y+1, line)
		}
	}
	for _, x := range cols {
		for y := 0; y < h; y++ {
			r.Set(x+1, y, line)
		}
	}
	return r
}

// flatProfile returns n copies of v with dips one past each index in drops.
func flatProfile(n, v int, drops map[int]int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = v
	}
	for at, depth := range drops {
		p[at+1] = v - depth
	}
	return p
}
