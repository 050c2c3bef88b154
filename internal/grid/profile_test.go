package grid

import (
	"testing"

	"grid-ruler/internal/raster"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowProfileIntegerMean(t *testing.T) {
	r, err := raster.FromPix(3, 2, []uint8{1, 2, 4, 10, 10, 11})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 10}, RowProfile(r))
}

func TestColumnProfileSkipsLastRow(t *testing.T) {
	r, err := raster.FromPix(2, 2, []uint8{10, 20, 30, 40})
	require.NoError(t, err)
	// Only the first row is summed, divided by the full height.
	assert.Equal(t, []int{5, 10}, ColumnProfile(r))
}

func TestColumnProfileSingleRow(t *testing.T) {
	r, err := raster.Filled(3, 1, 200)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, ColumnProfile(r))
}

func TestExtractProfilesLengths(t *testing.T) {
	r, err := raster.Filled(7, 5, 100)
	require.NoError(t, err)
	p := ExtractProfiles(r)
	assert.Len(t, p.Rows, 5)
	assert.Len(t, p.Cols, 7)
	assert.Equal(t, 100, p.Rows[0])
	assert.Equal(t, 80, p.Cols[0]) // 4 rows of 100 over a height of 5
}
