package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"grid-ruler/internal/particle"
	"grid-ruler/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func sample(n int) []particle.Particle {
	ps := make([]particle.Particle, n)
	for i := range ps {
		ps[i] = particle.Particle{
			Index:    i + 1,
			Area:     10 * (i + 1),
			Centroid: geometry.Point2D{X: float64(i) + 0.5, Y: 2.25},
		}
	}
	return ps
}

func TestReportWritesTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Results")
	r, err := New(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Dir())

	require.NoError(t, r.Add("b.tif", sample(2)))
	require.NoError(t, r.Add("a.tif", sample(1)))
	require.NoError(t, r.Add("c.tif", nil))

	counts := readCSV(t, filepath.Join(dir, CountFile))
	assert.Equal(t, [][]string{
		{"File", "Counted particles"},
		{"a.tif", "1"},
		{"b.tif", "2"},
		{"c.tif", "0"},
	}, counts)

	details := readCSV(t, filepath.Join(dir, DetailFile))
	assert.Equal(t, [][]string{
		{"File", "Particle", "Area (pixels)", "Centroid X", "Centroid Y"},
		{"a.tif", "1", "10", "0.500", "2.250"},
		{"b.tif", "1", "10", "0.500", "2.250"},
		{"b.tif", "2", "20", "1.500", "2.250"},
	}, details)

	n, ok := r.Count("b.tif")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
	_, ok = r.Count("missing.tif")
	assert.False(t, ok)
}

func TestReportReplacesRepeatedFile(t *testing.T) {
	r, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, r.Add("a.tif", sample(3)))
	require.NoError(t, r.Add("a.tif", sample(1)))

	counts := readCSV(t, filepath.Join(r.Dir(), CountFile))
	assert.Equal(t, [][]string{{"File", "Counted particles"}, {"a.tif", "1"}}, counts)
	assert.Len(t, readCSV(t, filepath.Join(r.Dir(), DetailFile)), 2)
}

func TestReportConcurrentAdds(t *testing.T) {
	r, err := New(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Add(filepath.Join("img", string(rune('a'+i))+".tif"), sample(i%3)))
		}(i)
	}
	wg.Wait()

	assert.Len(t, readCSV(t, filepath.Join(r.Dir(), CountFile)), 17)
}

func TestNewFailsOnFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	_, err := New(filepath.Join(path, "Results"))
	assert.Error(t, err)
}
