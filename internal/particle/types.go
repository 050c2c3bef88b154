// Package particle segments the masked grid crop into a binary image and
// measures the particles in it.
package particle

import (
	"image"
	"sort"

	"grid-ruler/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// Particle is one accepted blob of the binary crop. Coordinates are in crop
// pixels.
type Particle struct {
	Index       int              // 1-based, in raster-scan order of the first pixel
	Area        int              // pixel count
	Centroid    geometry.Point2D // mean of pixel centres
	IntDen      float64          // sum of grayscale intensities under the particle
	Perimeter   float64
	Circularity float64
	Bounds      geometry.RectInt
	Outline     []image.Point // external contour, one point per boundary pixel
}

// Summary describes the area distribution of a particle set.
type Summary struct {
	Count      int
	MeanArea   float64
	StdDevArea float64
	MedianArea float64
}

// Summarize computes area statistics. StdDevArea is zero for fewer than two
// particles.
func Summarize(particles []Particle) Summary {
	s := Summary{Count: len(particles)}
	if len(particles) == 0 {
		return s
	}

	areas := make([]float64, len(particles))
	for i, p := range particles {
		areas[i] = float64(p.Area)
	}
	sort.Float64s(areas)

	s.MeanArea = stat.Mean(areas, nil)
	if len(areas) > 1 {
		s.StdDevArea = stat.StdDev(areas, nil)
	}
	s.MedianArea = stat.Quantile(0.5, stat.Empirical, areas, nil)
	return s
}
