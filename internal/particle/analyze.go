package particle

import (
	"fmt"
	"image"
	"math"
	"sort"

	"grid-ruler/internal/calib"
	grimage "grid-ruler/internal/image"
	"grid-ruler/internal/raster"
	"grid-ruler/pkg/geometry"

	"gocv.io/x/gocv"
)

// Analyzer measures the particles of a binary mask.
type Analyzer struct {
	Params Params
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(p Params) *Analyzer {
	return &Analyzer{Params: p}
}

// blob accumulates the pixels of one connected component.
type blob struct {
	area       int
	sumX, sumY float64
	intDen     float64
	minX, minY int
	maxX, maxY int
	first      int // raster index of the first pixel
	perimeter  float64
	outline    []image.Point
}

// Analyze finds the 8-connected foreground components of binary, measures
// them against gray and returns those within bounds and the circularity range,
// numbered from 1. Components touching the border are kept.
func (a *Analyzer) Analyze(binary, gray *raster.Raster, bounds calib.SizeBounds) ([]Particle, error) {
	if err := a.Params.Validate(); err != nil {
		return nil, err
	}
	if binary.Width != gray.Width || binary.Height != gray.Height {
		return nil, fmt.Errorf("mask %dx%d does not match image %dx%d",
			binary.Width, binary.Height, gray.Width, gray.Height)
	}

	mask, err := grimage.RasterToMat(binary)
	if err != nil {
		return nil, fmt.Errorf("failed to convert mask: %w", err)
	}
	defer mask.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	n := gocv.ConnectedComponents(mask, &labels)
	if n < 2 {
		return nil, nil
	}
	labelPix, err := grimage.Int32s(labels)
	if err != nil {
		return nil, err
	}

	blobs := make([]*blob, n)
	w := binary.Width
	for i, label := range labelPix {
		if label == 0 {
			continue
		}
		x, y := i%w, i/w
		b := blobs[label]
		if b == nil {
			b = &blob{minX: x, minY: y, maxX: x, maxY: y, first: i}
			blobs[label] = b
		}
		b.area++
		b.sumX += float64(x) + 0.5
		b.sumY += float64(y) + 0.5
		b.intDen += float64(gray.Pix[i])
		b.minX = min(b.minX, x)
		b.maxX = max(b.maxX, x)
		b.maxY = y
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()
	for i := 0; i < contours.Size(); i++ {
		pv := contours.At(i)
		if pv.Size() == 0 {
			continue
		}
		p := pv.At(0)
		label := labelPix[p.Y*w+p.X]
		if label > 0 && blobs[label] != nil {
			blobs[label].perimeter = gocv.ArcLength(pv, true)
			blobs[label].outline = pv.ToPoints()
		}
	}

	found := make([]*blob, 0, n-1)
	for _, b := range blobs {
		if b != nil {
			found = append(found, b)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].first < found[j].first })

	var particles []Particle
	for _, b := range found {
		circ := circularity(float64(b.area), b.perimeter)
		if !bounds.Contains(float64(b.area)) || circ < a.Params.MinCircularity || circ > a.Params.MaxCircularity {
			continue
		}
		particles = append(particles, Particle{
			Index:       len(particles) + 1,
			Area:        b.area,
			Centroid:    geometry.Point2D{X: b.sumX / float64(b.area), Y: b.sumY / float64(b.area)},
			IntDen:      b.intDen,
			Perimeter:   b.perimeter,
			Outline:     b.outline,
			Circularity: circ,
			Bounds:      geometry.RectInt{X: b.minX, Y: b.minY, Width: b.maxX - b.minX + 1, Height: b.maxY - b.minY + 1},
		})
	}
	return particles, nil
}

// circularity returns 4πA/P² clamped to 1. Objects without a measurable
// perimeter count as round.
func circularity(area, perimeter float64) float64 {
	if perimeter <= 0 {
		return 1
	}
	return math.Min(1, 4*math.Pi*area/(perimeter*perimeter))
}
