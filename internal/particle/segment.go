package particle

import (
	"fmt"
	"image"
	"image/color"

	grimage "grid-ruler/internal/image"
	"grid-ruler/internal/raster"

	"gocv.io/x/gocv"
)

// Segmenter turns a masked grayscale crop into a 0/255 particle mask.
type Segmenter struct {
	Params Params
}

// NewSegmenter creates a Segmenter.
func NewSegmenter(p Params) *Segmenter {
	return &Segmenter{Params: p}
}

// Segment thresholds crop with MaxEntropy (dark pixels become foreground),
// then dilates, fills holes, optionally splits touching particles with a
// watershed and erodes.
func (s *Segmenter) Segment(crop *raster.Raster) (*raster.Raster, error) {
	if err := s.Params.Validate(); err != nil {
		return nil, err
	}

	threshold := MaxEntropy(crop.Histogram())
	if threshold < 0 {
		return raster.New(crop.Width, crop.Height)
	}

	src, err := grimage.RasterToMat(crop)
	if err != nil {
		return nil, fmt.Errorf("failed to convert crop: %w", err)
	}
	defer src.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(src, &mask, float32(threshold), raster.MaxValue, gocv.ThresholdBinaryInv)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{s.Params.KernelSize, s.Params.KernelSize})
	defer kernel.Close()

	gocv.Dilate(mask, &mask, kernel)

	filled := FillHoles(mask)
	defer filled.Close()

	if s.Params.Watershed {
		if err := splitTouching(&filled, s.Params.PeakFraction); err != nil {
			return nil, fmt.Errorf("watershed failed: %w", err)
		}
	}

	gocv.Erode(filled, &filled, kernel)

	return grimage.MatToRaster(filled)
}

// FillHoles fills every external contour of a binary mask.
func FillHoles(mask gocv.Mat) gocv.Mat {
	if mask.Empty() {
		return gocv.NewMat()
	}

	filled := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), mask.Rows(), mask.Cols(), gocv.MatTypeCV8U)
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		gocv.DrawContours(&filled, contours, i, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
	}

	return filled
}

// Watershed marker labels.
const (
	markerUnknown    = 0
	markerBackground = 1
	markerBoundary   = -1
)

// splitTouching cuts one-pixel lines between touching objects of mask in
// place. Each object is seeded by its pixels whose distance to background
// reaches peakFraction of that object's maximum; objects with a single seed
// are left intact.
func splitTouching(mask *gocv.Mat, peakFraction float64) error {
	rows, cols := mask.Rows(), mask.Cols()

	dist := gocv.NewMat()
	defer dist.Close()
	dtLabels := gocv.NewMat()
	defer dtLabels.Close()
	gocv.DistanceTransform(*mask, &dist, &dtLabels, gocv.DistL2, gocv.DistanceMask5, gocv.DistanceLabelCComp)

	objects := gocv.NewMat()
	defer objects.Close()
	nObjects := gocv.ConnectedComponents(*mask, &objects)
	if nObjects < 2 {
		return nil
	}

	distPix, err := dist.DataPtrFloat32()
	if err != nil {
		return err
	}
	objPix, err := grimage.Int32s(objects)
	if err != nil {
		return err
	}

	peakDist := make([]float32, nObjects)
	for i, label := range objPix {
		if label > 0 && distPix[i] > peakDist[label] {
			peakDist[label] = distPix[i]
		}
	}

	seeds := make([]byte, rows*cols)
	for i, label := range objPix {
		if label > 0 && distPix[i] >= float32(peakFraction)*peakDist[label] {
			seeds[i] = raster.MaxValue
		}
	}
	seedMat, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC1, seeds)
	if err != nil {
		return err
	}
	defer seedMat.Close()

	markers := gocv.NewMat()
	defer markers.Close()
	gocv.ConnectedComponents(seedMat, &markers)
	markerPix, err := grimage.Int32s(markers)
	if err != nil {
		return err
	}
	for i, seed := range markerPix {
		switch {
		case objPix[i] == 0:
			markerPix[i] = markerBackground
		case seed > 0:
			markerPix[i] = seed + markerBackground
		default:
			markerPix[i] = markerUnknown
		}
	}

	if err := grimage.SetInt32s(&markers, markerPix); err != nil {
		return err
	}

	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(*mask, &bgr, gocv.ColorGrayToBGR)
	gocv.Watershed(bgr, &markers)

	markerPix, err = grimage.Int32s(markers)
	if err != nil {
		return err
	}

	maskPix, err := mask.DataPtrUint8()
	if err != nil {
		return err
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			i := y*cols + x
			if markerPix[i] == markerBoundary && maskPix[i] != 0 && separatesObjects(markerPix, rows, cols, x, y) {
				maskPix[i] = 0
			}
		}
	}
	return nil
}

// separatesObjects reports whether the 8-neighbourhood of (x, y) holds two
// different object labels.
func separatesObjects(labels []int32, rows, cols, x, y int) bool {
	var seen int32
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= cols || ny >= rows {
				continue
			}
			l := labels[ny*cols+nx]
			if l <= markerBackground {
				continue
			}
			if seen == 0 {
				seen = l
			} else if l != seen {
				return true
			}
		}
	}
	return false
}
