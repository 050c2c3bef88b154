package image

import (
	"fmt"
	"image"

	"grid-ruler/internal/raster"

	"gocv.io/x/gocv"
)

// ImageToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return gocv.NewMat(), fmt.Errorf("empty image")
	}

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}

// RasterToMat copies a raster into a single-channel 8-bit Mat.
func RasterToMat(r *raster.Raster) (gocv.Mat, error) {
	pix := make([]byte, len(r.Pix))
	copy(pix, r.Pix)
	return gocv.NewMatFromBytes(r.Height, r.Width, gocv.MatTypeCV8UC1, pix)
}

// MatToRaster copies a single-channel 8-bit Mat into a raster.
func MatToRaster(m gocv.Mat) (*raster.Raster, error) {
	if m.Empty() {
		return nil, raster.ErrEmptyRaster
	}
	if m.Type() != gocv.MatTypeCV8UC1 {
		return nil, fmt.Errorf("expected 8-bit single channel mat, got type %v", m.Type())
	}
	return raster.FromPix(m.Cols(), m.Rows(), m.ToBytes())
}

// Int32s copies a single-channel 32-bit label Mat into a row-major slice.
func Int32s(m gocv.Mat) ([]int32, error) {
	if m.Type() != gocv.MatTypeCV32SC1 {
		return nil, fmt.Errorf("expected 32-bit single channel mat, got type %v", m.Type())
	}
	rows, cols := m.Rows(), m.Cols()
	pix := make([]int32, rows*cols)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			pix[y*cols+x] = m.GetIntAt(y, x)
		}
	}
	return pix, nil
}

// SetInt32s writes a row-major slice back into a single-channel 32-bit Mat.
func SetInt32s(m *gocv.Mat, pix []int32) error {
	if m.Type() != gocv.MatTypeCV32SC1 {
		return fmt.Errorf("expected 32-bit single channel mat, got type %v", m.Type())
	}
	rows, cols := m.Rows(), m.Cols()
	if len(pix) != rows*cols {
		return fmt.Errorf("have %d labels for a %dx%d mat", len(pix), cols, rows)
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			m.SetIntAt(y, x, pix[y*cols+x])
		}
	}
	return nil
}

// ToGray converts img to an 8-bit grayscale raster. Gray images are copied
// directly; everything else goes through OpenCV's BGR to gray conversion.
func ToGray(img image.Image) (*raster.Raster, error) {
	if g, ok := img.(*image.Gray); ok {
		return raster.FromGray(g)
	}

	bgr, err := ImageToMat(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	return MatToRaster(gray)
}

// Grayscaler converts decoded images with ToGray.
type Grayscaler struct{}

// Gray implements the batch runner's grayscale collaborator.
func (Grayscaler) Gray(img image.Image) (*raster.Raster, error) {
	return ToGray(img)
}
