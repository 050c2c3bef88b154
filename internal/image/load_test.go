package image

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"grid-ruler/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGray(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8(i * 7)
	}
	return g
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := testGray(8, 6)

	for _, f := range []Format{FormatTIFF, FormatPNG, FormatBMP} {
		path := filepath.Join(dir, "img"+f.Extensions()[0])
		require.NoError(t, Save(path, src, f), f)

		img, err := Load(path)
		require.NoError(t, err, f)
		assert.Equal(t, src.Bounds(), img.Bounds(), f)

		gray, err := ToGray(toGrayModel(img))
		require.NoError(t, err, f)
		assert.Equal(t, src.Pix, gray.Pix, f)
	}
}

func toGrayModel(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return g
}

func TestLoadDecodeError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.tiff")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrDecode)
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.tif", "a.tiff", "c.png", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tiff"), 0755))

	files, err := ListImages(dir, FormatTIFF)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.tiff"), filepath.Join(dir, "b.tif")}, files)
}

func TestCrop(t *testing.T) {
	src := testGray(10, 10)
	sub := src.SubImage(image.Rect(2, 2, 10, 10))

	out := Crop(sub, geometry.RectInt{X: 1, Y: 1, Width: 3, Height: 2})
	assert.Equal(t, image.Rect(0, 0, 3, 2), out.Bounds())
	r, _, _, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(src.GrayAt(3, 3).Y)*0x101, r)
}

func TestToGrayCopiesGray(t *testing.T) {
	src := testGray(4, 3)
	r, err := ToGray(src)
	require.NoError(t, err)
	src.Pix[0] = 99
	assert.Equal(t, uint8(0), r.Pix[0])
}
