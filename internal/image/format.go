// Package image provides image loading, saving, grayscale conversion and
// debug overlays for grid calibration.
package image

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format identifies an image file format by its canonical extension.
type Format string

const (
	FormatTIFF Format = "tiff"
	FormatJPEG Format = "jpg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatBMP  Format = "bmp"
)

// SupportedFormats returns the formats accepted for input and output.
func SupportedFormats() []Format {
	return []Format{FormatTIFF, FormatJPEG, FormatPNG, FormatGIF, FormatBMP}
}

// ParseFormat parses a format name, accepting common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "tiff", "tif":
		return FormatTIFF, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("unsupported image format %q (want one of %s)", s, FormatList())
}

// FormatList returns the supported format names joined by ", ".
func FormatList() string {
	names := make([]string, 0, len(SupportedFormats()))
	for _, f := range SupportedFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// Extensions returns the lower-case file extensions of the format.
func (f Format) Extensions() []string {
	switch f {
	case FormatTIFF:
		return []string{".tiff", ".tif"}
	case FormatJPEG:
		return []string{".jpg", ".jpeg"}
	default:
		return []string{"." + string(f)}
	}
}

// Matches reports whether path has one of the format's extensions.
func (f Format) Matches(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range f.Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	case FormatPNG:
		return png.Encode(w, img)
	case FormatGIF:
		return gif.Encode(w, img, nil)
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return fmt.Errorf("unsupported image format %q", string(f))
}

// ArtifactName builds "<prefix><source base name>.<format>".
func ArtifactName(prefix, source string, f Format) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return prefix + base + f.Extensions()[0]
}
