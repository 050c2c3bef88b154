package report

import (
	"encoding/binary"
	"fmt"
	"image"
	"os"

	"grid-ruler/internal/particle"
	"grid-ruler/pkg/geometry"

	"github.com/klauspost/compress/zip"
)

// ROIFile is the name of the ROI archive written next to the input images.
const ROIFile = "log.zip"

// ImageJ .roi header layout.
const (
	roiMagic       = "Iout"
	roiVersion     = 228
	roiTypePolygon = 0
	roiTypeRect    = 1
	roiHeaderSize  = 64
)

func roiHeader(typ byte, bounds geometry.RectInt, n int) []byte {
	buf := make([]byte, roiHeaderSize+4*n)
	copy(buf[0:4], roiMagic)
	binary.BigEndian.PutUint16(buf[4:6], roiVersion)
	buf[6] = typ
	binary.BigEndian.PutUint16(buf[8:10], uint16(bounds.Y))
	binary.BigEndian.PutUint16(buf[10:12], uint16(bounds.X))
	binary.BigEndian.PutUint16(buf[12:14], uint16(bounds.Bottom()))
	binary.BigEndian.PutUint16(buf[14:16], uint16(bounds.Right()))
	binary.BigEndian.PutUint16(buf[16:18], uint16(n))
	return buf
}

// EncodeRect encodes a rectangle as an ImageJ .roi record.
func EncodeRect(r geometry.RectInt) []byte {
	return roiHeader(roiTypeRect, r, 0)
}

// EncodePolygon encodes an outline as an ImageJ polygon .roi record. The
// header bounds span the points; coordinates are stored relative to them,
// all x values first, then all y values.
func EncodePolygon(points []image.Point) []byte {
	if len(points) == 0 {
		return EncodeRect(geometry.RectInt{})
	}
	b := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min.X, b.Min.Y = min(b.Min.X, p.X), min(b.Min.Y, p.Y)
		b.Max.X, b.Max.Y = max(b.Max.X, p.X), max(b.Max.Y, p.Y)
	}

	n := len(points)
	buf := roiHeader(roiTypePolygon, geometry.RectFromImage(b), n)
	xs := buf[roiHeaderSize:]
	ys := buf[roiHeaderSize+2*n:]
	for i, p := range points {
		binary.BigEndian.PutUint16(xs[2*i:], uint16(p.X-b.Min.X))
		binary.BigEndian.PutUint16(ys[2*i:], uint16(p.Y-b.Min.Y))
	}
	return buf
}

// encodeParticle stores the traced outline, or the bounding rectangle when
// no outline is known.
func encodeParticle(p particle.Particle) []byte {
	if len(p.Outline) > 0 {
		return EncodePolygon(p.Outline)
	}
	return EncodeRect(p.Bounds)
}

// roiName labels an ROI by the centre of its bounds, "yyyy-xxxx".
func roiName(r geometry.RectInt) string {
	return fmt.Sprintf("%04d-%04d", r.Y+r.Height/2, r.X+r.Width/2)
}

// WriteROIs replaces the archive at path with one outline entry per
// particle.
func WriteROIs(path string, particles []particle.Particle) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create roi archive: %w", err)
	}

	zw := zip.NewWriter(f)
	seen := make(map[string]int)
	for _, p := range particles {
		name := roiName(p.Bounds)
		if n := seen[name]; n > 0 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		seen[roiName(p.Bounds)]++

		w, err := zw.Create(name + ".roi")
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to add %s: %w", name, err)
		}
		if _, err := w.Write(encodeParticle(p)); err != nil {
			f.Close()
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to finish roi archive: %w", err)
	}
	return f.Close()
}
