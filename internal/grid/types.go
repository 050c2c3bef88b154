// Package grid locates a square counting-chamber grid in a grayscale raster.
//
// Detection reduces the raster to row and column mean profiles, flags sharp
// brightness drops as candidate lines, keeps the lines whose spacing matches
// the dominant square period, and picks the bounding box that spans the
// requested number of cells. The drop threshold z is swept from strict to
// permissive and the largest valid box across the sweep wins.
package grid

import (
	"errors"
	"fmt"

	"grid-ruler/pkg/geometry"
)

var (
	// ErrGridNotFound is returned when no sweep iteration yields a valid box.
	ErrGridNotFound = errors.New("grid not found")

	// ErrInvalidParams is returned for unusable detection parameters.
	ErrInvalidParams = errors.New("invalid grid parameters")
)

// BoundingBox is the grid region in pixel coordinates. X2/Y2 are the
// positions of the closing lines, so Width = X2-X1.
type BoundingBox struct {
	X1, Y1 int
	X2, Y2 int
}

// Width returns the horizontal extent in pixels.
func (b BoundingBox) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent in pixels.
func (b BoundingBox) Height() int { return b.Y2 - b.Y1 }

// IsZero reports whether b is the zero box (no grid recorded).
func (b BoundingBox) IsZero() bool { return b == BoundingBox{} }

// Aspect returns Width/Height, or 0 for a degenerate box.
func (b BoundingBox) Aspect() float64 {
	if b.Height() <= 0 {
		return 0
	}
	return float64(b.Width()) / float64(b.Height())
}

// Rect converts the box to an integer rectangle for cropping.
func (b BoundingBox) Rect() geometry.RectInt {
	return geometry.RectInt{X: b.X1, Y: b.Y1, Width: b.Width(), Height: b.Height()}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d) %dx%d", b.X1, b.Y1, b.X2, b.Y2, b.Width(), b.Height())
}

// Detection is the outcome of a successful sweep.
type Detection struct {
	Box BoundingBox
	Z   int // threshold of the winning iteration

	// Candidate lines of the winning iteration, used for masking.
	LinesX []int
	LinesY []int

	// Hits counts iterations that produced a box passing the aspect check.
	Hits int
}

// IterationTrace summarises one sweep iteration.
type IterationTrace struct {
	Z           int
	CandidatesX int
	CandidatesY int
	Samples     int
	SquareX     int
	SquareY     int
	Box         BoundingBox // candidate box, zero if none was formed
	Valid       bool        // candidate box passed the aspect check
	Accepted    bool        // candidate box replaced the running best
}
