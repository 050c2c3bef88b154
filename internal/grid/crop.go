package grid

const (
	minAspect = 0.9
	maxAspect = 1.2
)

// CandidateBox spans numSquares cells using the first square line and the
// closing line of the numSquares-th pair on each axis.
func CandidateBox(squareX, squareY []int, numSquares int) (BoundingBox, bool) {
	need := numSquares * 2
	if numSquares < 1 || len(squareX) < need || len(squareY) < need {
		return BoundingBox{}, false
	}
	return BoundingBox{
		X1: squareX[0],
		X2: squareX[need-1],
		Y1: squareY[0],
		Y2: squareY[need-1],
	}, true
}

// ValidAspect reports whether Width/Height lies strictly inside (0.9, 1.2).
func (b BoundingBox) ValidAspect() bool {
	if b.Width() <= 0 || b.Height() <= 0 {
		return false
	}
	a := b.Aspect()
	return a > minAspect && a < maxAspect
}

// Supersedes reports whether b should replace best: it must be at least as
// wide and as tall, and strictly larger in one dimension. Any non-degenerate
// box supersedes the zero box.
func (b BoundingBox) Supersedes(best BoundingBox) bool {
	w, h := b.Width(), b.Height()
	bw, bh := best.Width(), best.Height()
	return w >= bw && h >= bh && (w > bw || h > bh)
}

// SelectBox forms the candidate box for one iteration and decides whether it
// replaces best. It returns the box to keep and whether it changed.
func SelectBox(squareX, squareY []int, numSquares int, best BoundingBox) (BoundingBox, bool) {
	box, ok := CandidateBox(squareX, squareY, numSquares)
	if !ok || !box.ValidAspect() || !box.Supersedes(best) {
		return best, false
	}
	return box, true
}
