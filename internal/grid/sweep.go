package grid

import (
	"fmt"

	"grid-ruler/internal/raster"
)

// scratch holds the per-iteration state of a sweep. Buffers are reused
// between iterations but are emptied by reset before each one.
type scratch struct {
	linesX  []int
	linesY  []int
	samples []spacing
	squareX []int
	squareY []int
}

func (s *scratch) reset() {
	s.linesX = s.linesX[:0]
	s.linesY = s.linesY[:0]
	s.samples = s.samples[:0]
	s.squareX = s.squareX[:0]
	s.squareY = s.squareY[:0]
}

// iterationStartHook is called with the freshly reset scratch state at the
// start of every iteration. Tests use it to observe the reset.
var iterationStartHook func(z int, s *scratch)

// Detect runs the threshold sweep over r.
func Detect(r *raster.Raster, p Params) (*Detection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return Sweep(ExtractProfiles(r), p)
}

// Sweep folds the iterations z = ZMax..ZMin into the best bounding box.
// Later iterations replace the running best only with a strictly larger
// box, so on ties the earlier, stricter threshold wins.
func Sweep(prof Profiles, p Params) (*Detection, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var (
		s    scratch
		best *Detection
		hits int
	)
	for z := p.ZMax; z >= p.ZMin; z-- {
		s.reset()
		if iterationStartHook != nil {
			iterationStartHook(z, &s)
		}

		s.linesY = appendLines(s.linesY, prof.Rows, z)
		s.linesX = appendLines(s.linesX, prof.Cols, z)
		s.samples = appendSpacings(s.samples, s.linesX, s.linesY)
		if maxX, maxY, ok := maxSpacing(s.samples); ok {
			s.squareX = appendSquareLines(s.squareX, s.linesX, maxX)
			s.squareY = appendSquareLines(s.squareY, s.linesY, maxY)
		}

		tr := IterationTrace{
			Z:           z,
			CandidatesX: len(s.linesX),
			CandidatesY: len(s.linesY),
			Samples:     len(s.samples),
			SquareX:     len(s.squareX),
			SquareY:     len(s.squareY),
		}
		if box, ok := CandidateBox(s.squareX, s.squareY, p.NumSquares); ok {
			tr.Box = box
			tr.Valid = box.ValidAspect()
		}
		if tr.Valid {
			hits++
			var current BoundingBox
			if best != nil {
				current = best.Box
			}
			if tr.Box.Supersedes(current) {
				tr.Accepted = true
				best = &Detection{
					Box:    tr.Box,
					Z:      z,
					LinesX: append([]int(nil), s.linesX...),
					LinesY: append([]int(nil), s.linesY...),
				}
			}
		}
		if p.Trace != nil {
			p.Trace(tr)
		}
	}

	if best == nil {
		return nil, fmt.Errorf("%w: no square-forming lines for z in [%d, %d]", ErrGridNotFound, p.ZMin, p.ZMax)
	}
	best.Hits = hits
	return best, nil
}
