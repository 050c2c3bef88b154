package grid

const (
	minSpacingRatio = 0.8
	maxSpacingRatio = 1.2

	// A line pair survives when its gap is this fraction of the period.
	periodFraction = 0.75
)

// spacing is one pair of neighbouring-line gaps whose ratio is near square.
type spacing struct {
	x, y float64
}

// FilterSquares keeps the candidate lines that bound cells of the dominant
// square period. Each surviving pair (line[i], line[i+1]) is appended as two
// entries, so the result may repeat interior lines.
func FilterSquares(linesX, linesY []int) (squareX, squareY []int) {
	samples := appendSpacings(nil, linesX, linesY)
	maxX, maxY, ok := maxSpacing(samples)
	if !ok {
		return nil, nil
	}
	return appendSquareLines(nil, linesX, maxX), appendSquareLines(nil, linesY, maxY)
}

// appendSpacings pairs every Y gap with every X gap and keeps the pairs
// whose ratio lies strictly between 0.8 and 1.2.
func appendSpacings(dst []spacing, linesX, linesY []int) []spacing {
	if len(linesX) == 0 || len(linesY) == 0 {
		return dst
	}
	for i := 0; i+1 < len(linesY); i++ {
		gapY := float64(linesY[i+1] - linesY[i])
		for j := 0; j+1 < len(linesX); j++ {
			gapX := float64(linesX[j+1] - linesX[j])
			ratio := gapX / gapY
			if ratio > minSpacingRatio && ratio < maxSpacingRatio {
				dst = append(dst, spacing{x: gapX, y: gapY})
			}
		}
	}
	return dst
}

// maxSpacing returns the largest kept gap per axis.
func maxSpacing(samples []spacing) (maxX, maxY float64, ok bool) {
	if len(samples) == 0 {
		return 0, 0, false
	}
	for _, s := range samples {
		if s.x > maxX {
			maxX = s.x
		}
		if s.y > maxY {
			maxY = s.y
		}
	}
	return maxX, maxY, true
}

func appendSquareLines(dst, lines []int, maxGap float64) []int {
	if maxGap <= 0 {
		return dst
	}
	for i := 0; i+1 < len(lines); i++ {
		gap := float64(lines[i+1] - lines[i])
		if gap/maxGap > periodFraction {
			dst = append(dst, lines[i], lines[i+1])
		}
	}
	return dst
}
