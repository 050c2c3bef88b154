package particle

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const entropyEps = 2.220446049250313e-16

// MaxEntropy returns the Kapur-Sahoo-Wong maximum entropy threshold of an
// 8-bit histogram. Pixels <= threshold form one class. It returns -1 when the
// histogram has fewer than two occupied bins.
func MaxEntropy(hist [256]int) int {
	data := make([]float64, len(hist))
	for i, c := range hist {
		data[i] = float64(c)
	}
	total := floats.Sum(data)
	if total == 0 {
		return -1
	}

	norm := make([]float64, len(data))
	copy(norm, data)
	floats.Scale(1/total, norm)

	p1 := make([]float64, len(norm))
	floats.CumSum(p1, norm)
	p2 := make([]float64, len(norm))
	for i := range p1 {
		p2[i] = 1 - p1[i]
	}

	first := -1
	for i := range p1 {
		if math.Abs(p1[i]) >= entropyEps {
			first = i
			break
		}
	}
	last := -1
	for i := len(p2) - 1; i >= first; i-- {
		if math.Abs(p2[i]) >= entropyEps {
			last = i
			break
		}
	}
	if first < 0 || last < first {
		return -1
	}

	threshold := first
	best := math.Inf(-1)
	for it := first; it <= last; it++ {
		var back, obj float64
		for i := 0; i <= it; i++ {
			if hist[i] != 0 {
				q := norm[i] / p1[it]
				back -= q * math.Log(q)
			}
		}
		for i := it + 1; i < len(norm); i++ {
			if hist[i] != 0 {
				q := norm[i] / p2[it]
				obj -= q * math.Log(q)
			}
		}
		if tot := back + obj; tot > best {
			best = tot
			threshold = it
		}
	}
	return threshold
}
