package grid

import "fmt"

// Params controls grid detection.
type Params struct {
	// NumSquares is the number of cells the crop spans on each axis.
	NumSquares int

	// ZMax and ZMin bound the brightness-drop sweep, visited high to low.
	ZMax int
	ZMin int

	// Trace, when set, is called once per sweep iteration.
	Trace func(IterationTrace)
}

// DefaultParams returns the parameters used for Bürker-type chambers.
func DefaultParams() Params {
	return Params{
		NumSquares: 4,
		ZMax:       10,
		ZMin:       2,
	}
}

// WithNumSquares returns a copy of p spanning n cells.
func (p Params) WithNumSquares(n int) Params {
	p.NumSquares = n
	return p
}

// WithSweep returns a copy of p with a custom threshold range.
func (p Params) WithSweep(zMax, zMin int) Params {
	p.ZMax = zMax
	p.ZMin = zMin
	return p
}

// WithTrace returns a copy of p reporting each iteration to fn.
func (p Params) WithTrace(fn func(IterationTrace)) Params {
	p.Trace = fn
	return p
}

// Iterations returns how many thresholds the sweep visits.
func (p Params) Iterations() int {
	if p.ZMax < p.ZMin {
		return 0
	}
	return p.ZMax - p.ZMin + 1
}

// Validate checks the parameter ranges.
func (p Params) Validate() error {
	if p.NumSquares < 1 {
		return fmt.Errorf("%w: num squares must be at least 1, got %d", ErrInvalidParams, p.NumSquares)
	}
	if p.ZMin < 0 {
		return fmt.Errorf("%w: z min must be non-negative, got %d", ErrInvalidParams, p.ZMin)
	}
	if p.ZMax < p.ZMin {
		return fmt.Errorf("%w: z max %d below z min %d", ErrInvalidParams, p.ZMax, p.ZMin)
	}
	return nil
}
