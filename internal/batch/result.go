package batch

import (
	"grid-ruler/internal/calib"
	"grid-ruler/internal/grid"
	"grid-ruler/internal/particle"
)

// Status is the outcome of one image.
type Status int

const (
	StatusProcessed Status = iota
	StatusNoGrid           // no grid box found, image skipped
	StatusUnreadable       // image could not be decoded, skipped
	StatusFailed           // processing error after detection
)

func (s Status) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusNoGrid:
		return "no grid"
	case StatusUnreadable:
		return "unreadable"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// ImageResult records what happened to one input image.
type ImageResult struct {
	Path        string
	Status      Status
	Detection   *grid.Detection
	Calibration calib.Calibration
	Bounds      calib.SizeBounds
	Particles   []particle.Particle
	Warnings    []string // non-fatal artifact and report write failures
	Err         error
}

// Summary aggregates a batch run. Results are in input order.
type Summary struct {
	Results    []ImageResult
	Processed  int
	NoGrid     int
	Unreadable int
	Failed     int
	Warnings   int
	Particles  int
}

func summarize(results []ImageResult) Summary {
	s := Summary{Results: results}
	for _, r := range results {
		switch r.Status {
		case StatusProcessed:
			s.Processed++
			s.Particles += len(r.Particles)
		case StatusNoGrid:
			s.NoGrid++
		case StatusUnreadable:
			s.Unreadable++
		case StatusFailed:
			s.Failed++
		}
		s.Warnings += len(r.Warnings)
	}
	return s
}
