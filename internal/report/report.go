// Package report writes the batch result tables.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"grid-ruler/internal/particle"
)

// Result file names inside the results directory.
const (
	CountFile  = "particle-count.csv"
	DetailFile = "Particle-parametres.csv"
)

var (
	countHeader  = []string{"File", "Counted particles"}
	detailHeader = []string{"File", "Particle", "Area (pixels)", "Centroid X", "Centroid Y"}
)

// Report accumulates per-image results and rewrites both tables after every
// image. It is safe for concurrent use.
type Report struct {
	mu      sync.Mutex
	dir     string
	counts  map[string]int
	details map[string][]particle.Particle
}

// New creates the results directory and an empty report writing into it.
func New(dir string) (*Report, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory: %w", err)
	}
	return &Report{
		dir:     dir,
		counts:  make(map[string]int),
		details: make(map[string][]particle.Particle),
	}, nil
}

// Dir returns the results directory.
func (r *Report) Dir() string { return r.dir }

// Add records the particles of one image and rewrites both tables. Adding the
// same file again replaces its earlier rows.
func (r *Report) Add(file string, particles []particle.Particle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counts[file] = len(particles)
	r.details[file] = append([]particle.Particle(nil), particles...)

	if err := r.writeCounts(); err != nil {
		return err
	}
	return r.writeDetails()
}

// Count returns the recorded particle count for file.
func (r *Report) Count(file string) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.counts[file]
	return n, ok
}

func (r *Report) files() []string {
	files := make([]string, 0, len(r.counts))
	for f := range r.counts {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

func (r *Report) writeCounts() error {
	rows := [][]string{countHeader}
	for _, f := range r.files() {
		rows = append(rows, []string{f, strconv.Itoa(r.counts[f])})
	}
	return writeCSV(filepath.Join(r.dir, CountFile), rows)
}

func (r *Report) writeDetails() error {
	rows := [][]string{detailHeader}
	for _, f := range r.files() {
		for _, p := range r.details[f] {
			rows = append(rows, []string{
				f,
				strconv.Itoa(p.Index),
				strconv.Itoa(p.Area),
				formatCoord(p.Centroid.X),
				formatCoord(p.Centroid.Y),
			})
		}
	}
	return writeCSV(filepath.Join(r.dir, DetailFile), rows)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", filepath.Base(path), err)
	}
	return nil
}
