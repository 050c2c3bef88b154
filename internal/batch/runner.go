// Package batch runs grid calibration and particle analysis over a folder of
// images.
package batch

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"grid-ruler/internal/calib"
	"grid-ruler/internal/config"
	"grid-ruler/internal/grid"
	grimage "grid-ruler/internal/image"
	"grid-ruler/internal/particle"
	"grid-ruler/internal/raster"
	"grid-ruler/internal/report"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// ResultsDir is the folder created inside the input directory.
const ResultsDir = "Results"

// Artifact file name prefixes.
const (
	PrefixOriginal  = "cropped_original_"
	PrefixGrayscale = "grayscale_"
	PrefixBinary    = "binary_"
)

// Grayscaler converts a decoded image to 8-bit intensities.
type Grayscaler interface {
	Gray(img image.Image) (*raster.Raster, error)
}

// Segmenter binarizes a masked crop; foreground is 255.
type Segmenter interface {
	Segment(crop *raster.Raster) (*raster.Raster, error)
}

// Analyzer extracts the particles of a binary crop.
type Analyzer interface {
	Analyze(binary, gray *raster.Raster, bounds calib.SizeBounds) ([]particle.Particle, error)
}

// Collaborators bundles the per-image processing stages.
type Collaborators struct {
	Grayscaler Grayscaler
	Segmenter  Segmenter
	Analyzer   Analyzer
}

// DefaultCollaborators returns the OpenCV-backed stages.
func DefaultCollaborators() Collaborators {
	p := particle.DefaultParams()
	return Collaborators{
		Grayscaler: grimage.Grayscaler{},
		Segmenter:  particle.NewSegmenter(p),
		Analyzer:   particle.NewAnalyzer(p),
	}
}

// Runner processes every matching image of the configured input folder.
type Runner struct {
	cfg    config.Config
	stages Collaborators
	logger *log.Logger

	report *report.Report
	roiMu  sync.Mutex
}

// NewRunner validates cfg and prepares the results directory.
func NewRunner(cfg config.Config, stages Collaborators, logger *log.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if stages.Grayscaler == nil || stages.Segmenter == nil || stages.Analyzer == nil {
		return nil, errors.New("batch: all collaborators are required")
	}
	if logger == nil {
		logger = log.Default()
	}

	rep, err := report.New(filepath.Join(cfg.InputDir, ResultsDir))
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, stages: stages, logger: logger, report: rep}, nil
}

// Report returns the report the runner writes into.
func (r *Runner) Report() *report.Report { return r.report }

// Run processes the input folder with up to cfg.WorkerCount() images in
// flight. Per-image failures are recorded in the summary; only cancellation
// and listing errors are returned.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	files, err := grimage.ListImages(r.cfg.InputDir, r.cfg.InputFormat())
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list %s: %w", r.cfg.InputDir, err)
	}
	r.logger.Info("Starting batch", "dir", r.cfg.InputDir, "images", len(files), "workers", r.cfg.WorkerCount())

	results := make([]ImageResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.WorkerCount())

	for i, path := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.ProcessImage(gctx, path)
			return nil
		})
	}

	err = g.Wait()
	done := results[:0]
	for _, res := range results {
		if res.Path != "" {
			done = append(done, res)
		}
	}
	summary := summarize(done)

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		r.logger.Warn("Batch interrupted", "processed", summary.Processed, "remaining", len(files)-len(done))
		return summary, err
	}

	r.logger.Info("Batch complete",
		"processed", summary.Processed,
		"no_grid", summary.NoGrid,
		"unreadable", summary.Unreadable,
		"failed", summary.Failed,
		"particles", summary.Particles,
		"warnings", summary.Warnings)
	return summary, nil
}

// ProcessImage runs the full pipeline for one image: detect the grid, mask
// its lines, calibrate, segment, analyze, then write artifacts and report
// rows.
func (r *Runner) ProcessImage(ctx context.Context, path string) ImageResult {
	name := filepath.Base(path)
	logger := r.logger.With("file", name)
	res := ImageResult{Path: path}

	img, err := grimage.Load(path)
	if err != nil {
		logger.Warn("Skipping unreadable image", "err", err)
		res.Status, res.Err = StatusUnreadable, err
		return res
	}

	gray, err := r.stages.Grayscaler.Gray(img)
	if err != nil {
		return r.fail(logger, res, fmt.Errorf("grayscale conversion: %w", err))
	}

	params := r.cfg.GridParams().WithTrace(func(tr grid.IterationTrace) {
		logger.Debug("Sweep iteration",
			"z", tr.Z,
			"lines_x", tr.CandidatesX,
			"lines_y", tr.CandidatesY,
			"square_x", tr.SquareX,
			"square_y", tr.SquareY,
			"box", tr.Box,
			"valid", tr.Valid,
			"accepted", tr.Accepted)
	})
	logger.Debug("Sweeping", "z_max", params.ZMax, "z_min", params.ZMin, "iterations", params.Iterations())
	det, err := grid.Detect(gray, params)
	if errors.Is(err, grid.ErrGridNotFound) {
		logger.Warn("No grid found, skipping", "err", err)
		res.Status, res.Err = StatusNoGrid, err
		return res
	}
	if err != nil {
		return r.fail(logger, res, err)
	}
	res.Detection = det
	logger.Debug("Grid detected", "box", det.Box, "z", det.Z, "hits", det.Hits)

	masked, err := grid.MaskLines(gray, det)
	if err != nil {
		return r.fail(logger, res, fmt.Errorf("masking grid lines: %w", err))
	}

	cal, err := calib.Calibrate(r.cfg.GridSize, masked.Width, masked.Height, r.cfg.Unit)
	if err != nil {
		return r.fail(logger, res, err)
	}
	res.Calibration = cal

	bounds, err := calib.SizeFilter(r.cfg.MinDiameter, r.cfg.MaxDiameter, cal)
	if err != nil {
		return r.fail(logger, res, err)
	}
	res.Bounds = bounds

	if err := ctx.Err(); err != nil {
		return r.fail(logger, res, err)
	}

	binary, err := r.stages.Segmenter.Segment(masked)
	if err != nil {
		return r.fail(logger, res, fmt.Errorf("segmentation: %w", err))
	}

	particles, err := r.stages.Analyzer.Analyze(binary, masked, bounds)
	if err != nil {
		return r.fail(logger, res, fmt.Errorf("particle analysis: %w", err))
	}
	res.Particles = particles
	res.Status = StatusProcessed

	res.Warnings = append(res.Warnings, r.saveArtifacts(path, img, det, masked, binary)...)

	if err := r.report.Add(name, particles); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	if err := r.writeROIs(particles); err != nil {
		res.Warnings = append(res.Warnings, err.Error())
	}
	for _, w := range res.Warnings {
		logger.Warn("Write failed", "err", w)
	}

	stats := particle.Summarize(particles)
	logger.Info("Processed",
		"box", det.Box,
		"scale", cal,
		"particles", stats.Count,
		"mean_area", fmt.Sprintf("%.1f px (%.2f %s²)", stats.MeanArea, cal.AreaToReal(stats.MeanArea), cal.Unit))
	return res
}

func (r *Runner) fail(logger *log.Logger, res ImageResult, err error) ImageResult {
	logger.Error("Processing failed", "err", err)
	res.Status, res.Err = StatusFailed, err
	return res
}

// saveArtifacts writes the enabled crops into the results directory and
// returns one warning per failed write.
func (r *Runner) saveArtifacts(path string, img image.Image, det *grid.Detection, masked, binary *raster.Raster) []string {
	format := r.cfg.ArtifactFormat()
	dir := r.report.Dir()

	type artifact struct {
		enabled bool
		prefix  string
		img     func() image.Image
	}
	artifacts := []artifact{
		{r.cfg.Save.Binary, PrefixBinary, func() image.Image { return binary.Gray() }},
		{r.cfg.Save.Grayscale, PrefixGrayscale, func() image.Image { return masked.Gray() }},
		{r.cfg.Save.Original, PrefixOriginal, func() image.Image { return grimage.Crop(img, det.Box.Rect()) }},
	}

	var warnings []string
	for _, a := range artifacts {
		if !a.enabled {
			continue
		}
		out := filepath.Join(dir, grimage.ArtifactName(a.prefix, path, format))
		if err := grimage.Save(out, a.img(), format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	return warnings
}

// writeROIs replaces the input folder's ROI archive. Concurrent images
// overwrite each other; the last writer wins.
func (r *Runner) writeROIs(particles []particle.Particle) error {
	r.roiMu.Lock()
	defer r.roiMu.Unlock()
	return report.WriteROIs(filepath.Join(r.cfg.InputDir, report.ROIFile), particles)
}
