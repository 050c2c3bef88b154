package cli

import (
	"fmt"

	"grid-ruler/internal/batch"
	"grid-ruler/internal/config"
	grimage "grid-ruler/internal/image"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// runFlags mirrors the config fields that can be overridden on the command line.
type runFlags struct {
	configPath   string
	gridSize     float64
	numSquares   int
	minDiameter  float64
	maxDiameter  float64
	unit         string
	format       string
	outputFormat string
	saveOriginal bool
	saveGray     bool
	saveBinary   bool
	workers      int
}

func newRunCmd() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run [input-dir]",
		Short: "Process every image of a folder",
		Long: `Process every image of the input folder: detect the grid, mask its lines,
calibrate, segment and count particles. Results are written to <input-dir>/Results
and the particle outlines to <input-dir>/log.zip.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runBatch(cmd, cfg)
		},
	}

	f.register(cmd.Flags())
	return cmd
}

// register binds the flags to fs with the config defaults.
func (f *runFlags) register(fs *pflag.FlagSet) {
	d := config.Default()
	fs.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	fs.Float64Var(&f.gridSize, "grid-size", d.GridSize, "real size spanned by the grid box")
	fs.IntVar(&f.numSquares, "squares", d.NumSquares, "grid cells along each side of the box")
	fs.Float64Var(&f.minDiameter, "min-diameter", d.MinDiameter, "smallest particle diameter in real units")
	fs.Float64Var(&f.maxDiameter, "max-diameter", d.MaxDiameter, "largest particle diameter in real units")
	fs.StringVar(&f.unit, "unit", d.Unit, "name of the real unit")
	fs.StringVarP(&f.format, "format", "f", d.Format, "input image format ("+grimage.FormatList()+")")
	fs.StringVar(&f.outputFormat, "output-format", "", "artifact format (defaults to --format)")
	fs.BoolVar(&f.saveOriginal, "save-original", d.Save.Original, "save the cropped colour original")
	fs.BoolVar(&f.saveGray, "save-grayscale", d.Save.Grayscale, "save the masked grayscale crop")
	fs.BoolVar(&f.saveBinary, "save-binary", d.Save.Binary, "save the binary particle mask")
	fs.IntVarP(&f.workers, "workers", "j", d.Workers, "images processed in parallel (0 = all CPUs)")
}

// resolve loads the config file if given, then applies explicitly set flags
// and the positional input directory on top.
func (f *runFlags) resolve(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg := config.Default()
	if f.configPath != "" {
		loaded, err := config.Load(f.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("grid-size") {
		cfg.GridSize = f.gridSize
	}
	if flags.Changed("squares") {
		cfg.NumSquares = f.numSquares
	}
	if flags.Changed("min-diameter") {
		cfg.MinDiameter = f.minDiameter
	}
	if flags.Changed("max-diameter") {
		cfg.MaxDiameter = f.maxDiameter
	}
	if flags.Changed("unit") {
		cfg.Unit = f.unit
	}
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("output-format") {
		cfg.OutputFormat = f.outputFormat
	}
	if flags.Changed("save-original") {
		cfg.Save.Original = f.saveOriginal
	}
	if flags.Changed("save-grayscale") {
		cfg.Save.Grayscale = f.saveGray
	}
	if flags.Changed("save-binary") {
		cfg.Save.Binary = f.saveBinary
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if len(args) == 1 {
		cfg.InputDir = args[0]
	}
	return cfg, nil
}

func runBatch(cmd *cobra.Command, cfg config.Config) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := batch.NewRunner(cfg, batch.DefaultCollaborators(), logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Processed %d of %d images, %d particles",
		summary.Processed, len(summary.Results), summary.Particles))
	return nil
}
