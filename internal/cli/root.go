// Package cli implements the grid-ruler command-line interface.
//
// The run command calibrates every image of a folder against its grid and
// counts the particles inside the grid box. The calibrate command runs grid
// detection on a single image and prints the resulting scale. All commands
// accept --verbose (-v) for debug logging, which includes the per-iteration
// trace of the detection sweep.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"grid-ruler/internal/version"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Execute runs the CLI with ctx, typically cancelled on SIGINT.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "grid-ruler",
		Short:        "Calibrate microscope images against a grid and count particles",
		Long:         `grid-ruler finds the square calibration grid in each image of a folder, derives the real size of a pixel from it and measures the particles inside the grid box.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logOut, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("grid-ruler %s\ncommit: %s\nbuilt: %s\n",
		version.Version, version.GitCommit, version.BuildTime))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newCalibrateCmd())

	return root
}
