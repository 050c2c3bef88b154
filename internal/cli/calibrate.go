package cli

import (
	"fmt"
	"path/filepath"

	"grid-ruler/internal/calib"
	"grid-ruler/internal/grid"
	grimage "grid-ruler/internal/image"

	"github.com/spf13/cobra"
)

func newCalibrateCmd() *cobra.Command {
	var (
		gridSize   float64
		numSquares int
		unit       string
		overlay    string
	)

	cmd := &cobra.Command{
		Use:   "calibrate <image>",
		Short: "Detect the grid of one image and print its scale",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			img, err := grimage.Load(args[0])
			if err != nil {
				return err
			}
			gray, err := grimage.ToGray(img)
			if err != nil {
				return err
			}

			params := grid.DefaultParams().WithNumSquares(numSquares).WithTrace(func(tr grid.IterationTrace) {
				logger.Debug("Sweep iteration", "z", tr.Z, "box", tr.Box, "valid", tr.Valid, "accepted", tr.Accepted)
			})
			det, err := grid.Detect(gray, params)
			if err != nil {
				return err
			}

			cal, err := calib.Calibrate(gridSize, det.Box.Width(), det.Box.Height(), unit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "box:   %s\n", det.Box)
			fmt.Fprintf(out, "z:     %d (%d valid iterations)\n", det.Z, det.Hits)
			fmt.Fprintf(out, "scale: %s\n", cal)
			fmt.Fprintf(out, "size:  %.2f x %.2f %s, pixel area %.4f %s²\n",
				cal.ToReal(float64(det.Box.Width())), cal.ToReal(float64(det.Box.Height())), cal.Unit,
				cal.AreaToReal(1), cal.Unit)

			if overlay != "" {
				o := grimage.NewOverlay(gray)
				o.Rows = det.LinesY
				o.Cols = det.LinesX
				o.Boxes = append(o.Boxes, det.Box.Rect())
				format, err := grimage.ParseFormat(filepath.Ext(overlay))
				if err != nil {
					return err
				}
				if err := grimage.Save(overlay, o.Render(), format); err != nil {
					return err
				}
				logger.Info("Wrote overlay", "path", overlay)
			}
			return nil
		},
	}

	d := grid.DefaultParams()
	cmd.Flags().Float64Var(&gridSize, "grid-size", 1000, "real size spanned by the grid box")
	cmd.Flags().IntVar(&numSquares, "squares", d.NumSquares, "grid cells along each side of the box")
	cmd.Flags().StringVar(&unit, "unit", calib.DefaultUnit, "name of the real unit")
	cmd.Flags().StringVar(&overlay, "overlay", "", "write a detection overlay image to this path")

	return cmd
}
