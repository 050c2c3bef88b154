// Command gridtest runs grid detection on one image and prints the sweep trace.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"grid-ruler/internal/calib"
	"grid-ruler/internal/grid"
	grimage "grid-ruler/internal/image"
)

func main() {
	imagePath := flag.String("image", "", "Path to grid image (TIFF, PNG, JPEG, GIF or BMP)")
	squares := flag.Int("squares", 4, "Grid cells along each side of the box")
	gridSize := flag.Float64("grid-size", 1000, "Real size spanned by the grid box")
	zMax := flag.Int("zmax", 10, "First (strictest) sweep threshold")
	zMin := flag.Int("zmin", 2, "Last sweep threshold")
	overlayPath := flag.String("overlay", "", "Write lines and box over the image to this path")
	masked := flag.String("masked", "", "Write the masked crop to this path")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: gridtest -image <path> [-squares 4] [-grid-size 1000] [-zmax 10 -zmin 2] [-overlay out.png] [-masked crop.png]")
		os.Exit(1)
	}

	img, err := grimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	gray, err := grimage.ToGray(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to convert image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", gray.Width, gray.Height)

	params := grid.DefaultParams().WithNumSquares(*squares).WithSweep(*zMax, *zMin)
	fmt.Printf("\nSweep z=%d..%d (%d iterations), %d squares\n\n", params.ZMax, params.ZMin, params.Iterations(), params.NumSquares)
	fmt.Printf("%4s %8s %8s %8s %8s %8s %-28s %6s %8s\n",
		"z", "linesX", "linesY", "samples", "sqX", "sqY", "box", "valid", "accepted")
	fmt.Println(strings.Repeat("-", 96))

	params = params.WithTrace(func(tr grid.IterationTrace) {
		box := "-"
		if !tr.Box.IsZero() {
			box = tr.Box.String()
		}
		fmt.Printf("%4d %8d %8d %8d %8d %8d %-28s %6v %8v\n",
			tr.Z, tr.CandidatesX, tr.CandidatesY, tr.Samples, tr.SquareX, tr.SquareY, box, tr.Valid, tr.Accepted)
	})

	det, err := grid.Detect(gray, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nDetection failed: %v\n", err)
		os.Exit(1)
	}

	cal, err := calib.Calibrate(*gridSize, det.Box.Width(), det.Box.Height(), calib.DefaultUnit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Calibration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nBox:   %s (aspect %.3f)\n", det.Box, det.Box.Aspect())
	fmt.Printf("Z:     %d, %d valid iterations\n", det.Z, det.Hits)
	fmt.Printf("Lines: x=%v\n       y=%v\n", det.LinesX, det.LinesY)
	fmt.Printf("Scale: %s, box side %.2f %s\n", cal, cal.ToReal(float64(det.Box.Width())), cal.Unit)

	if *overlayPath != "" {
		o := grimage.NewOverlay(gray)
		o.Rows = det.LinesY
		o.Cols = det.LinesX
		o.Boxes = append(o.Boxes, det.Box.Rect())
		if err := save(*overlayPath, o.Render()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote overlay to %s\n", *overlayPath)
	}

	if *masked != "" {
		crop, err := grid.MaskLines(gray, det)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Masking failed: %v\n", err)
			os.Exit(1)
		}
		if err := save(*masked, crop.Gray()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write masked crop: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote masked crop to %s\n", *masked)
	}
}

func save(path string, img image.Image) error {
	format, err := grimage.ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	return grimage.Save(path, img, format)
}
