package cli

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"

	grimage "grid-ruler/internal/image"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFlagsOverrideConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ruler.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input_dir: /from/file\ngrid_size: 250\nnum_squares: 5\nunit: um\n"), 0644))

	var f runFlags
	cmd := &cobra.Command{}
	f.register(cmd.Flags())
	require.NoError(t, cmd.ParseFlags([]string{"--config", cfgPath, "--squares", "3"}))

	cfg, err := f.resolve(cmd, []string{dir})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.InputDir, "positional directory wins over the file")
	assert.Equal(t, 250.0, cfg.GridSize, "unset flag keeps the file value")
	assert.Equal(t, 3, cfg.NumSquares)
	assert.Equal(t, "um", cfg.Unit)
}

func TestRunCommandRejectsBadConfig(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"run", filepath.Join(t.TempDir(), "missing")})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.ExecuteContext(context.Background())
	assert.ErrorContains(t, err, "input_dir")
}

func TestRunFlagsListFormats(t *testing.T) {
	var f runFlags
	cmd := &cobra.Command{}
	f.register(cmd.Flags())
	assert.Contains(t, cmd.Flags().Lookup("format").Usage, "tiff, jpg, png, gif, bmp")
}

func TestCalibrateCommand(t *testing.T) {
	dir := t.TempDir()
	g := image.NewGray(image.Rect(0, 0, 260, 260))
	for i := range g.Pix {
		g.Pix[i] = 200
	}
	for _, l := range []int{20, 70, 120, 170, 220} {
		for i := 0; i < 260; i++ {
			g.Pix[(l+1)*g.Stride+i] = 184
			g.Pix[i*g.Stride+l+1] = 184
		}
	}
	imgPath := filepath.Join(dir, "grid.png")
	require.NoError(t, grimage.Save(imgPath, g, grimage.FormatPNG))
	overlay := filepath.Join(dir, "overlay.png")

	var out bytes.Buffer
	root := newRootCmd(&bytes.Buffer{})
	root.SetArgs([]string{"calibrate", imgPath, "--grid-size", "400", "--overlay", overlay})
	root.SetOut(&out)

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "(20,20)-(220,220)")
	assert.Contains(t, out.String(), "2.0000 nm/px")
	assert.Contains(t, out.String(), "400.00 x 400.00 nm, pixel area 4.0000 nm²")
	assert.FileExists(t, overlay)
}
