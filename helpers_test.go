package nftlayers

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/setanarut/nftlayers/utils"
)

var (
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
	transparent = color.NRGBA{}
)

// writeSolid writes a w x h PNG filled with c.
func writeSolid(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	require.NoError(t, utils.SaveImage(img, path))
}

// layerTree builds dir/<category>/<trait> fixtures. Traits get distinct
// opaque colors so composites differ.
func layerTree(t *testing.T, tree map[string][]string) string {
	t.Helper()
	dir := t.TempDir()
	shade := uint8(10)
	for cat, traits := range tree {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, cat), 0o755))
		for _, trait := range traits {
			writeSolid(t, filepath.Join(dir, cat, trait), 4, 4, color.NRGBA{R: shade, G: 255 - shade, A: 255})
			shade += 20
		}
	}
	return dir
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
