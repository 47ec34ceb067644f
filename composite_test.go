package nftlayers

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite(t *testing.T) {
	t.Run("later layers stack on top", func(t *testing.T) {
		dir := t.TempDir()
		bottom := filepath.Join(dir, "bottom.png")
		top := filepath.Join(dir, "top.png")
		writeSolid(t, bottom, 4, 4, red)
		writeSolid(t, top, 4, 4, blue)

		img, err := Composite([]string{bottom, top})
		require.NoError(t, err)
		assert.Equal(t, blue, img.NRGBAAt(1, 1))

		img, err = Composite([]string{top, bottom})
		require.NoError(t, err)
		assert.Equal(t, red, img.NRGBAAt(1, 1))
	})

	t.Run("first layer sets the canvas and others are resized", func(t *testing.T) {
		dir := t.TempDir()
		bottom := filepath.Join(dir, "bottom.png")
		top := filepath.Join(dir, "top.png")
		writeSolid(t, bottom, 8, 6, red)
		writeSolid(t, top, 2, 2, color.NRGBA{B: 255, A: 128})

		img, err := Composite([]string{bottom, top})
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8, 6), img.Bounds())

		px := img.NRGBAAt(4, 3)
		assert.InDelta(t, 127, int(px.R), 2)
		assert.InDelta(t, 128, int(px.B), 2)
		assert.Equal(t, uint8(255), px.A)
	})

	t.Run("transparent layer leaves base untouched", func(t *testing.T) {
		dir := t.TempDir()
		bottom := filepath.Join(dir, "bottom.png")
		top := filepath.Join(dir, "top.png")
		writeSolid(t, bottom, 4, 4, red)
		writeSolid(t, top, 4, 4, transparent)

		img, err := Composite([]string{bottom, top})
		require.NoError(t, err)
		assert.Equal(t, red, img.NRGBAAt(0, 0))
	})

	t.Run("missing trait fails", func(t *testing.T) {
		dir := t.TempDir()
		bottom := filepath.Join(dir, "bottom.png")
		writeSolid(t, bottom, 4, 4, red)

		_, err := Composite([]string{bottom, filepath.Join(dir, "gone.png")})
		assert.ErrorIs(t, err, ErrTraitLoad)
	})

	t.Run("no layers", func(t *testing.T) {
		_, err := Composite(nil)
		assert.ErrorIs(t, err, ErrNoLayers)
	})
}

func TestAlphaOver(t *testing.T) {
	t.Run("onto transparent copies source", func(t *testing.T) {
		dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		top := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		src := color.NRGBA{R: 10, G: 20, B: 30, A: 100}
		top.SetNRGBA(0, 0, src)

		AlphaOver(dst, top)
		assert.Equal(t, src, dst.NRGBAAt(0, 0))
	})

	t.Run("two half layers", func(t *testing.T) {
		dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		top := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		dst.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})
		top.SetNRGBA(0, 0, color.NRGBA{B: 255, A: 128})

		AlphaOver(dst, top)
		px := dst.NRGBAAt(0, 0)
		// outA = 0.502 + 0.502*0.498 = 0.752
		assert.InDelta(t, 192, int(px.A), 1)
		assert.InDelta(t, 85, int(px.R), 1)
		assert.InDelta(t, 170, int(px.B), 1)
	})
}
