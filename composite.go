package nftlayers

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/setanarut/nftlayers/utils"
)

var (
	// ErrTraitLoad marks a trait image that could not be opened or decoded.
	ErrTraitLoad = errors.New("trait load failure")

	// ErrNoLayers is returned when a combination has nothing to composite.
	ErrNoLayers = errors.New("no layers to composite")
)

// Composite stacks the images at paths bottom to top. The first layer fixes
// the canvas size; later layers of a different size are resized with a
// Lanczos filter before blending.
func Composite(paths []string) (*image.NRGBA, error) {
	if len(paths) == 0 {
		return nil, ErrNoLayers
	}
	var base *image.NRGBA
	for _, path := range paths {
		img, err := utils.ReadImage(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTraitLoad, path, err)
		}
		layer := imaging.Clone(img)
		if base == nil {
			base = layer
			continue
		}
		size := base.Bounds().Size()
		if layer.Bounds().Size() != size {
			layer = imaging.Resize(layer, size.X, size.Y, imaging.Lanczos)
		}
		AlphaOver(base, layer)
	}
	return base, nil
}

// AlphaOver blends top onto dst in place using the Porter-Duff "over"
// operator on straight alpha. Both images must share dst's size and start
// at the origin.
func AlphaOver(dst, top *image.NRGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		d := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		s := top.Pix[y*top.Stride : y*top.Stride+w*4]
		for x := 0; x < len(d); x += 4 {
			sa := float64(s[x+3]) / 255.0
			if sa == 0 {
				continue
			}
			da := float64(d[x+3]) / 255.0
			if sa == 1 || da == 0 {
				copy(d[x:x+4], s[x:x+4])
				continue
			}
			oneMinusA := 1 - sa
			outA := sa + da*oneMinusA
			for ch := range 3 {
				c := (float64(s[x+ch])*sa + float64(d[x+ch])*da*oneMinusA) / outA
				d[x+ch] = uint8(max(0, min(255, c+0.5)))
			}
			d[x+3] = uint8(max(0, min(255, outA*255+0.5)))
		}
	}
}
