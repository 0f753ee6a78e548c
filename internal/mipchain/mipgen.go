package mipchain

import (
	"errors"
	"image"

	"golang.org/x/image/draw"

	"github.com/0xflotus/ramses/texel"
)

// ErrMipGenUnsupported is returned when mip generation is requested for a
// format without an 8-bit integer representation.
var ErrMipGenUnsupported = errors.New("mipchain: mip generation requires an 8-bit texel format")

// GenerateLevels fills every level above the base by downscaling the
// previous level with the given scaler, and marks all generated levels
// fully dirty. Level 0 is the source and is left untouched.
//
// Only the 8-bit formats are supported: R8 scales as a grayscale image, the
// four-channel formats scale channel-wise, so byte order (RGBA vs BGRA)
// does not affect the result.
func (c *Chain) GenerateLevels(scaler draw.Scaler) error {
	switch c.format {
	case texel.R8, texel.RGBA8, texel.BGRA8, texel.SRGBA8:
	default:
		return ErrMipGenUnsupported
	}

	for i := 1; i < len(c.levels); i++ {
		src := c.wrapLevel(i - 1)
		dst := c.wrapLevel(i)
		scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

		lv := &c.levels[i]
		lv.dirty = lv.dirty.Union(Region{Width: lv.Width, Height: lv.Height})
	}
	return nil
}

// wrapLevel exposes a level buffer as a draw.Image sharing the underlying
// storage, so scaling writes directly into the owned bytes.
func (c *Chain) wrapLevel(i int) draw.Image {
	lv := &c.levels[i]
	rect := image.Rect(0, 0, int(lv.Width), int(lv.Height))
	if c.format == texel.R8 {
		return &image.Gray{Pix: lv.data, Stride: int(lv.Width), Rect: rect}
	}
	return &image.RGBA{Pix: lv.data, Stride: int(lv.Width) * 4, Rect: rect}
}
