package ramses

import (
	"errors"
	"image"
	"image/png"
	"log/slog"
	"os"

	"golang.org/x/image/draw"

	"github.com/0xflotus/ramses/internal/mipchain"
	"github.com/0xflotus/ramses/texel"
)

// Texture2DBuffer is a mutable scene resource holding mip-mapped texture
// data with support for partial updates. Its contents are unspecified until
// written, so a buffer must be initialized with data before a backend
// consumes it.
//
// The number of mip levels is chosen at creation and the size of the chain
// follows the standard halving rule: each level has half the width and
// height of the previous one, floored, with a minimum of 1.
//
// Texture2DBuffer instances are created exclusively by
// [Scene.CreateTexture2DBuffer]; the scene owns the buffer storage and the
// handle holds a non-owning back-reference to it.
type Texture2DBuffer struct {
	id    ObjectID
	scene *Scene
	chain *mipchain.Chain
}

// Region is a texel-space rectangle within one mip level, used to report
// the area touched by partial updates since the last staging pass.
// A region with zero width or height is empty.
type Region struct {
	X      uint32
	Y      uint32
	Width  uint32
	Height uint32
}

// Empty reports whether the region covers no texels.
func (r Region) Empty() bool {
	return r.Width == 0 || r.Height == 0
}

// ID returns the scene-object identifier of the buffer.
func (b *Texture2DBuffer) ID() ObjectID {
	return b.id
}

// SetData updates a sub-region of one mip level.
//
// data must hold at least width*height*BytesPerTexel bytes laid out
// contiguously at stride = width texels; the call copies the bytes into the
// level's owned buffer and retains no reference to data afterward. Returns
// StatusInvalidMipLevel for a level outside the chain, StatusOutOfBounds
// when the region exceeds the level geometry, and StatusInsufficientData
// for a short source slice. On any non-OK status the buffer is unchanged.
func (b *Texture2DBuffer) SetData(data []byte, mipLevel, offsetX, offsetY, width, height uint32) Status {
	if err := b.chain.SetData(data, mipLevel, offsetX, offsetY, width, height); err != nil {
		Logger().Debug("ramses: texture update rejected",
			slog.String("object", b.id.String()),
			slog.Uint64("mipLevel", uint64(mipLevel)),
			slog.String("error", err.Error()))
		return statusFromError(err)
	}
	b.bump()
	return StatusOK
}

// GetMipLevelCount returns the number of mip levels chosen at creation.
func (b *Texture2DBuffer) GetMipLevelCount() uint32 {
	return b.chain.LevelCount()
}

// GetMipLevelSize returns the size of a mip level in texels.
// Returns StatusInvalidMipLevel for a level outside the chain.
func (b *Texture2DBuffer) GetMipLevelSize(mipLevel uint32) (width, height uint32, st Status) {
	w, h, err := b.chain.LevelSize(mipLevel)
	if err != nil {
		return 0, 0, statusFromError(err)
	}
	return w, h, StatusOK
}

// GetMipLevelDataSizeInBytes returns the byte size of a mip level, or 0 if
// mipLevel is out of range. An in-range level never has size 0, so the
// sentinel reports the failure without a status code.
func (b *Texture2DBuffer) GetMipLevelDataSizeInBytes(mipLevel uint32) uint32 {
	return b.chain.LevelByteSize(mipLevel)
}

// GetTexelFormat returns the texel format fixed at creation.
func (b *Texture2DBuffer) GetTexelFormat() texel.Format {
	return b.chain.Format()
}

// GetMipLevelData copies the data of one mip level into dst.
//
// The amount copied is len(dst) or the level's byte size, whichever is
// smaller; a destination shorter than the level silently truncates rather
// than failing. Returns StatusInvalidMipLevel for a level outside the
// chain, in which case dst is left untouched.
func (b *Texture2DBuffer) GetMipLevelData(mipLevel uint32, dst []byte) Status {
	if err := b.chain.GetData(mipLevel, dst); err != nil {
		return statusFromError(err)
	}
	return StatusOK
}

// LevelBytes returns the owned byte buffer of a mip level without copying,
// or nil if the level is out of range. The slice must be treated as
// read-only; it is how staging layers hand level contents to the GPU
// without an intermediate copy.
func (b *Texture2DBuffer) LevelBytes(mipLevel uint32) []byte {
	return b.chain.LevelData(mipLevel)
}

// DirtyRegion returns the union of regions written to a level since the
// last FlushDirty, and false for an out-of-range level. An empty region
// means the level has no pending updates.
func (b *Texture2DBuffer) DirtyRegion(mipLevel uint32) (Region, bool) {
	r, ok := b.chain.DirtyRegion(mipLevel)
	if !ok {
		return Region{}, false
	}
	return Region{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, true
}

// FlushDirty clears the pending-update regions of all levels. Staging
// layers call this after consuming the dirty state.
func (b *Texture2DBuffer) FlushDirty() {
	b.chain.ClearDirty()
}

// GenerateMipChain fills every level above the base by downscaling the
// previous level, replacing whatever those levels held. Level 0 is the
// source and must have been written beforehand.
//
// Supported for the 8-bit formats only; returns StatusError for the
// floating-point formats.
func (b *Texture2DBuffer) GenerateMipChain() Status {
	if err := b.chain.GenerateLevels(draw.BiLinear); err != nil {
		return statusFromError(err)
	}
	b.bump()
	return StatusOK
}

// bump records a successful mutation on the owning scene. A destroyed
// buffer has no owner; its writes still succeed locally but no longer
// advance any scene version.
func (b *Texture2DBuffer) bump() {
	if b.scene != nil {
		b.scene.bumpVersion()
	}
}

// SetDataFromImage updates a full mip level from an image, converting it to
// the buffer's byte layout. The image size must match the level size
// exactly or StatusOutOfBounds is returned. Supported for RGBA8 and SRGBA8.
func (b *Texture2DBuffer) SetDataFromImage(img image.Image, mipLevel uint32) Status {
	switch b.chain.Format() {
	case texel.RGBA8, texel.SRGBA8:
	default:
		return StatusError
	}
	w, h, err := b.chain.LevelSize(mipLevel)
	if err != nil {
		return statusFromError(err)
	}
	bounds := img.Bounds()
	if uint32(bounds.Dx()) != w || uint32(bounds.Dy()) != h {
		return StatusOutOfBounds
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) || rgba.Stride != int(w)*4 {
		rgba = image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	return b.SetData(rgba.Pix, mipLevel, 0, 0, w, h)
}

// GetMipLevelImage returns a copy of one mip level as an image. Supported
// for RGBA8 and SRGBA8; other formats return StatusError.
func (b *Texture2DBuffer) GetMipLevelImage(mipLevel uint32) (*image.RGBA, Status) {
	switch b.chain.Format() {
	case texel.RGBA8, texel.SRGBA8:
	default:
		return nil, StatusError
	}
	w, h, err := b.chain.LevelSize(mipLevel)
	if err != nil {
		return nil, statusFromError(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, b.chain.LevelData(mipLevel))
	return img, StatusOK
}

// SaveLevelPNG writes one mip level to a PNG file. Supported for the same
// formats as GetMipLevelImage.
func (b *Texture2DBuffer) SaveLevelPNG(mipLevel uint32, path string) error {
	img, st := b.GetMipLevelImage(mipLevel)
	if st != StatusOK {
		return errors.New("ramses: " + st.Message())
	}
	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()
	return png.Encode(f, img)
}

// statusFromError maps internal mip-chain errors onto the public result
// codes.
func statusFromError(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, mipchain.ErrInvalidLevel):
		return StatusInvalidMipLevel
	case errors.Is(err, mipchain.ErrOutOfBounds):
		return StatusOutOfBounds
	case errors.Is(err, mipchain.ErrShortSource):
		return StatusInsufficientData
	default:
		return StatusError
	}
}
