// Package mipchain implements the geometry and byte storage of a mip-mapped
// texture image. It is the internal state behind ramses.Texture2DBuffer.
package mipchain

import (
	"errors"
	"fmt"

	"github.com/0xflotus/ramses/texel"
)

// Mip chain errors.
var (
	// ErrInvalidLevel is returned for a mip level index outside the chain.
	ErrInvalidLevel = errors.New("mipchain: mip level index out of range")

	// ErrOutOfBounds is returned when a region exceeds the level geometry.
	ErrOutOfBounds = errors.New("mipchain: region exceeds mip level size")

	// ErrShortSource is returned when the source slice holds fewer bytes
	// than the requested region.
	ErrShortSource = errors.New("mipchain: source slice shorter than region")

	// ErrInvalidSize is returned for a zero base width or height.
	ErrInvalidSize = errors.New("mipchain: base width and height must be positive")

	// ErrInvalidLevelCount is returned for a level count below 1.
	ErrInvalidLevelCount = errors.New("mipchain: level count must be at least 1")

	// ErrInvalidFormat is returned for a texel format outside the
	// supported enumeration.
	ErrInvalidFormat = errors.New("mipchain: unsupported texel format")
)

// Region is a texel-space rectangle within one mip level.
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

// Union returns the smallest region containing both r and o.
func (r Region) Union(o Region) Region {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.X, o.X)
	y0 := min(r.Y, o.Y)
	x1 := max(r.X+r.Width, o.X+o.Width)
	y1 := max(r.Y+r.Height, o.Y+o.Height)
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Level holds the derived geometry and the owned byte buffer of one
// mip level. The buffer is allocated to exactly
// Width*Height*BytesPerTexel(format) bytes and its contents are
// unspecified until the first successful write.
type Level struct {
	// Width is the level width in texels.
	Width uint32

	// Height is the level height in texels.
	Height uint32

	// data is the owned byte storage, never reallocated.
	data []byte

	// dirty is the union of regions written since the last ClearDirty.
	dirty Region
}

// Chain owns the byte storage for a full mip chain.
//
// Geometry follows the standard halving rule: level 0 has the base size and
// each further level has half the width and height of the previous one,
// floored, with a minimum of 1. Levels past the point where both dimensions
// reach 1 stay at 1×1; the level count is deliberately not validated
// against a theoretical maximum.
type Chain struct {
	format texel.Format
	levels []Level
}

// New allocates a chain for the given base size, format, and level count.
func New(baseWidth, baseHeight uint32, format texel.Format, levelCount uint32) (*Chain, error) {
	if baseWidth == 0 || baseHeight == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, baseWidth, baseHeight)
	}
	if levelCount == 0 {
		return nil, ErrInvalidLevelCount
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, uint32(format))
	}

	bpt := format.BytesPerTexel()
	levels := make([]Level, levelCount)
	w, h := baseWidth, baseHeight
	for i := range levels {
		levels[i] = Level{
			Width:  w,
			Height: h,
			data:   make([]byte, int(w)*int(h)*int(bpt)),
		}
		w = max(1, w/2)
		h = max(1, h/2)
	}
	return &Chain{format: format, levels: levels}, nil
}

// Format returns the texel format fixed at creation.
func (c *Chain) Format() texel.Format {
	return c.format
}

// LevelCount returns the number of mip levels.
func (c *Chain) LevelCount() uint32 {
	return uint32(len(c.levels))
}

// LevelSize returns the width and height of a mip level in texels.
func (c *Chain) LevelSize(level uint32) (width, height uint32, err error) {
	if level >= c.LevelCount() {
		return 0, 0, ErrInvalidLevel
	}
	return c.levels[level].Width, c.levels[level].Height, nil
}

// LevelByteSize returns the byte size of a mip level, or 0 if the level is
// out of range. Zero is never a legal size for an in-range level, so the
// sentinel is unambiguous.
func (c *Chain) LevelByteSize(level uint32) uint32 {
	if level >= c.LevelCount() {
		return 0
	}
	return uint32(len(c.levels[level].data))
}

// SetData copies a rectangular region from src into the level buffer.
//
// The source is contiguous at stride = width texels; the destination rows
// live at stride = level width. src must hold at least
// width*height*BytesPerTexel bytes; extra bytes are ignored. On any error
// the level buffer is left unchanged.
func (c *Chain) SetData(src []byte, level, offsetX, offsetY, width, height uint32) error {
	if level >= c.LevelCount() {
		return ErrInvalidLevel
	}
	lv := &c.levels[level]
	if uint64(offsetX)+uint64(width) > uint64(lv.Width) ||
		uint64(offsetY)+uint64(height) > uint64(lv.Height) {
		return fmt.Errorf("%w: region (%d,%d)+%dx%d, level %dx%d",
			ErrOutOfBounds, offsetX, offsetY, width, height, lv.Width, lv.Height)
	}

	bpt := int(c.format.BytesPerTexel())
	needed := int(width) * int(height) * bpt
	if len(src) < needed {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortSource, len(src), needed)
	}

	srcRow := int(width) * bpt
	dstStride := int(lv.Width) * bpt
	dstOff := int(offsetY)*dstStride + int(offsetX)*bpt
	for row := 0; row < int(height); row++ {
		copy(lv.data[dstOff:dstOff+srcRow], src[row*srcRow:(row+1)*srcRow])
		dstOff += dstStride
	}

	lv.dirty = lv.dirty.Union(Region{X: offsetX, Y: offsetY, Width: width, Height: height})
	return nil
}

// GetData copies min(len(dst), LevelByteSize(level)) bytes of the level
// buffer into dst. A destination smaller than the level is not an error;
// the copy silently truncates. On error dst is left untouched.
func (c *Chain) GetData(level uint32, dst []byte) error {
	if level >= c.LevelCount() {
		return ErrInvalidLevel
	}
	copy(dst, c.levels[level].data)
	return nil
}

// LevelData returns the owned byte buffer of a mip level, or nil if the
// level is out of range. Callers must treat the slice as read-only; it
// stays valid for the lifetime of the chain.
func (c *Chain) LevelData(level uint32) []byte {
	if level >= c.LevelCount() {
		return nil
	}
	return c.levels[level].data
}

// DirtyRegion returns the union of regions written to the level since the
// last ClearDirty. The second return is false for an out-of-range level.
func (c *Chain) DirtyRegion(level uint32) (Region, bool) {
	if level >= c.LevelCount() {
		return Region{}, false
	}
	return c.levels[level].dirty, true
}

// ClearDirty resets the dirty regions of all levels. Called by the staging
// layer after it has consumed the pending updates.
func (c *Chain) ClearDirty() {
	for i := range c.levels {
		c.levels[i].dirty = Region{}
	}
}
