// Package staging provides a CPU-side texture registry that consumes
// staged uploads in wgpu descriptor terms.
//
// The adapter mirrors what a real GPU backend does with scene texture
// resources — create a texture object per buffer, receive partial writes,
// expose read-back — but keeps everything in host memory. It serves as the
// reference consumer for render.Stager and as the staging area a wgpu-based
// uploader drains from.
package staging

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	types "github.com/gogpu/gputypes"

	"github.com/0xflotus/ramses"
	"github.com/0xflotus/ramses/render"
	"github.com/0xflotus/ramses/texel"
)

// Staging errors.
var (
	// ErrUnknownTexture is returned when an upload targets an object with
	// no registered texture.
	ErrUnknownTexture = errors.New("staging: no texture registered for object")

	// ErrUnknownLevel is returned for a mip level outside the descriptor.
	ErrUnknownLevel = errors.New("staging: mip level out of range")

	// ErrRegionTooLarge is returned when an upload region exceeds the
	// staged level geometry.
	ErrRegionTooLarge = errors.New("staging: upload region exceeds level size")

	// ErrShortUpload is returned when upload data is shorter than its
	// declared layout.
	ErrShortUpload = errors.New("staging: upload data shorter than layout")

	// ErrUnsupportedFormat is returned for texel formats without a wgpu
	// descriptor format.
	ErrUnsupportedFormat = errors.New("staging: unsupported texel format")
)

// TextureID is an opaque handle to a staged texture. IDs are allocated by
// the adapter; 0 is never a valid id.
type TextureID uint64

// InvalidID is the zero value, representing an invalid/null texture.
const InvalidID TextureID = 0

// TextureDescriptor describes a staged texture in wgpu terms.
type TextureDescriptor struct {
	// Label is a debug name derived from the scene and object ids.
	Label string

	// Size is the base (level 0) extent.
	Size types.Extent3D

	// MipLevelCount is the number of mip levels.
	MipLevelCount uint32

	// SampleCount is the number of samples per texel (always 1 here).
	SampleCount uint32

	// Dimension is the texture dimension (always 2D here).
	Dimension types.TextureDimension

	// Format is the wgpu descriptor format.
	Format types.TextureFormat

	// Usage specifies how the texture will be used.
	Usage types.TextureUsage
}

// objectKey addresses a texture by its owning scene and object ids.
type objectKey struct {
	scene  ramses.SceneID
	object ramses.ObjectID
}

// stagedTexture holds the descriptor and per-level byte storage.
type stagedTexture struct {
	desc   TextureDescriptor
	texels texel.Format
	levels [][]byte
	widths []uint32
}

// Adapter is a thread-safe registry of staged textures. It implements
// render.TextureQueue, so it can be passed directly to render.Stager.
type Adapter struct {
	mu       sync.RWMutex
	nextID   atomic.Uint64
	textures map[TextureID]*stagedTexture
	byObject map[objectKey]TextureID
}

// New creates an empty staging adapter.
func New() *Adapter {
	a := &Adapter{
		textures: make(map[TextureID]*stagedTexture),
		byObject: make(map[objectKey]TextureID),
	}
	// Start ID generation at 1 (0 is invalid)
	a.nextID.Store(1)
	return a
}

// newID generates a unique texture ID.
func (a *Adapter) newID() TextureID {
	return TextureID(a.nextID.Add(1) - 1)
}

// CreateTexture registers a staged texture for a scene buffer, building
// its descriptor from the buffer geometry and allocating level storage at
// the exact byte sizes. Creating a texture for an object that already has
// one replaces the old registration.
func (a *Adapter) CreateTexture(scene ramses.SceneID, tb *ramses.Texture2DBuffer) (TextureID, error) {
	format, err := convertTextureFormat(tb.GetTexelFormat())
	if err != nil {
		return InvalidID, err
	}

	levelCount := tb.GetMipLevelCount()
	baseW, baseH, _ := tb.GetMipLevelSize(0)

	st := &stagedTexture{
		desc: TextureDescriptor{
			Label: fmt.Sprintf("%v/%v", scene, tb.ID()),
			Size: types.Extent3D{
				Width:              baseW,
				Height:             baseH,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: levelCount,
			SampleCount:   1,
			Dimension:     types.TextureDimension2D,
			Format:        format,
			Usage:         types.TextureUsageCopyDst | types.TextureUsageTextureBinding,
		},
		texels: tb.GetTexelFormat(),
		levels: make([][]byte, levelCount),
		widths: make([]uint32, levelCount),
	}
	for level := uint32(0); level < levelCount; level++ {
		w, _, _ := tb.GetMipLevelSize(level)
		st.levels[level] = make([]byte, tb.GetMipLevelDataSizeInBytes(level))
		st.widths[level] = w
	}

	id := a.newID()
	key := objectKey{scene: scene, object: tb.ID()}

	a.mu.Lock()
	if old, ok := a.byObject[key]; ok {
		delete(a.textures, old)
	}
	a.textures[id] = st
	a.byObject[key] = id
	a.mu.Unlock()

	return id, nil
}

// DestroyTexture releases a staged texture.
func (a *Adapter) DestroyTexture(id TextureID) {
	a.mu.Lock()
	if _, ok := a.textures[id]; ok {
		delete(a.textures, id)
		for key, tid := range a.byObject {
			if tid == id {
				delete(a.byObject, key)
				break
			}
		}
	}
	a.mu.Unlock()
}

// TextureFor returns the staged texture id registered for a scene object.
func (a *Adapter) TextureFor(scene ramses.SceneID, object ramses.ObjectID) (TextureID, bool) {
	a.mu.RLock()
	id, ok := a.byObject[objectKey{scene: scene, object: object}]
	a.mu.RUnlock()
	return id, ok
}

// Descriptor returns the descriptor of a staged texture.
func (a *Adapter) Descriptor(id TextureID) (TextureDescriptor, bool) {
	a.mu.RLock()
	st, ok := a.textures[id]
	a.mu.RUnlock()
	if !ok {
		return TextureDescriptor{}, false
	}
	return st.desc, true
}

// WriteTexture applies one staged upload. It implements
// render.TextureQueue.
//
// The upload's layout is honored exactly: rows are read from up.Data at
// stride Layout.BytesPerRow and written into the staged level at the
// upload origin.
func (a *Adapter) WriteTexture(up render.Upload) error {
	a.mu.RLock()
	id, ok := a.byObject[objectKey{scene: up.Scene, object: up.Object}]
	var st *stagedTexture
	if ok {
		st = a.textures[id]
	}
	a.mu.RUnlock()
	if st == nil {
		return fmt.Errorf("%w: %v/%v", ErrUnknownTexture, up.Scene, up.Object)
	}

	if up.MipLevel >= uint32(len(st.levels)) {
		return fmt.Errorf("%w: level %d of %d", ErrUnknownLevel, up.MipLevel, len(st.levels))
	}

	bpt := st.texels.BytesPerTexel()
	levelW := st.widths[up.MipLevel]
	level := st.levels[up.MipLevel]
	levelH := uint32(len(level)) / (levelW * bpt)
	if uint64(up.Origin.X)+uint64(up.Size.Width) > uint64(levelW) ||
		uint64(up.Origin.Y)+uint64(up.Size.Height) > uint64(levelH) {
		return fmt.Errorf("%w: origin (%d,%d) extent %dx%d, level %dx%d",
			ErrRegionTooLarge, up.Origin.X, up.Origin.Y, up.Size.Width, up.Size.Height, levelW, levelH)
	}

	rowBytes := int(up.Size.Width) * int(bpt)
	srcStride := int(up.Layout.BytesPerRow)
	if srcStride == 0 {
		srcStride = rowBytes
	}
	needed := int(up.Layout.Offset) + (int(up.Size.Height)-1)*srcStride + rowBytes
	if up.Size.Height > 0 && len(up.Data) < needed {
		return fmt.Errorf("%w: have %d bytes, need %d", ErrShortUpload, len(up.Data), needed)
	}

	a.mu.Lock()
	dstStride := int(levelW) * int(bpt)
	dst := int(up.Origin.Y)*dstStride + int(up.Origin.X)*int(bpt)
	src := int(up.Layout.Offset)
	for row := 0; row < int(up.Size.Height); row++ {
		copy(level[dst:dst+rowBytes], up.Data[src:src+rowBytes])
		dst += dstStride
		src += srcStride
	}
	a.mu.Unlock()
	return nil
}

// ReadTexture returns a copy of one staged mip level, for verification and
// for draining the staging area into a real GPU queue.
func (a *Adapter) ReadTexture(id TextureID, mipLevel uint32) ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st, ok := a.textures[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownTexture, id)
	}
	if mipLevel >= uint32(len(st.levels)) {
		return nil, fmt.Errorf("%w: level %d of %d", ErrUnknownLevel, mipLevel, len(st.levels))
	}
	out := make([]byte, len(st.levels[mipLevel]))
	copy(out, st.levels[mipLevel])
	return out, nil
}

// convertTextureFormat maps a texel format to its wgpu descriptor format.
// Descriptors keep the sRGB distinction and cover the full texel set; the
// byte-transfer mapping in render.GPUFormat is narrower and linear.
func convertTextureFormat(f texel.Format) (types.TextureFormat, error) {
	switch f {
	case texel.R8:
		return types.TextureFormatR8Unorm, nil
	case texel.RGBA8:
		return types.TextureFormatRGBA8Unorm, nil
	case texel.BGRA8:
		return types.TextureFormatBGRA8Unorm, nil
	case texel.SRGBA8:
		return types.TextureFormatRGBA8UnormSrgb, nil
	case texel.R32F:
		return types.TextureFormatR32Float, nil
	case texel.RG32F:
		return types.TextureFormatRG32Float, nil
	case texel.RGBA32F:
		return types.TextureFormatRGBA32Float, nil
	default:
		return types.TextureFormatUndefined, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}
