package render

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"

	"github.com/0xflotus/ramses"
	"github.com/0xflotus/ramses/cache"
	"github.com/0xflotus/ramses/texel"
)

// Upload describes one pending texture transfer in GPU copy terms.
// Origin, Size, and Layout follow the WebGPU texel-copy model: the data is
// tightly packed at BytesPerRow = Size.Width * BytesPerTexel and targets
// the sub-rectangle of one mip level that accumulated partial updates.
type Upload struct {
	// Scene identifies the scene owning the resource.
	Scene ramses.SceneID

	// Object identifies the texture buffer within the scene.
	Object ramses.ObjectID

	// MipLevel is the target mip level.
	MipLevel uint32

	// Format is the texel format of Data.
	Format texel.Format

	// Transfer is the gputypes transfer format resolved through
	// GPUFormat, or TextureFormatUndefined for texel formats without one.
	Transfer gputypes.TextureFormat

	// Origin is the texel offset of the copy within the level.
	Origin gputypes.Origin3D

	// Size is the extent of the copy in texels.
	Size gputypes.Extent3D

	// Layout describes how Data is laid out.
	Layout gputypes.TextureDataLayout

	// Data holds the packed region bytes. Valid only until the next write
	// to the source buffer; consumers that keep it must copy.
	Data []byte
}

// TextureQueue consumes staged uploads. Implemented by the CPU-side
// adapter in backend/staging and by thin wrappers over real GPU queues.
type TextureQueue interface {
	WriteTexture(up Upload) error
}

// Stager walks a scene's texture buffers and hands the regions written
// since the last pass to a TextureQueue. Scenes whose version has not
// advanced are skipped entirely via a sharded version cache.
//
// Stager follows the single-threaded scene model: a scene must not be
// mutated while it is being staged.
type Stager struct {
	device   DeviceHandle
	versions *cache.Versions
}

// NewStager creates a stager. device may be nil when staging targets a
// CPU-side queue; when present and pollable, the device is polled once per
// staged scene so completed transfers are observed.
func NewStager(device DeviceHandle) *Stager {
	return &Stager{
		device:   device,
		versions: cache.NewVersions(),
	}
}

// StageScene uploads all pending texture updates of a scene to q and
// clears the per-buffer dirty state it consumed. Returns the number of
// uploads performed.
//
// If q fails mid-pass, staging stops and the error is returned. Buffers
// staged before the failure have their dirty state cleared; the failing
// buffer and the ones after it keep theirs, so a later pass retries them.
func (s *Stager) StageScene(sc *ramses.Scene, q TextureQueue) (int, error) {
	sceneKey := sc.ID().Value()
	if s.versions.UpToDate(sceneKey, sc.Version()) {
		return 0, nil
	}

	count := 0
	var stageErr error
	sc.ForEachTexture2DBuffer(func(tb *ramses.Texture2DBuffer) {
		if stageErr != nil {
			return
		}
		n, err := s.stageBuffer(sc.ID(), tb, q)
		count += n
		stageErr = err
	})
	if stageErr != nil {
		return count, stageErr
	}

	s.versions.Set(sceneKey, sc.Version())
	s.pollDevice()
	ramses.Logger().Debug("render: scene staged",
		slog.String("scene", sc.ID().String()),
		slog.Uint64("version", sc.Version()),
		slog.Int("uploads", count))
	return count, nil
}

// pollDevice polls the host device once so completed transfers are
// observed. gpucontext.Device is a capability token; devices that do not
// expose polling are left alone.
func (s *Stager) pollDevice() {
	if s.device == nil {
		return
	}
	if d, ok := s.device.Device().(interface{ Poll(wait bool) }); ok {
		d.Poll(false)
	}
}

// ForgetScene drops the cached version for a scene, forcing the next
// StageScene call to walk its buffers again. Call when a scene is removed
// so the cache does not grow without bound.
func (s *Stager) ForgetScene(id ramses.SceneID) {
	s.versions.Forget(id.Value())
}

// stageBuffer uploads the dirty levels of one buffer. The buffer's dirty
// state is cleared only after every level reached the queue.
func (s *Stager) stageBuffer(scene ramses.SceneID, tb *ramses.Texture2DBuffer, q TextureQueue) (int, error) {
	bpt := tb.GetTexelFormat().BytesPerTexel()
	count := 0
	for level := uint32(0); level < tb.GetMipLevelCount(); level++ {
		region, ok := tb.DirtyRegion(level)
		if !ok || region.Empty() {
			continue
		}
		width, _, _ := tb.GetMipLevelSize(level)
		transfer, _ := GPUFormat(tb.GetTexelFormat())

		up := Upload{
			Scene:    scene,
			Object:   tb.ID(),
			MipLevel: level,
			Format:   tb.GetTexelFormat(),
			Transfer: transfer,
			Origin:   gputypes.Origin3D{X: region.X, Y: region.Y, Z: 0},
			Size: gputypes.Extent3D{
				Width:              region.Width,
				Height:             region.Height,
				DepthOrArrayLayers: 1,
			},
			Layout: gputypes.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  region.Width * bpt,
				RowsPerImage: region.Height,
			},
			Data: packRegion(tb.LevelBytes(level), width, bpt, region),
		}
		if err := q.WriteTexture(up); err != nil {
			return count, fmt.Errorf("render: stage %v level %d: %w", tb.ID(), level, err)
		}
		count++
	}
	if count > 0 {
		tb.FlushDirty()
	}
	return count, nil
}

// packRegion extracts a rectangular region from a level buffer into a
// tightly packed slice with stride = region width. When the region covers
// the whole level the owned buffer is returned as-is, without copying.
func packRegion(level []byte, levelWidth, bpt uint32, r ramses.Region) []byte {
	rowBytes := int(r.Width) * int(bpt)
	stride := int(levelWidth) * int(bpt)
	if r.X == 0 && rowBytes == stride && int(r.Y) == 0 && int(r.Height)*rowBytes == len(level) {
		return level
	}

	packed := make([]byte, int(r.Height)*rowBytes)
	src := int(r.Y)*stride + int(r.X)*int(bpt)
	for row := 0; row < int(r.Height); row++ {
		copy(packed[row*rowBytes:(row+1)*rowBytes], level[src:src+rowBytes])
		src += stride
	}
	return packed
}
