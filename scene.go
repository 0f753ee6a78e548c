package ramses

import (
	"fmt"
	"log/slog"

	"github.com/0xflotus/ramses/internal/mipchain"
	"github.com/0xflotus/ramses/texel"
)

// SceneOption configures a Scene during creation.
//
// Example:
//
//	sc := ramses.NewScene(ramses.SceneID(42), ramses.WithName("cluster"))
type SceneOption func(*sceneOptions)

// sceneOptions holds optional configuration for Scene creation.
type sceneOptions struct {
	name string
}

// WithName sets the friendly display name recorded in the scene's
// SceneInfo. Names are display text only; no uniqueness is enforced.
func WithName(name string) SceneOption {
	return func(o *sceneOptions) {
		o.name = name
	}
}

// Scene is the owning container for scene-level resources. It is the sole
// factory for Texture2DBuffer instances: buffers have no public constructor
// and no lifetime independent of their scene.
//
// Scene tracks a version counter that increments on every mutation of the
// scene or of any resource it owns. Staging layers compare versions to skip
// scenes with no pending changes.
//
// Scene is not safe for concurrent use; hosts must serialize access
// externally (for example a single-threaded scene-update phase).
type Scene struct {
	info SceneInfo

	// textures maps object ids to owned buffers; order preserves creation
	// sequence for deterministic iteration.
	textures map[ObjectID]*Texture2DBuffer
	order    []ObjectID

	// nextObject is the next object id to allocate. Starts at 1 so the
	// zero ObjectID never refers to a live object.
	nextObject ObjectID

	// version increments on each modification for staging invalidation.
	version uint64
}

// NewScene creates an empty scene with the given identifier.
func NewScene(id SceneID, opts ...SceneOption) *Scene {
	var o sceneOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Scene{
		info:       SceneInfo{ID: id, Name: o.name},
		textures:   make(map[ObjectID]*Texture2DBuffer),
		nextObject: 1,
	}
}

// ID returns the scene identifier.
func (s *Scene) ID() SceneID {
	return s.info.ID
}

// Name returns the friendly display name, possibly empty.
func (s *Scene) Name() string {
	return s.info.Name
}

// Info returns the scene's identifier/name pair.
func (s *Scene) Info() SceneInfo {
	return s.info
}

// Version returns the scene version number. It increments on every
// mutation of the scene or its resources and can be used for staging
// invalidation.
func (s *Scene) Version() uint64 {
	return s.version
}

// CreateTexture2DBuffer creates a mutable mip-mapped texture resource owned
// by the scene.
//
// width and height are the size of mip level 0 and must be positive;
// mipLevelCount must be at least 1. Level sizes follow the halving rule. A
// count beyond the point where both dimensions reach 1 keeps producing 1×1
// levels; choosing a sensible count is the caller's responsibility. The
// level buffers are allocated once, at their exact byte size, with
// unspecified contents until first written.
func (s *Scene) CreateTexture2DBuffer(width, height uint32, format texel.Format, mipLevelCount uint32) (*Texture2DBuffer, error) {
	chain, err := mipchain.New(width, height, format, mipLevelCount)
	if err != nil {
		return nil, fmt.Errorf("ramses: create texture 2d buffer: %w", err)
	}

	id := s.nextObject
	s.nextObject++
	tb := &Texture2DBuffer{id: id, scene: s, chain: chain}
	s.textures[id] = tb
	s.order = append(s.order, id)
	s.version++

	Logger().Info("ramses: texture 2d buffer created",
		slog.String("scene", s.info.ID.String()),
		slog.String("object", id.String()),
		slog.String("format", format.String()),
		slog.Uint64("width", uint64(width)),
		slog.Uint64("height", uint64(height)),
		slog.Uint64("mipLevels", uint64(mipLevelCount)))
	return tb, nil
}

// Texture2DBuffer returns the buffer with the given object id, or false if
// the id does not refer to a live buffer of this scene.
func (s *Scene) Texture2DBuffer(id ObjectID) (*Texture2DBuffer, bool) {
	tb, ok := s.textures[id]
	return tb, ok
}

// DestroyTexture2DBuffer removes a buffer from the scene and releases its
// storage. Returns false if the id does not refer to a live buffer.
// The handle must not be used after destruction.
func (s *Scene) DestroyTexture2DBuffer(id ObjectID) bool {
	tb, ok := s.textures[id]
	if !ok {
		return false
	}
	delete(s.textures, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	tb.scene = nil
	s.version++

	Logger().Info("ramses: texture 2d buffer destroyed",
		slog.String("scene", s.info.ID.String()),
		slog.String("object", id.String()))
	return true
}

// TextureCount returns the number of live texture buffers.
func (s *Scene) TextureCount() int {
	return len(s.textures)
}

// ForEachTexture2DBuffer visits every live buffer in creation order.
// The callback must not create or destroy buffers.
func (s *Scene) ForEachTexture2DBuffer(fn func(*Texture2DBuffer)) {
	for _, id := range s.order {
		fn(s.textures[id])
	}
}

// bumpVersion records a resource mutation. Called by owned resources on
// every successful write.
func (s *Scene) bumpVersion() {
	s.version++
}
