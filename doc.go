// Package ramses provides mutable, partially-updatable texture resources
// for a scene graph.
//
// # Overview
//
// ramses models the client side of a scene graph: a Scene owns strongly
// typed, identifier-addressed resources, and the central resource here is
// the Texture2DBuffer — a mip-mapped texture whose levels can be updated
// region by region and read back for GPU upload.
//
// # Quick Start
//
//	import (
//	    "github.com/0xflotus/ramses"
//	    "github.com/0xflotus/ramses/texel"
//	)
//
//	// Scenes are addressed by typed 64-bit identifiers.
//	sc := ramses.NewScene(ramses.SceneID(1), ramses.WithName("terrain"))
//
//	// The scene is the sole factory for texture buffers.
//	tb, err := sc.CreateTexture2DBuffer(256, 256, texel.RGBA8, 4)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Partial update of mip level 0, checked against level geometry.
//	if st := tb.SetData(pixels, 0, 16, 16, 64, 64); st != ramses.StatusOK {
//	    log.Fatal(st.Message())
//	}
//
// # Architecture
//
// The module is organized into:
//   - Public API: Scene, Texture2DBuffer, SceneID/ObjectID, Status
//   - texel: texel format enumeration and byte-size rules
//   - render: staging of dirty mip levels for a GPU backend
//   - backend/staging: CPU-side texture registry in wgpu descriptor terms
//   - internal/mipchain: mip-chain geometry and byte storage
//
// # Ownership Model
//
// A Texture2DBuffer is exclusively owned by its Scene and is not safe for
// concurrent mutation. Hosts that update scenes from multiple goroutines
// must serialize access externally; every operation completes synchronously.
//
// # Error Reporting
//
// Resource operations report through the Status enumeration rather than
// error values, so callers can branch on the code and resolve a message
// with Status.Message. Construction paths and backend plumbing use plain
// Go errors.
package ramses

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"
)
