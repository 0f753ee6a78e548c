// Package render stages the contents of scene texture resources for upload
// to a GPU backend.
//
// The package is the consumption side of the resource model: it reads mip
// level bytes through the read-only accessors of ramses.Texture2DBuffer and
// describes the pending uploads in gputypes terms. It never mutates a
// resource beyond clearing its pending-update state after staging.
package render

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/0xflotus/ramses/texel"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host (the application owning the GPU context) implements the provider
// and passes it to the stager; render RECEIVES the device from the host, it
// does not create one. DeviceHandle is an alias for
// gpucontext.DeviceProvider, keeping full compatibility with the gpucontext
// ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// GPUFormat maps a texel format onto the gputypes transfer format carried
// in Upload.Transfer. The second return is false for formats gputypes does
// not declare a transfer format for, in which case the value is
// gputypes.TextureFormatUndefined and consumers fall back to Upload.Format.
//
// The sRGB variant deliberately maps to the linear transfer format: color
// space interpretation belongs to the sampler configuration, not to the
// byte transfer. Texture descriptors keep the sRGB distinction; that
// mapping lives with the descriptor construction in backend/staging.
func GPUFormat(f texel.Format) (gputypes.TextureFormat, bool) {
	switch f {
	case texel.R8:
		return gputypes.TextureFormatR8Unorm, true
	case texel.RGBA8, texel.SRGBA8:
		return gputypes.TextureFormatRGBA8Unorm, true
	case texel.BGRA8:
		return gputypes.TextureFormatBGRA8Unorm, true
	default:
		return gputypes.TextureFormatUndefined, false
	}
}
