// Package texel defines the texel format enumeration shared by texture
// resources and rendering backends.
//
// A texel is one addressable unit of texture data. Every supported format
// has a fixed byte size per texel; all byte-size computations on texture
// buffers derive from Format.BytesPerTexel.
package texel
