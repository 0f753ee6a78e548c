package texel

// Format specifies the format of texel data in a texture buffer.
// The zero value is not a valid format.
type Format uint32

// Texel formats.
const (
	// R8 is 8-bit red channel only, normalized unsigned integer.
	R8 Format = iota + 1

	// RGBA8 is 8-bit RGBA, normalized unsigned integer.
	RGBA8

	// BGRA8 is 8-bit BGRA, normalized unsigned integer.
	BGRA8

	// SRGBA8 is 8-bit RGBA, normalized unsigned integer in sRGB color space.
	SRGBA8

	// R32F is 32-bit red channel only, floating point.
	R32F

	// RG32F is 32-bit RG, floating point.
	RG32F

	// RGBA32F is 32-bit RGBA, floating point.
	RGBA32F
)

// BytesPerTexel returns the fixed byte size of one texel in this format,
// or 0 if the format is not one of the supported enumeration values.
func (f Format) BytesPerTexel() uint32 {
	switch f {
	case R8:
		return 1
	case RGBA8, BGRA8, SRGBA8, R32F:
		return 4
	case RG32F:
		return 8
	case RGBA32F:
		return 16
	default:
		return 0
	}
}

// IsValid reports whether f is one of the supported formats.
func (f Format) IsValid() bool {
	return f.BytesPerTexel() != 0
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case R8:
		return "R8"
	case RGBA8:
		return "RGBA8"
	case BGRA8:
		return "BGRA8"
	case SRGBA8:
		return "SRGBA8"
	case R32F:
		return "R32F"
	case RG32F:
		return "RG32F"
	case RGBA32F:
		return "RGBA32F"
	default:
		return "Format(invalid)"
	}
}
