package ramses

import "strconv"

// Scene identifiers
//
// Scene-level objects are addressed by opaque 64-bit identifiers. Each id
// kind is a distinct defined type, so a SceneID cannot be passed where an
// ObjectID is expected without an explicit conversion. Identifiers carry no
// arithmetic: they support construction, equality, ordering, and use as map
// keys, nothing more.

// SceneID identifies a scene. Any raw value is legal, including zero;
// reserving particular values (such as zero for "invalid") is a convention
// of higher layers, not of this type.
type SceneID uint64

// ObjectID identifies an object owned by a scene, such as a Texture2DBuffer.
// ObjectIDs are allocated by the owning Scene and are unique within it.
type ObjectID uint64

// Value returns the raw 64-bit value of the identifier.
func (id SceneID) Value() uint64 { return uint64(id) }

// String formats the identifier for log fields and debug output.
func (id SceneID) String() string {
	return "scene-" + strconv.FormatUint(uint64(id), 10)
}

// Value returns the raw 64-bit value of the identifier.
func (id ObjectID) Value() uint64 { return uint64(id) }

// String formats the identifier for log fields and debug output.
func (id ObjectID) String() string {
	return "object-" + strconv.FormatUint(uint64(id), 10)
}

// SceneInfo pairs a scene identifier with a human-readable name. The name is
// arbitrary display text with no uniqueness constraint.
//
// SceneInfo is a pure value: two infos are equal exactly when both fields
// are equal, which is what the == operator computes.
type SceneInfo struct {
	// ID is the scene identifier.
	ID SceneID

	// Name is the friendly display name. May be empty.
	Name string
}
