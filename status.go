package ramses

import "fmt"

// Status is the result code returned by fallible operations on scene
// resources. Every code other than StatusOK leaves the resource unmodified:
// writes either complete fully or not at all, and failed reads do not touch
// the caller's output buffer.
//
// Callers are expected to check the code after every fallible call and may
// resolve a human-readable message with Message.
type Status uint32

const (
	// StatusOK indicates the operation completed successfully.
	StatusOK Status = iota

	// StatusInvalidMipLevel indicates a mip level index outside
	// [0, GetMipLevelCount()).
	StatusInvalidMipLevel

	// StatusOutOfBounds indicates a sub-region that exceeds the geometry of
	// the target mip level.
	StatusOutOfBounds

	// StatusInsufficientData indicates a source slice shorter than the byte
	// size of the requested region.
	StatusInsufficientData

	// StatusError indicates a failure outside the specific codes above.
	StatusError
)

// statusMessages resolves codes to user-facing messages.
var statusMessages = map[Status]string{
	StatusOK:               "success",
	StatusInvalidMipLevel:  "mip level index is out of range",
	StatusOutOfBounds:      "region exceeds the size of the target mip level",
	StatusInsufficientData: "source data is smaller than the requested region",
	StatusError:            "operation failed",
}

// Message returns the human-readable message for the status code.
func (s Status) Message() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return fmt.Sprintf("unknown status code %d", uint32(s))
}

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "StatusOK"
	case StatusInvalidMipLevel:
		return "StatusInvalidMipLevel"
	case StatusOutOfBounds:
		return "StatusOutOfBounds"
	case StatusInsufficientData:
		return "StatusInsufficientData"
	case StatusError:
		return "StatusError"
	default:
		return fmt.Sprintf("Status(%d)", uint32(s))
	}
}
