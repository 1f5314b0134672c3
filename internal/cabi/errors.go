package cabi

import (
	"errors"
	"fmt"
)

// Kind classifies load failures. The numeric values are the status codes
// returned by load_obj_checked.
type Kind int32

const (
	KindInvalidPath Kind = iota + 1 // path bytes are not valid UTF-8
	KindParse                       // OBJ missing, unreadable or malformed
	KindMaterial                    // a referenced MTL library failed to load
	KindUnsupported                 // mesh shape the records cannot carry
	KindInteriorNul                 // a name or path contains a NUL byte
)

// String returns the diagnostic prefix for the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidPath:
		return "invalid path encoding"
	case KindParse:
		return "failed to load obj"
	case KindMaterial:
		return "failed to load materials"
	case KindUnsupported:
		return "unsupported mesh feature"
	case KindInteriorNul:
		return "string contains interior nul byte"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(k))
	}
}

// Error is a load failure of a known kind.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Unsupported mesh features. Records carry one triangle index stream and no
// vertex colors, so meshes with these must be rejected rather than truncated.
var (
	ErrVertexColor     = errors.New("vertex color")
	ErrFaceArities     = errors.New("non-triangle faces")
	ErrTexcoordIndices = errors.New("separate texcoord indices")
	ErrNormalIndices   = errors.New("separate normal indices")
)

// Mesh shape violations.
var (
	ErrPositionLayout = errors.New("positions are not xyz triples")
	ErrNormalCount    = errors.New("normal count differs from vertex count")
	ErrTexcoordCount  = errors.New("texcoord count differs from vertex count")
	ErrIndexRange     = errors.New("index out of vertex range")
	ErrIndexLayout    = errors.New("index count is not a multiple of 3")
)
