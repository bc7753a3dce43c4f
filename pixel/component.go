package pixel

import (
	"github.com/x448/float16"
)

// ComponentType is the storage encoding of a single sample.
type ComponentType uint8

const (
	// U8 is an 8-bit unsigned integer sample.
	U8 ComponentType = iota

	// U16 is a 16-bit unsigned integer sample.
	U16

	// U32 is a 32-bit unsigned integer sample.
	U32

	// F16 is an IEEE 754 half precision sample, nominally in [0, 1].
	F16

	// F32 is an IEEE 754 single precision sample, nominally in [0, 1].
	F32

	// componentCount is the number of component types (for internal use).
	componentCount
)

// componentInfo contains metadata about a component type.
type componentInfo struct {
	size    int
	isFloat bool
	name    string
}

var componentInfoTable = [componentCount]componentInfo{
	U8:  {size: 1, isFloat: false, name: "u8"},
	U16: {size: 2, isFloat: false, name: "u16"},
	U32: {size: 4, isFloat: false, name: "u32"},
	F16: {size: 2, isFloat: true, name: "f16"},
	F32: {size: 4, isFloat: true, name: "f32"},
}

// Valid returns true if c is a known component type.
func (c ComponentType) Valid() bool {
	return c < componentCount
}

// Size returns the byte width of one sample. Returns 0 for unknown types.
func (c ComponentType) Size() int {
	if !c.Valid() {
		return 0
	}
	return componentInfoTable[c].size
}

// Bits returns the bit width of one sample.
func (c ComponentType) Bits() int {
	return c.Size() * 8
}

// IsFloat returns true for floating point component types.
func (c ComponentType) IsFloat() bool {
	return c.Valid() && componentInfoTable[c].isFloat
}

// IsSigned returns true if the component type can represent negative values.
// Floating point types are signed, integer types are not.
func (c ComponentType) IsSigned() bool {
	return c.IsFloat()
}

// String returns a short name such as "u8" or "f16".
func (c ComponentType) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return componentInfoTable[c].name
}

// Component is the set of Go types that can hold a single sample.
type Component interface {
	uint8 | uint16 | uint32 | float16.Float16 | float32
}

// ComponentTypeOf returns the ComponentType stored by the Go type T.
func ComponentTypeOf[T Component]() ComponentType {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case float16.Float16:
		return F16
	default:
		return F32
	}
}

// Max returns the value of T that represents full intensity:
// the largest integer for integer types and 1.0 for float types.
func Max[T Component]() T {
	var v any
	switch ComponentTypeOf[T]() {
	case U8:
		v = uint8(0xff)
	case U16:
		v = uint16(0xffff)
	case U32:
		v = uint32(0xffffffff)
	case F16:
		v = float16.Fromfloat32(1)
	default:
		v = float32(1)
	}
	return v.(T)
}

// MaxBytes returns the encoding of the full intensity value of c in the given
// byte order. It is used when filling alpha channels at the byte level.
func MaxBytes(c ComponentType, e Endian) []byte {
	switch c {
	case U8:
		return []byte{0xff}
	case U16:
		return []byte{0xff, 0xff}
	case U32:
		return []byte{0xff, 0xff, 0xff, 0xff}
	case F16:
		b := make([]byte, 2)
		e.ByteOrder().PutUint16(b, float16.Fromfloat32(1).Bits())
		return b
	case F32:
		b := make([]byte, 4)
		e.ByteOrder().PutUint32(b, 0x3f800000)
		return b
	default:
		return nil
	}
}
