package buffer

import (
	"fmt"
	"unsafe"

	"github.com/gogpu/pixio/pixel"
)

// Row returns row y of b reinterpreted as a slice of pixel shapes.
//
// The returned slice aliases the buffer. Sample values read through it are
// only meaningful when the buffer's byte order matches the host's.
func Row[P pixel.Shape](b *Buffer, y int) ([]P, error) {
	var p P
	if f := p.Format(); f != b.format || int(unsafe.Sizeof(p)) != f.Size() {
		return nil, fmt.Errorf("%w: %s view of %s buffer", ErrFormatMismatch, f, b.format)
	}
	raw, err := b.RowBytes(y)
	if err != nil {
		return nil, err
	}
	ptr := unsafe.Pointer(unsafe.SliceData(raw))
	if uintptr(ptr)%unsafe.Alignof(p) != 0 {
		return nil, fmt.Errorf("%w: row %d", ErrMisaligned, y)
	}
	return unsafe.Slice((*P)(ptr), b.width), nil
}

// Components returns row y of b as a flat slice of samples, width*channels
// long. The same byte order caveat as Row applies.
func Components[T pixel.Component](b *Buffer, y int) ([]T, error) {
	if c := pixel.ComponentTypeOf[T](); c != b.format.Component {
		return nil, fmt.Errorf("%w: %s samples of %s buffer", ErrFormatMismatch, c, b.format)
	}
	raw, err := b.RowBytes(y)
	if err != nil {
		return nil, err
	}
	return asSamples[T](raw)
}

// Samples reinterprets raw as a slice of T. The length of raw must be a
// multiple of the sample size and its start must be aligned for T.
func Samples[T pixel.Component](raw []byte) ([]T, error) {
	return asSamples[T](raw)
}

func asSamples[T pixel.Component](raw []byte) ([]T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(raw)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of %d-byte samples", ErrMisaligned, len(raw), size)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	ptr := unsafe.Pointer(unsafe.SliceData(raw))
	if uintptr(ptr)%unsafe.Alignof(zero) != 0 {
		return nil, ErrMisaligned
	}
	return unsafe.Slice((*T)(ptr), len(raw)/size), nil
}
