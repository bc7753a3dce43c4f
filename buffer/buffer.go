// Package buffer provides the pixel buffer shared by decode backends, the
// conversion engine and callers.
//
// A Buffer owns a single zero-filled allocation holding height rows of
// stride bytes each. The stride is the payload width rounded up to the
// buffer's alignment, so it is constant across rows and independent of the
// buffer's byte order. The allocation itself starts on an alignment boundary,
// which makes every row start suitable for typed access.
package buffer

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/gogpu/pixio/pixel"
)

// DefaultAlignment is the row alignment used when none is specified.
const DefaultAlignment = 32

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("buffer: invalid dimensions")

	// ErrInvalidFormat is returned when the pixel format is not recognized.
	ErrInvalidFormat = errors.New("buffer: invalid format")

	// ErrInvalidAlignment is returned when the alignment is not a power of two >= 4.
	ErrInvalidAlignment = errors.New("buffer: alignment must be a power of two >= 4")

	// ErrOutOfBounds is returned when row or pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("buffer: coordinates out of bounds")

	// ErrMisaligned is returned when raw bytes cannot be reinterpreted as typed samples.
	ErrMisaligned = errors.New("buffer: row not aligned for typed access")

	// ErrFormatMismatch is returned when a typed view does not match the buffer format.
	ErrFormatMismatch = errors.New("buffer: pixel shape does not match buffer format")
)

// Buffer is a row-major, alignment-padded pixel store.
//
// Buffer is not safe for concurrent use. Operations that change the shape
// of the pixels (format conversion, transposing orientations) produce a new
// Buffer and leave the source untouched.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	align  int
	format pixel.Format
	endian pixel.Endian
}

// Option configures a Buffer during creation.
type Option func(*options)

type options struct {
	alignment int
}

func defaultOptions() options {
	return options{alignment: DefaultAlignment}
}

// WithAlignment sets the row alignment. It must be a power of two >= 4.
func WithAlignment(alignment int) Option {
	return func(o *options) {
		o.alignment = alignment
	}
}

// ValidAlignment returns true if a is a power of two >= 4.
func ValidAlignment(a int) bool {
	return a >= 4 && a&(a-1) == 0
}

// Stride returns the row stride for the given width, format and alignment:
// width*format.Size() rounded up to a multiple of alignment.
func Stride(width int, format pixel.Format, alignment int) int {
	n := format.RowBytes(width)
	return (n + alignment - 1) &^ (alignment - 1)
}

// New creates a zero-filled buffer with the given dimensions, format and
// byte order.
func New(width, height int, format pixel.Format, endian pixel.Endian, opts ...Option) (*Buffer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if !format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
	if !ValidAlignment(o.alignment) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAlignment, o.alignment)
	}

	stride := Stride(width, format, o.alignment)
	return &Buffer{
		data:   alignedBytes(stride*height, o.alignment),
		width:  width,
		height: height,
		stride: stride,
		align:  o.alignment,
		format: format,
		endian: endian,
	}, nil
}

// NewLike creates a zero-filled buffer with the dimensions and alignment of b
// and the given format and byte order.
func NewLike(b *Buffer, format pixel.Format, endian pixel.Endian) (*Buffer, error) {
	return New(b.width, b.height, format, endian, WithAlignment(b.align))
}

// alignedBytes returns a zeroed slice of n bytes whose first element lies on
// an align boundary.
func alignedBytes(n, align int) []byte {
	raw := make([]byte, n+align)
	off := 0
	if rem := int(uintptr(unsafe.Pointer(unsafe.SliceData(raw))) & uintptr(align-1)); rem != 0 {
		off = align - rem
	}
	return raw[off : off+n : off+n]
}

// Clone creates a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := *b
	c.data = alignedBytes(len(b.data), b.align)
	copy(c.data, b.data)
	return &c
}

// Width returns the width in pixels.
func (b *Buffer) Width() int {
	return b.width
}

// Height returns the height in pixels.
func (b *Buffer) Height() int {
	return b.height
}

// Stride returns the number of bytes per row, including padding.
func (b *Buffer) Stride() int {
	return b.stride
}

// Alignment returns the row alignment in bytes.
func (b *Buffer) Alignment() int {
	return b.align
}

// Format returns the pixel format.
func (b *Buffer) Format() pixel.Format {
	return b.format
}

// Endian returns the byte order of multi-byte samples.
func (b *Buffer) Endian() pixel.Endian {
	return b.endian
}

// SetEndian records the byte order of the samples without touching them.
// Use it when the data was written in a different order than declared at
// creation, or after swapping bytes externally.
func (b *Buffer) SetEndian(e pixel.Endian) {
	b.endian = e
}

// Data returns the whole backing store, including row padding.
func (b *Buffer) Data() []byte {
	return b.data
}

// SameShape returns true if other has the same dimensions and format.
func (b *Buffer) SameShape(other *Buffer) bool {
	return other != nil && b.width == other.width && b.height == other.height && b.format == other.format
}

// RowBytes returns the payload bytes of row y, excluding padding.
func (b *Buffer) RowBytes(y int) ([]byte, error) {
	if y < 0 || y >= b.height {
		return nil, fmt.Errorf("%w: row %d of %d", ErrOutOfBounds, y, b.height)
	}
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)], nil
}

// row returns the payload of row y without bounds reporting. Callers inside
// the module guarantee 0 <= y < height.
func (b *Buffer) row(y int) []byte {
	start := y * b.stride
	return b.data[start : start+b.format.RowBytes(b.width)]
}

// Row returns the payload bytes of row y. It panics if y is out of range;
// use RowBytes for checked access.
func (b *Buffer) Row(y int) []byte {
	if y < 0 || y >= b.height {
		panic(fmt.Sprintf("buffer: row %d out of range [0,%d)", y, b.height))
	}
	return b.row(y)
}

// PixelBytes returns the raw bytes of pixel (x, y).
func (b *Buffer) PixelBytes(x, y int) ([]byte, error) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return nil, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	size := b.format.Size()
	off := y*b.stride + x*size
	return b.data[off : off+size], nil
}

// Clear sets all bytes, including padding, to zero.
func (b *Buffer) Clear() {
	clear(b.data)
}

// SetPixelBytes copies px into pixel (x, y). px must hold format.Size() bytes.
func (b *Buffer) SetPixelBytes(x, y int, px []byte) error {
	dst, err := b.PixelBytes(x, y)
	if err != nil {
		return err
	}
	if len(px) != len(dst) {
		return fmt.Errorf("%w: %d bytes for a %d-byte pixel", ErrFormatMismatch, len(px), len(dst))
	}
	copy(dst, px)
	return nil
}
