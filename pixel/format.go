// Package pixel describes how pixels are stored in memory.
//
// A [Format] pairs a [ComponentType] (the encoding of one sample) with a
// [Layout] (which channels a pixel has). Every pixel buffer carries exactly
// one Format describing its physical layout. The generic shapes [GrayPixel],
// [GrayAlphaPixel], [RGBPixel] and [RGBAPixel] give typed access to buffer rows.
package pixel

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a pixel format or a conversion between
// two pixel formats has no defined rule.
var ErrUnsupportedFormat = errors.New("pixel: unsupported pixel format")

// Format is a pixel-format descriptor.
type Format struct {
	Component ComponentType
	Layout    Layout
}

// Common formats.
var (
	Gray8   = Format{U8, Gray}
	Gray16  = Format{U16, Gray}
	GrayA8  = Format{U8, GrayAlpha}
	RGB8    = Format{U8, RGB}
	RGBA8   = Format{U8, RGBA}
	RGBA16  = Format{U16, RGBA}
	RGBAF16 = Format{F16, RGBA}
	RGBAF32 = Format{F32, RGBA}
)

// Valid returns true if both the component type and the layout are known.
func (f Format) Valid() bool {
	return f.Component.Valid() && f.Layout.Valid()
}

// Size returns the number of bytes in one pixel.
func (f Format) Size() int {
	return f.Component.Size() * f.Layout.Channels()
}

// RowBytes returns the number of payload bytes for a row of the given width,
// excluding padding.
func (f Format) RowBytes(width int) int {
	return width * f.Size()
}

// WithComponent returns f with the component type replaced.
func (f Format) WithComponent(c ComponentType) Format {
	f.Component = c
	return f
}

// WithLayout returns f with the layout replaced.
func (f Format) WithLayout(l Layout) Format {
	f.Layout = l
	return f
}

// CanConvertTo reports whether a buffer in format f can be converted to
// target. Any component type change is possible; channels can be added but
// never removed.
func (f Format) CanConvertTo(target Format) bool {
	return f.Valid() && target.Valid() && target.Layout.Contains(f.Layout)
}

// Less orders formats by component type, then layout.
func (f Format) Less(other Format) bool {
	if f.Component != other.Component {
		return f.Component < other.Component
	}
	return f.Layout < other.Layout
}

// String returns a representation such as "rgba/u16".
func (f Format) String() string {
	return f.Layout.String() + "/" + f.Component.String()
}

// Unsupported returns an error wrapping ErrUnsupportedFormat that names f.
func Unsupported(f Format) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
}

// UnsupportedConversion returns an error wrapping ErrUnsupportedFormat that
// names both ends of a conversion.
func UnsupportedConversion(from, to Format) error {
	return fmt.Errorf("%w: %s to %s", ErrUnsupportedFormat, from, to)
}
