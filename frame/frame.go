// Package frame holds decoded frames and the result of a decode.
package frame

import (
	"time"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/orient"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
)

// Target selects where frame pixels live.
type Target uint8

const (
	// TargetBuffer stores pixels in a host memory *buffer.Buffer.
	TargetBuffer Target = iota

	// TargetTexture stores pixels in a *texture.Texture.
	TargetTexture
)

// String returns "buffer" or "texture".
func (t Target) String() string {
	if t == TargetTexture {
		return "texture"
	}
	return "buffer"
}

// Storage is the capability shared by both pixel stores. Its dynamic type is
// either *buffer.Buffer or *texture.Texture; use a type switch, or the
// Buffer and Texture helpers, to reach the concrete store.
type Storage interface {
	Width() int
	Height() int
	Format() pixel.Format
}

var (
	_ Storage = (*buffer.Buffer)(nil)
	_ Storage = (*texture.Texture)(nil)
)

// TargetOf returns the target s belongs to.
func TargetOf(s Storage) Target {
	if _, ok := s.(*texture.Texture); ok {
		return TargetTexture
	}
	return TargetBuffer
}

// Frame is one decoded image.
type Frame struct {
	// Storage holds the pixels.
	Storage Storage

	// Orientation is the isometry that still has to be applied for the
	// pixels to display upright. It is Identity once corrected.
	Orientation orient.Isometry

	// AlphaMode tells whether color is premultiplied by alpha.
	AlphaMode pixel.AlphaMode

	// Gamma is the encoding gamma of the samples, 1.0 for linear.
	Gamma float64

	// Duration is the display time of an animation frame; zero for stills.
	Duration time.Duration

	// Index is the position of the frame in the image.
	Index int
}

// Buffer returns the frame's buffer, or nil if it lives in a texture.
func (f *Frame) Buffer() *buffer.Buffer {
	b, _ := f.Storage.(*buffer.Buffer)
	return b
}

// Texture returns the frame's texture, or nil if it lives in a buffer.
func (f *Frame) Texture() *texture.Texture {
	t, _ := f.Storage.(*texture.Texture)
	return t
}

// Target returns where the frame's pixels live.
func (f *Frame) Target() Target {
	return TargetOf(f.Storage)
}

// Format returns the pixel format of the frame.
func (f *Frame) Format() pixel.Format {
	return f.Storage.Format()
}

// Endian returns the byte order of the frame's samples. Textures are always
// little endian.
func (f *Frame) Endian() pixel.Endian {
	if b := f.Buffer(); b != nil {
		return b.Endian()
	}
	return pixel.LittleEndian
}

// Image is the result of a decode.
type Image struct {
	// Frames in display order.
	Frames []*Frame

	// Warnings are the non-fatal problems reported while decoding.
	Warnings []string

	// Expected is the number of frames the source announced, zero if unknown.
	Expected int
}

// Animated reports whether any frame has a display duration.
func (img *Image) Animated() bool {
	for _, f := range img.Frames {
		if f.Duration > 0 {
			return true
		}
	}
	return false
}

// Incomplete reports whether fewer frames arrived than the source
// announced, which happens when a decode is cancelled.
func (img *Image) Incomplete() bool {
	want := img.Expected
	if want == 0 {
		want = 1
	}
	return len(img.Frames) < want
}

// First returns the first frame, or nil if there is none.
func (img *Image) First() *Frame {
	if len(img.Frames) == 0 {
		return nil
	}
	return img.Frames[0]
}
