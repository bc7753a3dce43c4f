// Package texture is the alternate storage for decoded frames: a GPU texture
// reached through the gpucontext interfaces.
//
// Texture contents are always little endian and tightly packed on upload.
// Readback uses WebGPU's copy layout, whose rows are padded to
// [RowPitchAlignment] bytes.
package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixio/pixel"
)

// RowPitchAlignment is the BytesPerRow alignment of texture copies.
const RowPitchAlignment = 256

var (
	// ErrNoDevice is returned when an operation needs a device and none was given.
	ErrNoDevice = errors.New("texture: no device")

	// ErrNotWritable is returned when a texture accepts no pixel updates.
	ErrNotWritable = errors.New("texture: texture does not accept pixel data")

	// ErrNotReadable is returned when the device cannot read textures back.
	ErrNotReadable = errors.New("texture: device cannot read textures")
)

// Device creates textures.
type Device interface {
	CreateTexture(desc gputypes.TextureDescriptor) (gpucontext.Texture, error)
}

// Reader copies texture contents into host memory. dst holds
// layout.RowsPerImage rows of layout.BytesPerRow bytes.
type Reader interface {
	ReadTexture(tex gpucontext.Texture, layout gputypes.TextureDataLayout, dst []byte) error
}

// Texture is a GPU texture holding one frame.
type Texture struct {
	tex    gpucontext.Texture
	format pixel.Format
	desc   gputypes.TextureDescriptor
}

// Wrap adopts an existing texture whose texels are in format f. Backends
// that decode straight to the GPU use it to hand their result over.
func Wrap(tex gpucontext.Texture, f pixel.Format) (*Texture, error) {
	tf, err := FormatFor(f)
	if err != nil {
		return nil, err
	}
	return &Texture{
		tex:    tex,
		format: f,
		desc:   Descriptor(tex.Width(), tex.Height(), tf),
	}, nil
}

// Width returns the width in texels.
func (t *Texture) Width() int { return t.tex.Width() }

// Height returns the height in texels.
func (t *Texture) Height() int { return t.tex.Height() }

// Format returns the pixel format of the texels.
func (t *Texture) Format() pixel.Format { return t.format }

// Descriptor returns the descriptor the texture was created with.
func (t *Texture) Descriptor() gputypes.TextureDescriptor { return t.desc }

// Handle returns the underlying gpucontext texture.
func (t *Texture) Handle() gpucontext.Texture { return t.tex }

// Descriptor returns the descriptor of a sampled 2D texture that can be
// copied to and from.
func Descriptor(width, height int, tf gputypes.TextureFormat) gputypes.TextureDescriptor {
	return gputypes.TextureDescriptor{
		Label:         "pixio frame",
		Size:          gputypes.NewExtent2D(uint32(width), uint32(height)),
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        tf,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc,
	}
}

// formatTable maps each layout with a texture equivalent to its formats,
// indexed by component type.
var formatTable = map[pixel.Layout][5]gputypes.TextureFormat{
	pixel.Gray: {
		pixel.U8:  gputypes.TextureFormatR8Unorm,
		pixel.U16: gputypes.TextureFormatR16Unorm,
		pixel.U32: gputypes.TextureFormatR32Uint,
		pixel.F16: gputypes.TextureFormatR16Float,
		pixel.F32: gputypes.TextureFormatR32Float,
	},
	pixel.GrayAlpha: {
		pixel.U8:  gputypes.TextureFormatRG8Unorm,
		pixel.U16: gputypes.TextureFormatRG16Unorm,
		pixel.U32: gputypes.TextureFormatRG32Uint,
		pixel.F16: gputypes.TextureFormatRG16Float,
		pixel.F32: gputypes.TextureFormatRG32Float,
	},
	pixel.RGBA: {
		pixel.U8:  gputypes.TextureFormatRGBA8Unorm,
		pixel.U16: gputypes.TextureFormatRGBA16Unorm,
		pixel.U32: gputypes.TextureFormatRGBA32Uint,
		pixel.F16: gputypes.TextureFormatRGBA16Float,
		pixel.F32: gputypes.TextureFormatRGBA32Float,
	},
}

// FormatFor returns the texture format storing pixels of format f. RGB has
// no texture equivalent; convert with UploadFormat first.
func FormatFor(f pixel.Format) (gputypes.TextureFormat, error) {
	formats, ok := formatTable[f.Layout]
	if !ok || !f.Component.Valid() {
		return 0, pixel.Unsupported(f)
	}
	return formats[f.Component], nil
}

// PixelFormatOf returns the pixel format whose texels tf stores.
func PixelFormatOf(tf gputypes.TextureFormat) (pixel.Format, bool) {
	for layout, formats := range formatTable {
		for c, f := range formats {
			if f == tf {
				return pixel.Format{Component: pixel.ComponentType(c), Layout: layout}, true
			}
		}
	}
	return pixel.Format{}, false
}

// UploadFormat returns the pixel format a buffer in format f is converted
// to before upload: RGB gains an alpha channel, everything else is kept.
func UploadFormat(f pixel.Format) pixel.Format {
	if f.Layout == pixel.RGB {
		return f.WithLayout(pixel.RGBA)
	}
	return f
}

// RowPitch returns the padded number of bytes per row used for readback.
func RowPitch(width int, f pixel.Format) int {
	n := f.RowBytes(width)
	return (n + RowPitchAlignment - 1) &^ (RowPitchAlignment - 1)
}

func checkSize(tex gpucontext.Texture, width, height int) error {
	if tex.Width() != width || tex.Height() != height {
		return fmt.Errorf("texture: device returned %dx%d texture, want %dx%d",
			tex.Width(), tex.Height(), width, height)
	}
	return nil
}
