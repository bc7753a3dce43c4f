package texture

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/convert"
	"github.com/gogpu/pixio/internal/logging"
	"github.com/gogpu/pixio/pixel"
)

// Upload copies b into a new texture created on dev. The buffer is first
// converted to UploadFormat in little endian order; b itself is unchanged.
//
// RGBA/u8 frames go through gpucontext.TextureCreator when dev implements
// it. Otherwise the texture is created with CreateTexture and filled through
// gpucontext.TextureRegionUpdater or gpucontext.TextureUpdater.
func Upload(dev Device, b *buffer.Buffer, host pixel.Endian, opts ...convert.Option) (*Texture, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	target := UploadFormat(b.Format())
	tf, err := FormatFor(target)
	if err != nil {
		return nil, err
	}
	src, err := convert.PixelFormat(b, target, pixel.LittleEndian, host, opts...)
	if err != nil {
		return nil, fmt.Errorf("texture: upload: %w", err)
	}

	w, h := src.Width(), src.Height()
	data := packed(src)
	logging.Logger().Debug("texture: upload", "width", w, "height", h, "format", tf)

	if creator, ok := dev.(gpucontext.TextureCreator); ok && target == pixel.RGBA8 {
		tex, err := creator.NewTextureFromRGBA(w, h, data)
		if err != nil {
			return nil, fmt.Errorf("texture: create: %w", err)
		}
		if err := checkSize(tex, w, h); err != nil {
			return nil, err
		}
		return &Texture{tex: tex, format: target, desc: Descriptor(w, h, tf)}, nil
	}

	desc := Descriptor(w, h, tf)
	tex, err := dev.CreateTexture(desc)
	if err != nil {
		return nil, fmt.Errorf("texture: create: %w", err)
	}
	if err := checkSize(tex, w, h); err != nil {
		return nil, err
	}
	if err := write(tex, w, h, data); err != nil {
		return nil, err
	}
	return &Texture{tex: tex, format: target, desc: desc}, nil
}

func write(tex gpucontext.Texture, w, h int, data []byte) error {
	switch u := tex.(type) {
	case gpucontext.TextureRegionUpdater:
		if err := u.UpdateRegion(0, 0, w, h, data); err != nil {
			return fmt.Errorf("texture: update region: %w", err)
		}
	case gpucontext.TextureUpdater:
		if err := u.UpdateData(data); err != nil {
			return fmt.Errorf("texture: update: %w", err)
		}
	default:
		return fmt.Errorf("%w: %T", ErrNotWritable, tex)
	}
	return nil
}

// packed returns the payload of b without row padding.
func packed(b *buffer.Buffer) []byte {
	rowBytes := b.Format().RowBytes(b.Width())
	if rowBytes == b.Stride() {
		return b.Data()
	}
	out := make([]byte, 0, rowBytes*b.Height())
	for y := range b.Height() {
		out = append(out, b.Row(y)...)
	}
	return out
}

// Download reads t back into a new little endian buffer of the texture's
// pixel format.
func Download(r Reader, t *Texture, opts ...buffer.Option) (*buffer.Buffer, error) {
	if r == nil {
		return nil, ErrNotReadable
	}
	w, h := t.Width(), t.Height()
	pitch := RowPitch(w, t.format)
	layout := gputypes.TextureDataLayout{
		BytesPerRow:  uint32(pitch),
		RowsPerImage: uint32(h),
	}
	staging := make([]byte, pitch*h)
	if err := r.ReadTexture(t.tex, layout, staging); err != nil {
		return nil, fmt.Errorf("texture: read: %w", err)
	}

	dst, err := buffer.New(w, h, t.format, pixel.LittleEndian, opts...)
	if err != nil {
		return nil, err
	}
	for y := range h {
		copy(dst.Row(y), staging[y*pitch:])
	}
	logging.Logger().Debug("texture: download", "width", w, "height", h, "format", t.desc.Format)
	return dst, nil
}
