package texture_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
	"github.com/gogpu/pixio/texture/memtex"
)

var host = pixel.HostEndian()

func TestFormatFor(t *testing.T) {
	tests := []struct {
		format  pixel.Format
		want    gputypes.TextureFormat
		wantErr bool
	}{
		{pixel.Gray8, gputypes.TextureFormatR8Unorm, false},
		{pixel.Gray16, gputypes.TextureFormatR16Unorm, false},
		{pixel.GrayA8, gputypes.TextureFormatRG8Unorm, false},
		{pixel.RGBA8, gputypes.TextureFormatRGBA8Unorm, false},
		{pixel.RGBA16, gputypes.TextureFormatRGBA16Unorm, false},
		{pixel.RGBAF16, gputypes.TextureFormatRGBA16Float, false},
		{pixel.RGBAF32, gputypes.TextureFormatRGBA32Float, false},
		{pixel.Format{Component: pixel.U32, Layout: pixel.Gray}, gputypes.TextureFormatR32Uint, false},
		{pixel.RGB8, 0, true},
		{pixel.Format{Component: 9, Layout: pixel.RGBA}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := texture.FormatFor(tt.format)
			if tt.wantErr {
				if !errors.Is(err, pixel.ErrUnsupportedFormat) {
					t.Errorf("error = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("FormatFor = %v, want %v", got, tt.want)
			}
			back, ok := texture.PixelFormatOf(got)
			if !ok || back != tt.format {
				t.Errorf("PixelFormatOf(%v) = %v, %v; want %v", got, back, ok, tt.format)
			}
		})
	}
}

func TestUploadFormat(t *testing.T) {
	if got := texture.UploadFormat(pixel.RGB8); got != pixel.RGBA8 {
		t.Errorf("UploadFormat(rgb/u8) = %v, want rgba/u8", got)
	}
	if got := texture.UploadFormat(pixel.GrayA8); got != pixel.GrayA8 {
		t.Errorf("UploadFormat(gray+alpha/u8) = %v, want unchanged", got)
	}
}

func TestRowPitch(t *testing.T) {
	tests := []struct {
		width int
		f     pixel.Format
		want  int
	}{
		{1, pixel.RGBA8, 256},
		{64, pixel.RGBA8, 256},
		{65, pixel.RGBA8, 512},
		{100, pixel.RGBAF32, 1792},
	}
	for _, tt := range tests {
		if got := texture.RowPitch(tt.width, tt.f); got != tt.want {
			t.Errorf("RowPitch(%d, %v) = %d, want %d", tt.width, tt.f, got, tt.want)
		}
	}
}

func rgbBuffer(t *testing.T) *buffer.Buffer {
	t.Helper()
	b, err := buffer.New(3, 2, pixel.RGB8, host)
	if err != nil {
		t.Fatal(err)
	}
	copy(b.Row(0), []byte{1, 2, 3, 4, 5, 6, 7, 8, 9})
	copy(b.Row(1), []byte{10, 11, 12, 13, 14, 15, 16, 17, 18})
	return b
}

var rgbaWant = []byte{
	1, 2, 3, 255, 4, 5, 6, 255, 7, 8, 9, 255,
	10, 11, 12, 255, 13, 14, 15, 255, 16, 17, 18, 255,
}

func TestUploadDownload(t *testing.T) {
	tests := []struct {
		name string
		dev  interface {
			texture.Device
			texture.Reader
		}
	}{
		{"region updater", &memtex.Device{}},
		{"texture creator", &memtex.Creator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tex, err := texture.Upload(tt.dev, rgbBuffer(t), host)
			if err != nil {
				t.Fatal(err)
			}
			if tex.Format() != pixel.RGBA8 || tex.Width() != 3 || tex.Height() != 2 {
				t.Fatalf("texture = %v %dx%d", tex.Format(), tex.Width(), tex.Height())
			}
			if tex.Descriptor().Format != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("descriptor format = %v", tex.Descriptor().Format)
			}
			mem := tex.Handle().(*memtex.Texture)
			if got := mem.Bytes(); !bytes.Equal(got, rgbaWant) {
				t.Errorf("texels = %v, want %v", got, rgbaWant)
			}

			back, err := texture.Download(tt.dev, tex)
			if err != nil {
				t.Fatal(err)
			}
			if back.Format() != pixel.RGBA8 || back.Endian() != pixel.LittleEndian {
				t.Fatalf("download = %v %v", back.Format(), back.Endian())
			}
			got := append(append([]byte(nil), back.Row(0)...), back.Row(1)...)
			if !bytes.Equal(got, rgbaWant) {
				t.Errorf("downloaded = %v, want %v", got, rgbaWant)
			}
		})
	}
}

func TestUploadLittleEndian(t *testing.T) {
	b, err := buffer.New(2, 1, pixel.Gray16, pixel.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	copy(b.Row(0), []byte{0x12, 0x34, 0xab, 0xcd})

	dev := &memtex.Device{}
	tex, err := texture.Upload(dev, b, host)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x34, 0x12, 0xcd, 0xab}
	if got := tex.Handle().(*memtex.Texture).Bytes(); !bytes.Equal(got, want) {
		t.Errorf("texels = % x, want % x", got, want)
	}
	if b.Endian() != pixel.BigEndian || !bytes.Equal(b.Row(0), []byte{0x12, 0x34, 0xab, 0xcd}) {
		t.Error("Upload modified the source buffer")
	}
}

type fixedTexture struct{ w, h int }

func (f fixedTexture) Width() int  { return f.w }
func (f fixedTexture) Height() int { return f.h }

type readOnlyDevice struct{}

func (readOnlyDevice) CreateTexture(desc gputypes.TextureDescriptor) (gpucontext.Texture, error) {
	return fixedTexture{int(desc.Size.Width), int(desc.Size.Height)}, nil
}

func TestUploadErrors(t *testing.T) {
	if _, err := texture.Upload(nil, rgbBuffer(t), host); !errors.Is(err, texture.ErrNoDevice) {
		t.Errorf("nil device error = %v, want ErrNoDevice", err)
	}
	if _, err := texture.Upload(readOnlyDevice{}, rgbBuffer(t), host); !errors.Is(err, texture.ErrNotWritable) {
		t.Errorf("read-only texture error = %v, want ErrNotWritable", err)
	}
	tex, err := texture.Wrap(fixedTexture{2, 2}, pixel.Gray8)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := texture.Download(nil, tex); !errors.Is(err, texture.ErrNotReadable) {
		t.Errorf("nil reader error = %v, want ErrNotReadable", err)
	}
	if _, err := texture.Download(&memtex.Device{}, tex); !errors.Is(err, memtex.ErrForeignTexture) {
		t.Errorf("foreign texture error = %v, want ErrForeignTexture", err)
	}
}

func TestWrap(t *testing.T) {
	if _, err := texture.Wrap(fixedTexture{1, 1}, pixel.RGB8); !errors.Is(err, pixel.ErrUnsupportedFormat) {
		t.Errorf("Wrap(rgb) error = %v, want ErrUnsupportedFormat", err)
	}
	tex, err := texture.Wrap(fixedTexture{4, 3}, pixel.RGBAF16)
	if err != nil {
		t.Fatal(err)
	}
	d := tex.Descriptor()
	if d.Size.Width != 4 || d.Size.Height != 3 || d.Format != gputypes.TextureFormatRGBA16Float {
		t.Errorf("descriptor = %+v", d)
	}
}
