// Package memtex implements the texture device contracts in host memory.
//
// It serves tests and callers that want texture-shaped storage without a
// GPU. Textures keep their texels tightly packed.
package memtex

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pixio/texture"
)

// ErrForeignTexture is returned when a texture was not created by this package.
var ErrForeignTexture = errors.New("memtex: texture not created by memtex")

// Device creates in-memory textures. It implements texture.Device and
// texture.Reader. The zero value is ready to use.
type Device struct {
	mu      sync.Mutex
	created int
}

var (
	_ texture.Device = (*Device)(nil)
	_ texture.Reader = (*Device)(nil)
)

// CreateTexture allocates a zeroed texture.
func (d *Device) CreateTexture(desc gputypes.TextureDescriptor) (gpucontext.Texture, error) {
	f, ok := texture.PixelFormatOf(desc.Format)
	if !ok {
		return nil, fmt.Errorf("memtex: unsupported texture format %v", desc.Format)
	}
	w, h := int(desc.Size.Width), int(desc.Size.Height)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("memtex: invalid size %dx%d", w, h)
	}
	d.mu.Lock()
	d.created++
	d.mu.Unlock()
	return &Texture{
		width:  w,
		height: h,
		texel:  f.Size(),
		format: desc.Format,
		data:   make([]byte, w*h*f.Size()),
	}, nil
}

// Created returns how many textures the device has created.
func (d *Device) Created() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// ReadTexture copies the texels of tex into dst using layout.
func (d *Device) ReadTexture(tex gpucontext.Texture, layout gputypes.TextureDataLayout, dst []byte) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("%w: %T", ErrForeignTexture, tex)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	rowBytes := t.width * t.texel
	pitch := int(layout.BytesPerRow)
	if pitch < rowBytes {
		return fmt.Errorf("memtex: bytes per row %d < %d", pitch, rowBytes)
	}
	off := int(layout.Offset)
	if need := off + pitch*(t.height-1) + rowBytes; len(dst) < need {
		return fmt.Errorf("memtex: destination holds %d bytes, need %d", len(dst), need)
	}
	for y := range t.height {
		copy(dst[off+y*pitch:], t.data[y*rowBytes:(y+1)*rowBytes])
	}
	return nil
}

// Creator is a Device that also implements gpucontext.TextureCreator, so
// RGBA/u8 uploads take the single-call path.
type Creator struct {
	Device
}

var _ gpucontext.TextureCreator = (*Creator)(nil)

// NewTextureFromRGBA creates an RGBA8 texture holding data.
func (c *Creator) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	tex, err := c.CreateTexture(texture.Descriptor(width, height, gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		return nil, err
	}
	if err := tex.(*Texture).UpdateData(data); err != nil {
		return nil, err
	}
	return tex, nil
}

// Texture is an in-memory texture.
type Texture struct {
	mu     sync.RWMutex
	width  int
	height int
	texel  int
	format gputypes.TextureFormat
	data   []byte
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// Width returns the width in texels.
func (t *Texture) Width() int { return t.width }

// Height returns the height in texels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// Bytes returns a copy of the packed texels.
func (t *Texture) Bytes() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]byte(nil), t.data...)
}

// UpdateData replaces all texels. data must be tightly packed.
func (t *Texture) UpdateData(data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(data) != len(t.data) {
		return fmt.Errorf("memtex: %d bytes for a %d-byte texture", len(data), len(t.data))
	}
	copy(t.data, data)
	return nil
}

// UpdateRegion replaces the texels of a w×h rectangle at (x, y). data must
// be tightly packed.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if x < 0 || y < 0 || w <= 0 || h <= 0 || x+w > t.width || y+h > t.height {
		return fmt.Errorf("memtex: region %dx%d+%d+%d outside %dx%d texture", w, h, x, y, t.width, t.height)
	}
	rowBytes := w * t.texel
	if len(data) != rowBytes*h {
		return fmt.Errorf("memtex: %d bytes for a %dx%d region", len(data), w, h)
	}
	for r := range h {
		off := ((y+r)*t.width + x) * t.texel
		copy(t.data[off:off+rowBytes], data[r*rowBytes:])
	}
	return nil
}
