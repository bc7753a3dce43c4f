package negotiate

import (
	"errors"
	"testing"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/frame"
	"github.com/gogpu/pixio/orient"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/pref"
	"github.com/gogpu/pixio/texture"
	"github.com/gogpu/pixio/texture/memtex"
)

var host = pixel.HostEndian()

func bufferFrame(t *testing.T, w, h int, f pixel.Format) *frame.Frame {
	t.Helper()
	b, err := buffer.New(w, h, f, host)
	if err != nil {
		t.Fatal(err)
	}
	for y := range h {
		row := b.Row(y)
		for i := range row {
			row[i] = byte(y*16 + i + 1)
		}
	}
	return &frame.Frame{Storage: b, Gamma: DefaultGamma}
}

func TestStandard(t *testing.T) {
	of := Standard(host)
	f := bufferFrame(t, 2, 2, pixel.Gray16)
	f.Orientation = orient.RotateCW

	if !of.SatisfiedBy(f) {
		t.Error("Prefer-only format should be satisfied by any frame")
	}
	if of.PreferenceSatisfiedBy(f) {
		t.Error("gray/u16 rotated frame should not match the preferences")
	}

	e := of.Enforce()
	if e.Component.Level != pref.LevelRequire || e.Target.Level != pref.LevelRequire || e.Gamma.Level != pref.LevelRequire {
		t.Errorf("Enforce did not promote: %+v", e)
	}
	if e.SatisfiedBy(f) {
		t.Error("enforced format should reject the frame")
	}
	if of.Component.Level != pref.LevelPrefer {
		t.Error("Enforce modified its receiver")
	}
}

func TestFormatPredicates(t *testing.T) {
	tests := []struct {
		name       string
		of         OutputFormat
		f          pixel.Format
		strict     bool
		preference bool
	}{
		{"zero value", OutputFormat{}, pixel.RGB8, true, true},
		{"require component mismatch", OutputFormat{Component: pref.Require(pixel.U16)}, pixel.RGB8, false, false},
		{"prefer component mismatch", OutputFormat{Component: pref.Prefer(pixel.U16)}, pixel.RGB8, true, false},
		{"require alpha on rgb", OutputFormat{FillAlpha: pref.Require(true)}, pixel.RGB8, false, false},
		{"require alpha on rgba", OutputFormat{FillAlpha: pref.Require(true)}, pixel.RGBA8, true, true},
		{"no alpha requested on rgba", OutputFormat{FillAlpha: pref.Require(false)}, pixel.RGBA8, true, true},
		{"require color on gray", OutputFormat{ExpandGray: pref.Require(true)}, pixel.GrayA8, false, false},
		{"prefer color on gray", OutputFormat{ExpandGray: pref.Prefer(true)}, pixel.Gray8, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.of.FormatSatisfiedBy(tt.f); got != tt.strict {
				t.Errorf("FormatSatisfiedBy = %v, want %v", got, tt.strict)
			}
			if got := tt.of.FormatPreferenceSatisfiedBy(tt.f); got != tt.preference {
				t.Errorf("FormatPreferenceSatisfiedBy = %v, want %v", got, tt.preference)
			}
		})
	}
}

func TestAlphaModeIgnoredWithoutAlpha(t *testing.T) {
	of := OutputFormat{Alpha: pref.Require(pixel.Premultiplied)}
	f := bufferFrame(t, 1, 1, pixel.RGB8)
	if !of.SatisfiedBy(f) {
		t.Error("alpha mode should not matter for rgb")
	}
	f = bufferFrame(t, 1, 1, pixel.RGBA8)
	if of.SatisfiedBy(f) {
		t.Error("straight rgba should fail a premultiplied requirement")
	}
}

func TestImagePredicates(t *testing.T) {
	of := OutputFormat{Component: pref.Require(pixel.U8)}
	img := &frame.Image{Frames: []*frame.Frame{
		bufferFrame(t, 1, 1, pixel.RGB8),
		bufferFrame(t, 1, 1, pixel.RGBA16),
	}}
	if of.ImageSatisfiedBy(img) || of.ImagePreferenceSatisfiedBy(img) {
		t.Error("image with a u16 frame should fail")
	}
	img.Frames = img.Frames[:1]
	if !of.ImageSatisfiedBy(img) || !of.ImagePreferenceSatisfiedBy(img) {
		t.Error("image with only u8 frames should pass")
	}
}

func TestTargetFormat(t *testing.T) {
	of := Standard(host)
	if got := of.TargetFormat(pixel.Gray16, false); got != pixel.Gray16 {
		t.Errorf("TargetFormat(not enforced) = %v, want gray/u16", got)
	}
	if got := of.TargetFormat(pixel.Gray16, true); got != pixel.RGBA8 {
		t.Errorf("TargetFormat(enforced) = %v, want rgba/u8", got)
	}
	of = OutputFormat{FillAlpha: pref.Require(true)}
	if got := of.TargetFormat(pixel.Gray8, false); got != pixel.GrayA8 {
		t.Errorf("TargetFormat(fill alpha) = %v, want gray+alpha/u8", got)
	}
}

func TestMakeCompatibleGrayToRGBA16(t *testing.T) {
	b, err := buffer.New(2, 2, pixel.Gray8, host)
	if err != nil {
		t.Fatal(err)
	}
	values := []byte{0x00, 0x12, 0x80, 0xff}
	copy(b.Row(0), values[:2])
	copy(b.Row(1), values[2:])
	f := &frame.Frame{Storage: b, Gamma: DefaultGamma}

	of := OutputFormat{
		Component:   pref.Require(pixel.U16),
		ExpandGray:  pref.Require(true),
		FillAlpha:   pref.Require(true),
		Endian:      pref.Require(host),
		Orientation: pref.Require(orient.Identity),
	}
	c := &Converter{Host: host}
	if err := c.MakeCompatible(f, of, false); err != nil {
		t.Fatal(err)
	}
	out := f.Buffer()
	if out == nil || out.Format() != pixel.RGBA16 || out.Width() != 2 || out.Height() != 2 {
		t.Fatalf("result = %+v", f.Storage)
	}
	for y := range 2 {
		row, err := buffer.Row[pixel.RGBAPixel[uint16]](out, y)
		if err != nil {
			t.Fatal(err)
		}
		for x, p := range row {
			v := uint16(values[y*2+x])
			w := v<<8 | v
			if p != (pixel.RGBAPixel[uint16]{R: w, G: w, B: w, A: 0xffff}) {
				t.Errorf("(%d,%d) = %+v", x, y, p)
			}
		}
	}
}

func TestMakeCompatibleOrientation(t *testing.T) {
	f := bufferFrame(t, 3, 2, pixel.RGB8)
	orig := f.Buffer().Clone()
	f.Orientation = orient.RotateCW

	c := &Converter{Host: host}
	if err := c.MakeCompatible(f, Standard(host), false); err != nil {
		t.Fatal(err)
	}
	if f.Orientation != orient.RotateCW || f.Buffer().Width() != 3 {
		t.Fatal("Prefer orientation applied without enforce")
	}

	if err := c.MakeCompatible(f, OutputFormat{Orientation: pref.Prefer(orient.Identity)}, true); err != nil {
		t.Fatal(err)
	}
	if f.Orientation != orient.Identity {
		t.Errorf("Orientation = %v, want identity", f.Orientation)
	}
	b := f.Buffer()
	if b.Width() != 2 || b.Height() != 3 {
		t.Fatalf("size = %dx%d, want 2x3", b.Width(), b.Height())
	}
	for y := range 2 {
		for x := range 3 {
			dx, dy := orient.RotateCW.Map(x, y, 3, 2)
			want, _ := orig.PixelBytes(x, y)
			got, _ := b.PixelBytes(dx, dy)
			if string(got) != string(want) {
				t.Errorf("(%d,%d) -> (%d,%d) = %v, want %v", x, y, dx, dy, got, want)
			}
		}
	}
}

func TestMakeCompatibleAlphaAndGamma(t *testing.T) {
	f := bufferFrame(t, 1, 1, pixel.RGBA8)
	copy(f.Buffer().Row(0), []byte{255, 255, 0, 128})
	f.Gamma = 1

	of := OutputFormat{
		Alpha: pref.Require(pixel.Premultiplied),
		Gamma: pref.Require(2.0),
	}
	c := &Converter{Host: host}
	if err := c.MakeCompatible(f, of, false); err != nil {
		t.Fatal(err)
	}
	if f.AlphaMode != pixel.Premultiplied || f.Gamma != 2 {
		t.Errorf("frame = %v %v", f.AlphaMode, f.Gamma)
	}
	// 255 stays 255 under any gamma, then premultiplies to 128.
	if got := f.Buffer().Row(0); got[0] != 128 || got[2] != 0 || got[3] != 128 {
		t.Errorf("pixel = %v", got)
	}
}

func TestMakeCompatibleGammaOnPremultiplied(t *testing.T) {
	tests := []struct {
		name  string
		alpha pref.Preference[pixel.AlphaMode]
		mode  pixel.AlphaMode
		color byte
	}{
		// 64 over alpha 128 is straight 128; 128 under exponent 2.2 is 56,
		// which premultiplies back to 28.
		{"alpha whatever", pref.Any[pixel.AlphaMode](), pixel.Premultiplied, 28},
		{"alpha kept", pref.Require(pixel.Premultiplied), pixel.Premultiplied, 28},
		{"to straight", pref.Require(pixel.Straight), pixel.Straight, 56},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := bufferFrame(t, 1, 1, pixel.RGBA8)
			copy(f.Buffer().Row(0), []byte{64, 64, 64, 128})
			f.AlphaMode = pixel.Premultiplied
			f.Gamma = DefaultGamma

			of := OutputFormat{Alpha: tt.alpha, Gamma: pref.Require(LinearGamma)}
			c := &Converter{Host: host}
			if err := c.MakeCompatible(f, of, false); err != nil {
				t.Fatal(err)
			}
			if f.AlphaMode != tt.mode || f.Gamma != LinearGamma {
				t.Errorf("frame = %v %v, want %v %v", f.AlphaMode, f.Gamma, tt.mode, LinearGamma)
			}
			got := f.Buffer().Row(0)
			for i := range 3 {
				if d := int(got[i]) - int(tt.color); d < -1 || d > 1 {
					t.Errorf("channel %d = %d, want %d±1", i, got[i], tt.color)
				}
			}
			if got[3] != 128 {
				t.Errorf("alpha = %d, want 128", got[3])
			}
		})
	}
}

func TestMakeCompatibleTexture(t *testing.T) {
	dev := &memtex.Device{}
	c := &Converter{Host: host, Device: dev, Reader: dev}
	f := bufferFrame(t, 2, 2, pixel.RGB8)

	if err := c.MakeCompatible(f, OutputFormat{Target: pref.Require(frame.TargetTexture)}, false); err != nil {
		t.Fatal(err)
	}
	if f.Texture() == nil || f.Format() != pixel.RGBA8 || dev.Created() != 1 {
		t.Fatalf("frame not uploaded: %v %v", f.Target(), f.Format())
	}

	// A host-side step reads the texture back.
	of := OutputFormat{Component: pref.Require(pixel.U16)}
	if err := c.MakeCompatible(f, of, false); err != nil {
		t.Fatal(err)
	}
	if f.Buffer() == nil || f.Format() != pixel.RGBA16 {
		t.Fatalf("frame = %v %v", f.Target(), f.Format())
	}

	if err := c.MakeCompatible(f, OutputFormat{Target: pref.Require(frame.TargetTexture)}, false); err != nil {
		t.Fatal(err)
	}
	err := c.MakeCompatible(f, OutputFormat{Endian: pref.Require(pixel.BigEndian)}, false)
	if !errors.Is(err, ErrIncompatible) {
		t.Errorf("big endian texture error = %v, want ErrIncompatible", err)
	}
}

func TestMakeCompatibleNoDevice(t *testing.T) {
	c := &Converter{Host: host}
	f := bufferFrame(t, 1, 1, pixel.RGBA8)
	err := c.MakeCompatible(f, OutputFormat{Target: pref.Prefer(frame.TargetTexture)}, true)
	if !errors.Is(err, texture.ErrNoDevice) {
		t.Errorf("error = %v, want ErrNoDevice", err)
	}
}

func TestMakeCompatibleEndian(t *testing.T) {
	f := bufferFrame(t, 1, 1, pixel.Gray16)
	row := append([]byte(nil), f.Buffer().Row(0)...)
	c := &Converter{Host: host}
	if err := c.MakeCompatible(f, OutputFormat{Endian: pref.Require(host.Swapped())}, false); err != nil {
		t.Fatal(err)
	}
	got := f.Buffer().Row(0)
	if f.Endian() != host.Swapped() || got[0] != row[1] || got[1] != row[0] {
		t.Errorf("endian = %v, row = %v (was %v)", f.Endian(), got, row)
	}
}
