package frame

import (
	"testing"
	"time"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
	"github.com/gogpu/pixio/texture"
)

type fakeTexture struct{}

func (fakeTexture) Width() int  { return 2 }
func (fakeTexture) Height() int { return 3 }

func TestFrameStorage(t *testing.T) {
	b, err := buffer.New(4, 4, pixel.RGB8, pixel.BigEndian)
	if err != nil {
		t.Fatal(err)
	}
	tex, err := texture.Wrap(fakeTexture{}, pixel.GrayA8)
	if err != nil {
		t.Fatal(err)
	}

	bf := &Frame{Storage: b}
	if bf.Buffer() != b || bf.Texture() != nil {
		t.Error("buffer frame accessors")
	}
	if bf.Target() != TargetBuffer || bf.Endian() != pixel.BigEndian || bf.Format() != pixel.RGB8 {
		t.Errorf("buffer frame = %v %v %v", bf.Target(), bf.Endian(), bf.Format())
	}

	tf := &Frame{Storage: tex}
	if tf.Texture() != tex || tf.Buffer() != nil {
		t.Error("texture frame accessors")
	}
	if tf.Target() != TargetTexture || tf.Endian() != pixel.LittleEndian || tf.Format() != pixel.GrayA8 {
		t.Errorf("texture frame = %v %v %v", tf.Target(), tf.Endian(), tf.Format())
	}
	if tf.Storage.Width() != 2 || tf.Storage.Height() != 3 {
		t.Errorf("texture size = %dx%d", tf.Storage.Width(), tf.Storage.Height())
	}
}

func TestImage(t *testing.T) {
	tests := []struct {
		name       string
		img        Image
		animated   bool
		incomplete bool
	}{
		{"empty", Image{}, false, true},
		{"still", Image{Frames: []*Frame{{}}}, false, false},
		{"animation", Image{Frames: []*Frame{{Duration: time.Second}, {}}, Expected: 2}, true, false},
		{"cancelled", Image{Frames: []*Frame{{Duration: time.Second}}, Expected: 3}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.img.Animated(); got != tt.animated {
				t.Errorf("Animated() = %v, want %v", got, tt.animated)
			}
			if got := tt.img.Incomplete(); got != tt.incomplete {
				t.Errorf("Incomplete() = %v, want %v", got, tt.incomplete)
			}
		})
	}
	if (&Image{}).First() != nil {
		t.Error("First() of empty image should be nil")
	}
}

func TestTargetString(t *testing.T) {
	if TargetBuffer.String() != "buffer" || TargetTexture.String() != "texture" {
		t.Error("Target.String")
	}
}
