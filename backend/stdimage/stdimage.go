// Package stdimage adapts Go's image decoders to pixio.
//
// PNG, JPEG and GIF use the standard library; BMP, TIFF and WebP use
// golang.org/x/image. Importing the package registers all six backends:
//
//	import _ "github.com/gogpu/pixio/backend/stdimage"
//
// Decoded images are handed over in the closest native pixel format:
// gray, 16-bit and premultiplied images keep their depth and alpha mode
// instead of being flattened to rgba/u8.
package stdimage

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/gogpu/pixio/backend"
	"github.com/gogpu/pixio/decode"
)

// Backends for still image formats.
var (
	PNG  decode.Backend = &still{name: "png", magic: []string{"\x89PNG\r\n\x1a\n"}, decode: png.Decode}
	JPEG decode.Backend = &still{name: "jpeg", magic: []string{"\xff\xd8"}, decode: jpeg.Decode}
	BMP  decode.Backend = &still{name: "bmp", magic: []string{"BM"}, decode: bmp.Decode}
	TIFF decode.Backend = &still{name: "tiff", magic: []string{"II*\x00", "MM\x00*"}, decode: tiff.Decode}
	WebP decode.Backend = &still{name: "webp", magic: []string{"RIFF????WEBP"}, decode: webp.Decode}
)

// GIF decodes still and animated GIFs.
var GIF decode.Backend = &animated{}

// All returns every backend of the package.
func All() []decode.Backend {
	return []decode.Backend{PNG, JPEG, GIF, BMP, TIFF, WebP}
}

func init() {
	for _, b := range All() {
		backend.Register(b)
	}
}

// match reports whether header starts with magic; '?' matches any byte.
func match(header []byte, magic string) bool {
	if len(header) < len(magic) {
		return false
	}
	for i := range len(magic) {
		if magic[i] != header[i] && magic[i] != '?' {
			return false
		}
	}
	return true
}

func matchAny(header []byte, magics []string) bool {
	for _, m := range magics {
		if match(header, m) {
			return true
		}
	}
	return false
}

// still is a single-frame format decoded by an image.Image decoder.
type still struct {
	name   string
	magic  []string
	decode func(io.Reader) (image.Image, error)
}

func (b *still) Name() string { return b.name }

func (b *still) Match(header []byte) bool { return matchAny(header, b.magic) }

func (b *still) Decode(r io.Reader, s *decode.Session) error {
	img, err := b.decode(r)
	if err != nil {
		return decode.Errorf(b.name, "%w", err)
	}
	s.SetFrameCount(1)
	if err := writeFrame(s, img, 0); err != nil {
		return fmt.Errorf("stdimage: %s: %w", b.name, err)
	}
	return nil
}
