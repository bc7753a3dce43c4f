package stdimage

import (
	"image"
	"image/color"
	"time"

	"github.com/gogpu/pixio/decode"
	"github.com/gogpu/pixio/pixel"
)

// readyEvery is how many rows are written between readiness reports.
const readyEvery = 16

// source describes how to copy an image's rows into a frame buffer.
type source struct {
	format pixel.Format
	endian pixel.Endian
	alpha  pixel.AlphaMode
	pix    []byte
	stride int
	row    func(dst []byte, y int) // used when pix is nil
}

// sourceOf picks the frame format closest to img. Images in one of the
// memory layouts below are copied row by row; anything else is converted
// through color.NRGBAModel.
func sourceOf(img image.Image) source {
	switch m := img.(type) {
	case *image.Gray:
		return source{format: pixel.Gray8, pix: m.Pix, stride: m.Stride}
	case *image.Gray16:
		return source{format: pixel.Gray16, endian: pixel.BigEndian, pix: m.Pix, stride: m.Stride}
	case *image.NRGBA:
		return source{format: pixel.RGBA8, pix: m.Pix, stride: m.Stride}
	case *image.RGBA:
		return source{format: pixel.RGBA8, alpha: pixel.Premultiplied, pix: m.Pix, stride: m.Stride}
	case *image.NRGBA64:
		return source{format: pixel.RGBA16, endian: pixel.BigEndian, pix: m.Pix, stride: m.Stride}
	case *image.RGBA64:
		return source{format: pixel.RGBA16, endian: pixel.BigEndian, alpha: pixel.Premultiplied, pix: m.Pix, stride: m.Stride}
	}

	b := img.Bounds()
	return source{
		format: pixel.RGBA8,
		row: func(dst []byte, y int) {
			for x := range b.Dx() {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				dst[x*4+0] = c.R
				dst[x*4+1] = c.G
				dst[x*4+2] = c.B
				dst[x*4+3] = c.A
			}
		},
	}
}

// writeFrame delivers img as one frame, reporting readiness as rows are
// copied. It returns nil without finishing the frame when the decode is
// cancelled.
func writeFrame(s *decode.Session, img image.Image, d time.Duration) error {
	src := sourceOf(img)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	buf, ok, err := s.BeginFrame(decode.Header{
		Width:    w,
		Height:   h,
		Format:   src.format,
		Endian:   src.endian,
		Alpha:    src.alpha,
		Duration: d,
	})
	if err != nil || !ok {
		return err
	}

	rowBytes := src.format.RowBytes(w)
	for y := range h {
		dst := buf.Row(y)
		if src.pix != nil {
			off := y * src.stride
			copy(dst, src.pix[off:off+rowBytes])
		} else {
			src.row(dst, y)
		}
		if (y+1)%readyEvery == 0 || y == h-1 {
			if !s.MarkReadyUntilLine(y + 1) {
				return nil
			}
		}
	}
	_, err = s.FinishFrame()
	return err
}
