package convert

import (
	"github.com/x448/float16"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
)

// AlphaMode converts the color channels of b between straight and
// premultiplied alpha in place. Buffers without alpha are left untouched.
func AlphaMode(b *buffer.Buffer, from, to pixel.AlphaMode, host pixel.Endian, opts ...Option) {
	if from == to || !b.Format().Layout.HasAlpha() {
		return
	}
	premul := to == pixel.Premultiplied
	o := resolve(opts)
	withHostOrder(b, host, func() {
		switch b.Format().Component {
		case pixel.U8:
			alphaBuffer[uint8](b, premul, &o)
		case pixel.U16:
			alphaBuffer[uint16](b, premul, &o)
		case pixel.U32:
			alphaBuffer[uint32](b, premul, &o)
		case pixel.F16:
			alphaBuffer[float16.Float16](b, premul, &o)
		case pixel.F32:
			alphaBuffer[float32](b, premul, &o)
		}
	})
}

// Premultiply scales color by alpha. See AlphaMode.
func Premultiply(b *buffer.Buffer, host pixel.Endian, opts ...Option) {
	AlphaMode(b, pixel.Straight, pixel.Premultiplied, host, opts...)
}

// Unpremultiply divides color by alpha; fully transparent pixels become
// zero. See AlphaMode.
func Unpremultiply(b *buffer.Buffer, host pixel.Endian, opts ...Option) {
	AlphaMode(b, pixel.Premultiplied, pixel.Straight, host, opts...)
}

func alphaBuffer[T pixel.Component](b *buffer.Buffer, premul bool, o *options) {
	channels := b.Format().Layout.Channels()
	colors := channels - 1
	toUnit, fromUnit := unit[T]()

	o.rows(b.Width(), b.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row, err := buffer.Components[T](b, y)
			if err != nil {
				panic(err)
			}
			for i := 0; i < len(row); i += channels {
				a := toUnit(row[i+colors])
				for c := range colors {
					v := toUnit(row[i+c])
					switch {
					case premul:
						v *= a
					case a > 0:
						v /= a
					default:
						v = 0
					}
					row[i+c] = fromUnit(v)
				}
			}
		}
	})
}
