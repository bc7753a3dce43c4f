package convert

import (
	"errors"
	"fmt"
	"math"

	"github.com/x448/float16"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/internal/cache"
	"github.com/gogpu/pixio/pixel"
)

// ErrInvalidGamma is returned for non-positive or non-finite gamma values.
var ErrInvalidGamma = errors.New("convert: invalid gamma")

// lutKey identifies a gamma lookup table.
type lutKey struct {
	component pixel.ComponentType
	exponent  float64
}

// luts keeps recently used 8- and 16-bit gamma tables.
var luts = cache.New[lutKey, []uint16](16)

// Gamma re-encodes the color channels of b from one gamma to another in
// place: a stored value v becomes v^(from/to). Alpha is left untouched.
// The buffer keeps its byte order; arithmetic happens in host order.
func Gamma(b *buffer.Buffer, from, to float64, host pixel.Endian, opts ...Option) error {
	for _, g := range []float64{from, to} {
		if !(g > 0) || math.IsInf(g, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidGamma, g)
		}
	}
	if from == to {
		return nil
	}

	o := resolve(opts)
	exp := from / to
	withHostOrder(b, host, func() {
		switch b.Format().Component {
		case pixel.U8:
			gammaBuffer[uint8](b, exp, &o)
		case pixel.U16:
			gammaBuffer[uint16](b, exp, &o)
		case pixel.U32:
			gammaBuffer[uint32](b, exp, &o)
		case pixel.F16:
			gammaBuffer[float16.Float16](b, exp, &o)
		case pixel.F32:
			gammaBuffer[float32](b, exp, &o)
		}
	})
	return nil
}

// withHostOrder runs fn with b's samples in host order and restores the
// original order afterwards.
func withHostOrder(b *buffer.Buffer, host pixel.Endian, fn func()) {
	orig := b.Endian()
	SwapEndian(b, host)
	fn()
	SwapEndian(b, orig)
}

func gammaBuffer[T pixel.Component](b *buffer.Buffer, exp float64, o *options) {
	layout := b.Format().Layout
	channels, colors := layout.Channels(), layout.ColorChannels()
	apply := gammaFunc[T](exp)

	o.rows(b.Width(), b.Height(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row, err := buffer.Components[T](b, y)
			if err != nil {
				panic(err)
			}
			for i := 0; i < len(row); i += channels {
				for c := range colors {
					row[i+c] = apply(row[i+c])
				}
			}
		}
	})
}

// gammaFunc returns the per-sample curve. 8- and 16-bit samples go through
// a cached lookup table.
func gammaFunc[T pixel.Component](exp float64) func(T) T {
	c := pixel.ComponentTypeOf[T]()
	if c == pixel.U8 || c == pixel.U16 {
		lut := luts.GetOrCreate(lutKey{component: c, exponent: exp}, func() []uint16 {
			return buildLUT(c, exp)
		})
		return func(v T) T { return T(lut[uint32(v)]) }
	}

	toUnit, fromUnit := unit[T]()
	return func(v T) T {
		x := toUnit(v)
		if !(x > 0) {
			return v
		}
		return fromUnit(math.Pow(x, exp))
	}
}

func buildLUT(c pixel.ComponentType, exp float64) []uint16 {
	m := intMax(c)
	lut := make([]uint16, int(m)+1)
	for i := range lut {
		lut[i] = uint16(math.Pow(float64(i)/m, exp)*m + 0.5)
	}
	return lut
}
