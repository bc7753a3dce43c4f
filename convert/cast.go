package convert

import (
	"github.com/x448/float16"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
)

// Cast converts a single sample between component types.
//
//   - same type: unchanged
//   - float to float: numeric conversion
//   - float to integer: clamp to [0, 1], then scale to the integer maximum
//   - integer to float: divide by the integer maximum
//   - integer narrowing: keep the most significant bits
//   - integer widening: replicate the bit pattern (0xAB -> 0xABAB)
func Cast[To, From pixel.Component](v From) To {
	return caster[To, From]()(v)
}

// caster returns the scalar conversion from From to To. Callers converting
// many samples should fetch it once.
func caster[To, From pixel.Component]() func(From) To {
	from, to := pixel.ComponentTypeOf[From](), pixel.ComponentTypeOf[To]()
	if from == to {
		return func(v From) To { return To(v) }
	}

	switch {
	case !from.IsFloat() && !to.IsFloat():
		fb, tb := uint(from.Bits()), uint(to.Bits())
		if fb > tb {
			shift := fb - tb
			return func(v From) To { return To(uint32(v) >> shift) }
		}
		mul := replicator(fb, tb)
		return func(v From) To { return To(uint32(v) * mul) }

	case !from.IsFloat():
		inv := 1 / intMax(from)
		if to == pixel.F16 {
			return func(v From) To {
				return To(float16.Fromfloat32(float32(float64(uint32(v)) * inv)).Bits())
			}
		}
		return func(v From) To { return To(float32(float64(uint32(v)) * inv)) }

	case !to.IsFloat():
		scale := intMax(to)
		read := floatReader[From](from)
		return func(v From) To { return To(uint32(clampUnit(read(v))*scale + 0.5)) }

	case to == pixel.F16:
		// f32 -> f16
		return func(v From) To { return To(float16.Fromfloat32(float32(v)).Bits()) }

	default:
		// f16 -> f32
		return func(v From) To { return To(float16.Frombits(uint16(v)).Float32()) }
	}
}

// replicator returns the multiplier that repeats a fb-bit pattern to fill
// tb bits: 0x0101 for 8->16, 0x01010101 for 8->32, 0x00010001 for 16->32.
func replicator(fb, tb uint) uint32 {
	var mul uint32
	for shift := uint(0); shift < tb; shift += fb {
		mul |= 1 << shift
	}
	return mul
}

func intMax(c pixel.ComponentType) float64 {
	return float64(uint64(1)<<uint(c.Bits()) - 1)
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x >= 0 {
		return x
	}
	// negative or NaN
	return 0
}

// floatReader returns a function reading a float sample of type T as
// float64. c must be F16 or F32.
func floatReader[T pixel.Component](c pixel.ComponentType) func(T) float64 {
	if c == pixel.F16 {
		return func(v T) float64 { return float64(float16.Frombits(uint16(v)).Float32()) }
	}
	return func(v T) float64 { return float64(float32(v)) }
}

// unit returns functions mapping samples of T to and from the nominal
// [0, 1] range in float64. Integer results are clamped and rounded; float
// results are stored as is.
func unit[T pixel.Component]() (toUnit func(T) float64, fromUnit func(float64) T) {
	c := pixel.ComponentTypeOf[T]()
	switch c {
	case pixel.F16:
		return floatReader[T](c), func(x float64) T { return T(float16.Fromfloat32(float32(x)).Bits()) }
	case pixel.F32:
		return floatReader[T](c), func(x float64) T { return T(float32(x)) }
	default:
		m := intMax(c)
		return func(v T) float64 { return float64(uint32(v)) / m },
			func(x float64) T { return T(uint32(clampUnit(x)*m + 0.5)) }
	}
}

// rowCaster returns a kernel converting a row of samples from one component
// type to another. dst and src must be aligned and hold the same number of
// samples; both are in host byte order.
func rowCaster(to, from pixel.ComponentType) (func(dst, src []byte), error) {
	switch from {
	case pixel.U8:
		return rowCasterFrom[uint8](to)
	case pixel.U16:
		return rowCasterFrom[uint16](to)
	case pixel.U32:
		return rowCasterFrom[uint32](to)
	case pixel.F16:
		return rowCasterFrom[float16.Float16](to)
	case pixel.F32:
		return rowCasterFrom[float32](to)
	default:
		return nil, pixel.Unsupported(pixel.Format{Component: from, Layout: pixel.Gray})
	}
}

func rowCasterFrom[From pixel.Component](to pixel.ComponentType) (func(dst, src []byte), error) {
	switch to {
	case pixel.U8:
		return castKernel[uint8, From](), nil
	case pixel.U16:
		return castKernel[uint16, From](), nil
	case pixel.U32:
		return castKernel[uint32, From](), nil
	case pixel.F16:
		return castKernel[float16.Float16, From](), nil
	case pixel.F32:
		return castKernel[float32, From](), nil
	default:
		return nil, pixel.Unsupported(pixel.Format{Component: to, Layout: pixel.Gray})
	}
}

func castKernel[To, From pixel.Component]() func(dst, src []byte) {
	f := caster[To, From]()
	return func(dst, src []byte) {
		d, err := buffer.Samples[To](dst)
		if err != nil {
			panic(err)
		}
		s, err := buffer.Samples[From](src)
		if err != nil {
			panic(err)
		}
		for i, v := range s[:len(d)] {
			d[i] = f(v)
		}
	}
}
