package convert

import (
	"github.com/gogpu/pixio/pixel"
)

// GrayToGrayAlpha adds an opaque alpha channel.
func GrayToGrayAlpha[T pixel.Component](p pixel.GrayPixel[T]) pixel.GrayAlphaPixel[T] {
	return pixel.GrayAlphaPixel[T]{Y: p.Y, A: pixel.Max[T]()}
}

// GrayToRGB replicates luminance into the three color channels.
func GrayToRGB[T pixel.Component](p pixel.GrayPixel[T]) pixel.RGBPixel[T] {
	return pixel.RGBPixel[T]{R: p.Y, G: p.Y, B: p.Y}
}

// GrayToRGBA replicates luminance and adds an opaque alpha channel.
func GrayToRGBA[T pixel.Component](p pixel.GrayPixel[T]) pixel.RGBAPixel[T] {
	return pixel.RGBAPixel[T]{R: p.Y, G: p.Y, B: p.Y, A: pixel.Max[T]()}
}

// GrayAlphaToRGBA replicates luminance and carries alpha over.
func GrayAlphaToRGBA[T pixel.Component](p pixel.GrayAlphaPixel[T]) pixel.RGBAPixel[T] {
	return pixel.RGBAPixel[T]{R: p.Y, G: p.Y, B: p.Y, A: p.A}
}

// RGBToRGBA adds an opaque alpha channel.
func RGBToRGBA[T pixel.Component](p pixel.RGBPixel[T]) pixel.RGBAPixel[T] {
	return pixel.RGBAPixel[T]{R: p.R, G: p.G, B: p.B, A: pixel.Max[T]()}
}

// channelMap returns, for every channel of to, the index of the source
// channel in from that feeds it, or -1 where the channel is filled with the
// maximum value (a new alpha channel).
func channelMap(from, to pixel.Layout) []int {
	m := make([]int, to.Channels())
	for c := range m {
		isAlpha := to.HasAlpha() && c == to.Channels()-1
		switch {
		case isAlpha && from.HasAlpha():
			m[c] = from.Channels() - 1
		case isAlpha:
			m[c] = -1
		case from.HasColor():
			m[c] = c
		default:
			m[c] = 0
		}
	}
	return m
}

// layoutKernel returns a byte-level kernel expanding a row of pixels from
// one channel layout to another. size is the component byte width and fill
// the encoding of the maximum value used for new alpha channels.
func layoutKernel(from, to pixel.Layout, size int, fill []byte) (func(dst, src []byte, width int), error) {
	if !to.Contains(from) {
		return nil, pixel.UnsupportedConversion(pixel.Format{Layout: from}, pixel.Format{Layout: to})
	}
	if from == to {
		return func(dst, src []byte, width int) {
			copy(dst[:width*from.Channels()*size], src)
		}, nil
	}

	m := channelMap(from, to)
	sp, dp := from.Channels()*size, to.Channels()*size
	return func(dst, src []byte, width int) {
		for x := range width {
			s := src[x*sp : x*sp+sp]
			d := dst[x*dp : x*dp+dp]
			for c, sc := range m {
				if sc < 0 {
					copy(d[c*size:], fill)
				} else {
					copy(d[c*size:c*size+size], s[sc*size:sc*size+size])
				}
			}
		}
	}, nil
}
