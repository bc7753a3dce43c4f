// Package convert implements the format conversion engine: component type
// casts, channel expansion, byte order changes, orientation, gamma and alpha
// mode conversion of pixel buffers.
//
// Conversions that change the shape of the pixels return a new buffer and
// never modify the source. Arithmetic always happens in host byte order; the
// host order is passed in explicitly by the caller.
package convert

import (
	"sync"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/internal/parallel"
)

// parallelThreshold is the pixel count above which conversions are split
// into row bands.
const parallelThreshold = 1 << 16

// minBandRows keeps bands large enough to amortize scheduling.
const minBandRows = 16

// Option configures a conversion.
type Option func(*options)

type options struct {
	alignment  int
	scratch    *buffer.Pool
	sequential bool
}

var (
	defaultScratch = buffer.NewPool(16)
	defaultWorkers = sync.OnceValue(func() *parallel.WorkerPool {
		return parallel.NewWorkerPool(0)
	})
)

func defaultOptions() options {
	return options{scratch: defaultScratch}
}

func resolve(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithAlignment sets the row alignment of buffers created by the conversion.
// By default the source buffer's alignment is kept.
func WithAlignment(alignment int) Option {
	return func(o *options) {
		o.alignment = alignment
	}
}

// WithScratchPool sets the pool used for intermediate row buffers.
func WithScratchPool(p *buffer.Pool) Option {
	return func(o *options) {
		if p != nil {
			o.scratch = p
		}
	}
}

// Sequential disables row-band parallelism.
func Sequential() Option {
	return func(o *options) {
		o.sequential = true
	}
}

// rows runs fn over [0, height) of a width-pixel image, in parallel bands
// when the image is large enough.
func (o *options) rows(width, height int, fn func(y0, y1 int)) {
	if o.sequential || width*height < parallelThreshold || height < 2*minBandRows {
		fn(0, height)
		return
	}
	defaultWorkers().Rows(height, minBandRows, fn)
}
