package convert

import (
	"sync"

	"github.com/gogpu/pixio/buffer"
	"github.com/gogpu/pixio/pixel"
)

// PixelFormat converts src to the target pixel format and byte order.
//
// When src already has the requested format and byte order it is returned
// unchanged. Otherwise a new buffer is allocated and every row is run
// through the pipeline: swap to host order, cast components, swap to the
// target order, expand channels. Channels can be added but never removed;
// asking for that fails with pixel.ErrUnsupportedFormat.
//
// The result always reports endian as its byte order, including when no
// bytes had to be swapped because the components are one byte wide.
func PixelFormat(src *buffer.Buffer, target pixel.Format, endian, host pixel.Endian, opts ...Option) (*buffer.Buffer, error) {
	sf := src.Format()
	if sf == target && src.Endian() == endian {
		return src, nil
	}
	if !target.Valid() {
		return nil, pixel.Unsupported(target)
	}
	if !sf.CanConvertTo(target) {
		return nil, pixel.UnsupportedConversion(sf, target)
	}

	o := resolve(opts)
	align := o.alignment
	if align == 0 {
		align = src.Alignment()
	}
	dst, err := buffer.New(src.Width(), src.Height(), target, endian, buffer.WithAlignment(align))
	if err != nil {
		return nil, err
	}

	p, err := newRowPipeline(sf, src.Endian(), target, endian, host)
	if err != nil {
		return nil, err
	}

	width := src.Width()
	var (
		mu       sync.Mutex
		firstErr error
	)
	o.rows(width, src.Height(), func(y0, y1 int) {
		s, err := p.scratch(o.scratch, width, host)
		if err != nil {
			mu.Lock()
			firstErr = err
			mu.Unlock()
			return
		}
		defer s.release(o.scratch)
		for y := y0; y < y1; y++ {
			p.run(dst.Row(y), src.Row(y), width, s)
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return dst, nil
}

// rowPipeline holds the per-conversion decisions so the row loop only moves
// bytes.
type rowPipeline struct {
	src, mid, dst pixel.Format
	swapIn        bool // swap source samples to host order before casting
	swapOut       bool // swap samples to target order before expanding
	cast          func(dst, src []byte)
	expand        func(dst, src []byte, width int)
}

func newRowPipeline(sf pixel.Format, se pixel.Endian, tf pixel.Format, te, host pixel.Endian) (*rowPipeline, error) {
	p := &rowPipeline{
		src: sf,
		mid: sf.WithComponent(tf.Component),
		dst: tf,
	}

	cur := se
	if sf.Component != tf.Component {
		cast, err := rowCaster(tf.Component, sf.Component)
		if err != nil {
			return nil, err
		}
		p.cast = cast
		p.swapIn = se != host && sf.Component.Size() > 1
		cur = host
	}
	p.swapOut = cur != te && tf.Component.Size() > 1

	expand, err := layoutKernel(sf.Layout, tf.Layout, tf.Component.Size(), pixel.MaxBytes(tf.Component, te))
	if err != nil {
		return nil, pixel.UnsupportedConversion(sf, tf)
	}
	p.expand = expand
	return p, nil
}

// rowScratch holds the intermediate rows of one worker.
type rowScratch struct {
	in, mid *buffer.Buffer
}

func (p *rowPipeline) scratch(pool *buffer.Pool, width int, host pixel.Endian) (*rowScratch, error) {
	s := &rowScratch{}
	var err error
	if p.swapIn {
		if s.in, err = pool.Get(width, 1, p.src, host); err != nil {
			return nil, err
		}
	}
	if p.cast != nil || p.swapOut {
		if s.mid, err = pool.Get(width, 1, p.mid, host); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *rowScratch) release(pool *buffer.Pool) {
	pool.Put(s.in)
	pool.Put(s.mid)
}

func (p *rowPipeline) run(dst, src []byte, width int, s *rowScratch) {
	cur := src
	if p.swapIn {
		in := s.in.Row(0)
		copy(in, cur)
		swapRow(in, p.src.Component.Size())
		cur = in
	}
	if p.cast != nil {
		mid := s.mid.Row(0)
		p.cast(mid, cur)
		cur = mid
	}
	if p.swapOut {
		if p.cast == nil {
			mid := s.mid.Row(0)
			copy(mid, cur)
			cur = mid
		}
		swapRow(cur, p.dst.Component.Size())
	}
	p.expand(dst, cur, width)
}
