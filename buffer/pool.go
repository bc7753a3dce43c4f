package buffer

import (
	"sync"

	"github.com/gogpu/pixio/pixel"
)

// Pool is a thread-safe pool for reusing Buffer instances.
//
// Pool groups buffers by dimensions, format and alignment. The conversion
// engine uses it for the intermediate buffers of multi-step conversions.
//
// Thread safety: All methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identical buffer specifications.
type poolKey struct {
	width  int
	height int
	format pixel.Format
	align  int
}

// NewPool creates a new buffer pool retaining at most maxPerBucket buffers
// per shape. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a zeroed buffer from the pool or creates a new one.
func (p *Pool) Get(width, height int, format pixel.Format, endian pixel.Endian, opts ...Option) (*Buffer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	key := poolKey{width: width, height: height, format: format, align: o.alignment}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.Clear()
		buf.endian = endian
		return buf, nil
	}
	p.mu.Unlock()

	return New(width, height, format, endian, opts...)
}

// Put returns a buffer to the pool. The caller must not use buf afterwards.
// If buf is nil or its bucket is full, the buffer is discarded.
func (p *Pool) Put(buf *Buffer) {
	if buf == nil {
		return
	}

	key := poolKey{
		width:  buf.width,
		height: buf.height,
		format: buf.format,
		align:  buf.align,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the number of pooled buffers across all buckets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
