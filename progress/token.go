// Package progress implements the progress and cancellation token shared by
// a decode goroutine and the goroutine watching it.
//
// A Token is the watching side: it reads progress, stops the decode and
// installs frame callbacks. A Producer is the decoding side: it reports
// progress and frames, and learns from every call whether to keep going.
// Both point at one shared block of atomic state; only the callback fields
// sit behind a mutex, which is never held while a callback runs.
//
// Token.Producer hands out a new producer by moving the current state into
// a fresh block and retiring the old one. Producers still bound to the old
// block see every call fail from then on, so exactly one producer is live at
// a time and the new one continues from the old one's progress.
package progress

import (
	"math"
	"sync"
	"sync/atomic"
)

// block is the state shared by a token and its current producer.
type block[F any] struct {
	progress atomic.Uint32 // float32 bits
	finished atomic.Bool
	proceed  atomic.Bool
	retired  atomic.Bool

	mu      sync.Mutex
	onFrame func(F) bool
	onBegin func(index int) bool
}

func newBlock[F any]() *block[F] {
	b := &block[F]{}
	b.proceed.Store(true)
	return b
}

func (b *block[F]) live() bool {
	return b.proceed.Load() && !b.retired.Load()
}

func (b *block[F]) load() float32 {
	return math.Float32frombits(b.progress.Load())
}

// raise stores v if it is larger than the current progress.
func (b *block[F]) raise(v float32) {
	for {
		old := b.progress.Load()
		if v <= math.Float32frombits(old) {
			return
		}
		if b.progress.CompareAndSwap(old, math.Float32bits(v)) {
			return
		}
	}
}

// Token is the consumer handle. Its methods are safe for concurrent use.
type Token[F any] struct {
	mu  sync.Mutex // serializes handoffs with writes to the current block
	cur atomic.Pointer[block[F]]
}

// NewToken returns a token at progress 0 that lets the decode proceed.
func NewToken[F any]() *Token[F] {
	t := &Token[F]{}
	t.cur.Store(newBlock[F]())
	return t
}

// Progress returns the last reported progress in [0, 1].
func (t *Token[F]) Progress() float32 {
	return t.cur.Load().load()
}

// Finished reports whether the decode has finished.
func (t *Token[F]) Finished() bool {
	return t.cur.Load().finished.Load()
}

// Proceeding reports whether the decode has not been stopped.
func (t *Token[F]) Proceeding() bool {
	return t.cur.Load().proceed.Load()
}

// Stop asks the decode to end. The producer notices at its next call.
func (t *Token[F]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cur.Load().proceed.Store(false)
}

// SetOnFrame installs the callback receiving finished frames. Returning
// false from it stops the decode. The callback runs on the decode goroutine
// without any token lock held, so it may call Stop or any other Token
// method. A callback being replaced may still receive one call in flight.
func (t *Token[F]) SetOnFrame(fn func(F) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.cur.Load()
	b.mu.Lock()
	b.onFrame = fn
	b.mu.Unlock()
}

// SetOnBegin installs the callback told about each frame before its pixels
// are written. Returning false from it stops the decode. It runs like the
// SetOnFrame callback.
func (t *Token[F]) SetOnBegin(fn func(index int) bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.cur.Load()
	b.mu.Lock()
	b.onBegin = fn
	b.mu.Unlock()
}

// Reset clears progress and the finished flag and lets the decode proceed
// again, for reusing a token across decodes. Callbacks are kept. It should
// be followed by Producer.
func (t *Token[F]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.cur.Load()
	b.progress.Store(0)
	b.finished.Store(false)
	b.proceed.Store(true)
}

// Producer returns a new producer handle. The current state, callbacks
// included, moves to a new block; the previous producer is retired and all
// its calls report false from now on.
func (t *Token[F]) Producer() *Producer[F] {
	t.mu.Lock()
	defer t.mu.Unlock()

	old := t.cur.Load()
	nb := newBlock[F]()

	old.mu.Lock()
	old.retired.Store(true)
	nb.onFrame, nb.onBegin = old.onFrame, old.onBegin
	old.mu.Unlock()

	nb.progress.Store(old.progress.Load())
	nb.finished.Store(old.finished.Load())
	nb.proceed.Store(old.proceed.Load())
	t.cur.Store(nb)
	return &Producer[F]{b: nb}
}

// Producer is the decode side handle. It is meant for one goroutine.
type Producer[F any] struct {
	b *block[F]
}

// Discard returns a producer nobody watches. It always proceeds.
func Discard[F any]() *Producer[F] {
	return &Producer[F]{b: newBlock[F]()}
}

// Proceeding reports whether the decode should continue.
func (p *Producer[F]) Proceeding() bool {
	return p.b.live()
}

// Progress returns the progress stored in the producer's block.
func (p *Producer[F]) Progress() float32 {
	return p.b.load()
}

// SetProgress reports progress v, clamped to [0, 1]. Progress never goes
// down; smaller values are ignored. It returns whether to continue.
func (p *Producer[F]) SetProgress(v float32) bool {
	if !p.b.live() {
		return false
	}
	switch {
	case v > 1:
		v = 1
	case v >= 0:
	default:
		// negative or NaN
		v = 0
	}
	p.b.raise(v)
	return p.b.live()
}

// BeginFrame announces frame index and returns whether to continue.
func (p *Producer[F]) BeginFrame(index int) bool {
	if !p.b.live() {
		return false
	}
	p.b.mu.Lock()
	fn := p.b.onBegin
	p.b.mu.Unlock()
	if fn != nil && !fn(index) {
		p.b.proceed.Store(false)
	}
	return p.b.live()
}

// AppendFrame hands a finished frame to the watcher and returns whether to
// continue.
func (p *Producer[F]) AppendFrame(f F) bool {
	if !p.b.live() {
		return false
	}
	p.b.mu.Lock()
	fn := p.b.onFrame
	p.b.mu.Unlock()
	if fn != nil && !fn(f) {
		p.b.proceed.Store(false)
	}
	return p.b.live()
}

// Finish marks the decode finished and progress complete unless it was
// stopped.
func (p *Producer[F]) Finish() {
	if p.b.retired.Load() {
		return
	}
	if p.b.proceed.Load() {
		p.b.raise(1)
	}
	p.b.finished.Store(true)
}
