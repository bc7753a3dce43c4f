// Package parallel runs row-band work for the conversion engine on a small
// pool of long-lived goroutines.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a pool of goroutines with one queue per worker. Idle workers
// steal from the other queues so uneven bands still finish together.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewWorkerPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)
	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *WorkerPool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// ExecuteAll runs every function and waits for all of them. After Close the
// functions run on the calling goroutine instead.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}
	if !p.running.Load() {
		for _, fn := range work {
			fn()
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(work))
	for i, fn := range work {
		wrapped := func() {
			defer wg.Done()
			fn()
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-p.done:
			wrapped()
		}
	}
	wg.Wait()
}

// Close stops the workers after the queued work has run. Close is safe to
// call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Rows splits [0, height) into contiguous bands of at least minRows rows,
// one band per worker at most, and runs fn on each band. fn must only touch
// the rows it is given.
func (p *WorkerPool) Rows(height, minRows int, fn func(y0, y1 int)) {
	bands := Bands(height, p.workers, minRows)
	if len(bands) == 1 {
		fn(bands[0][0], bands[0][1])
		return
	}
	work := make([]func(), len(bands))
	for i, band := range bands {
		work[i] = func() { fn(band[0], band[1]) }
	}
	p.ExecuteAll(work)
}

// Bands divides [0, height) into at most n half-open ranges of at least
// minRows rows each (the last band may be shorter only when height is).
func Bands(height, n, minRows int) [][2]int {
	if height <= 0 {
		return nil
	}
	minRows = max(minRows, 1)
	n = max(min(n, height/minRows), 1)
	bands := make([][2]int, 0, n)
	per, extra := height/n, height%n
	y := 0
	for i := range n {
		h := per
		if i < extra {
			h++
		}
		bands = append(bands, [2]int{y, y + h})
		y += h
	}
	return bands
}
