// Package jobs runs independent units of work (triangulations, searches) on
// a fixed set of worker goroutines. Scheduling never blocks the caller; the
// only blocking calls are Handle.Wait, CompleteAll and Future.Take.
package jobs

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
)

var ErrTaken = errors.New("result already taken")

// Handle tracks completion of one scheduled unit.
type Handle struct {
	done chan struct{}
	err  error
}

func newHandle() *Handle { return &Handle{done: make(chan struct{})} }

// Wait blocks until the unit has run.
func (h *Handle) Wait() { <-h.done }

// Err reports a panic recovered from the unit. Valid after Wait.
func (h *Handle) Err() error { return h.err }

// CompleteAll is the barrier over a batch of handles.
func CompleteAll(handles []*Handle) {
	for _, h := range handles {
		if h != nil {
			h.Wait()
		}
	}
}

type task struct {
	fn     func()
	handle *Handle
}

// Pool is a fixed-size worker pool with an unbounded queue.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []task
	closed  bool
	wg      sync.WaitGroup
	workers int
	ran     atomic.Int64
}

// NewPool starts workers goroutines; workers <= 0 means one per CPU.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{workers: workers}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.work()
	}
	return p
}

func (p *Pool) Workers() int { return p.workers }

// Ran is the number of units completed so far.
func (p *Pool) Ran() int64 { return p.ran.Load() }

// Schedule queues fn and returns immediately. After Close, fn runs on the
// caller's goroutine so a submitted unit always completes.
func (p *Pool) Schedule(fn func()) *Handle {
	t := task{fn: fn, handle: newHandle()}
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.run(t)
		return t.handle
	}
	p.queue = append(p.queue, t)
	p.mu.Unlock()
	p.cond.Signal()
	return t.handle
}

// Close drains the queue and stops the workers.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = task{}
		p.queue = p.queue[1:]
		p.mu.Unlock()
		p.run(t)
	}
}

func (p *Pool) run(t task) {
	defer func() {
		if r := recover(); r != nil {
			t.handle.err = fmt.Errorf("job panicked: %v", r)
		}
		p.ran.Add(1)
		close(t.handle.done)
	}()
	t.fn()
}

// Future is a scheduled computation whose result can be taken exactly once.
type Future[T any] struct {
	handle *Handle
	value  T
	err    error
	taken  atomic.Bool
}

// Submit schedules fn on p.
func Submit[T any](p *Pool, fn func() (T, error)) *Future[T] {
	f := new(Future[T])
	f.handle = p.Schedule(func() {
		f.value, f.err = fn()
	})
	return f
}

func (f *Future[T]) Handle() *Handle { return f.handle }

// Take waits for the result and hands it over. Later calls return ErrTaken.
func (f *Future[T]) Take() (T, error) {
	var zero T
	if !f.taken.CompareAndSwap(false, true) {
		return zero, ErrTaken
	}
	f.handle.Wait()
	if err := f.handle.Err(); err != nil {
		return zero, err
	}
	v, err := f.value, f.err
	f.value = zero
	return v, err
}
