// File: pool/workers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Worker-pool DispatchQueue. Each worker owns a ring-buffer fast path and an
// unbounded overflow queue, so Submit never blocks the producer: there is no
// back pressure by design of the runtime's dispatch contract.
//
// Ordering: a producer appends to the overflow whenever the overflow is
// non-empty, and the worker drains the ring before touching the overflow,
// so per-worker FIFO holds. Callers needing FIFO per execution context
// submit through an affine view, which hashes to a fixed worker.

package pool

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/internal/concurrency"
)

// Workers manages a pool of worker goroutines behind the DispatchQueue and
// Executor contracts.
type Workers struct {
	mu      sync.RWMutex
	workers []*worker
	rr      atomic.Uint64
	closed  atomic.Bool
	wg      sync.WaitGroup

	ringCap int
	pin     bool
	logger  api.Logger

	totalTasks     atomic.Int64
	completedTasks atomic.Int64
}

var (
	_ api.DispatchQueue = (*Workers)(nil)
	_ api.Executor      = (*Workers)(nil)
)

// WorkersOption configures a pool at construction time.
type WorkersOption func(*Workers)

// WithPinning pins worker threads to CPUs via sched_setaffinity on Linux.
func WithPinning(pin bool) WorkersOption {
	return func(p *Workers) { p.pin = pin }
}

// WithLogger routes task panics and teardown records to lg.
func WithLogger(lg api.Logger) WorkersOption {
	return func(p *Workers) { p.logger = lg }
}

// WithRingCapacity sets the per-worker fast-path ring size.
func WithRingCapacity(n int) WorkersOption {
	return func(p *Workers) {
		if n > 0 {
			p.ringCap = n
		}
	}
}

// NewWorkers creates a pool with numWorkers workers.
// If numWorkers <= 0, defaults to runtime.NumCPU().
func NewWorkers(numWorkers int, opts ...WorkersOption) *Workers {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	p := &Workers{
		ringCap: 1024,
		logger:  api.NopLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workers = make([]*worker, 0, numWorkers)
	for i := 0; i < numWorkers; i++ {
		p.startWorker(i)
	}
	return p
}

// startWorker appends and launches one worker. Caller holds no lock during
// construction; Resize holds p.mu.
func (p *Workers) startWorker(id int) {
	w := &worker{
		id:       id,
		pool:     p,
		ring:     NewRingBuffer[func()](p.ringCap),
		overflow: queue.New(),
		stopCh:   make(chan struct{}),
	}
	p.workers = append(p.workers, w)
	p.wg.Add(1)
	go w.run()
}

// Submit schedules cb on the next worker, round-robin.
// Returns api.ErrQueueClosed once the pool is closed. Never blocks.
func (p *Workers) Submit(cb func()) error {
	return p.submit(p.rr.Add(1), cb)
}

// SubmitTo schedules cb on the worker selected by key. All submissions with
// the same key execute in FIFO order relative to each other.
func (p *Workers) SubmitTo(key uint64, cb func()) error {
	return p.submit(key, cb)
}

func (p *Workers) submit(key uint64, cb func()) error {
	if p.closed.Load() {
		return api.ErrQueueClosed
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.workers) == 0 {
		return api.ErrQueueClosed
	}
	w := p.workers[key%uint64(len(p.workers))]
	p.totalTasks.Add(1)
	w.enqueue(cb)
	return nil
}

// Inline reports asynchronous dispatch.
func (p *Workers) Inline() bool { return false }

// Affine returns a DispatchQueue view whose submissions all land on the same
// worker, preserving FIFO order for one execution context.
func (p *Workers) Affine(key uint64) api.DispatchQueue {
	return &affineQueue{pool: p, key: key}
}

// NumWorkers returns the current number of active workers.
func (p *Workers) NumWorkers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workers)
}

// Resize adjusts the worker count at runtime. Shrinking lets the surplus
// workers drain their queues before exiting. Affine key-to-worker mapping is
// only stable between resizes.
func (p *Workers) Resize(newCount int) {
	if newCount <= 0 || p.closed.Load() {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := len(p.workers)
	switch {
	case newCount > cur:
		for i := cur; i < newCount; i++ {
			p.startWorker(i)
		}
	case newCount < cur:
		victims := p.workers[newCount:]
		p.workers = p.workers[:newCount]
		for _, w := range victims {
			close(w.stopCh)
		}
	}
}

// Close gracefully shuts down the pool and waits for workers to drain.
func (p *Workers) Close() {
	if !p.closed.CompareAndSwap(false, true) {
		return
	}
	p.mu.Lock()
	for _, w := range p.workers {
		close(w.stopCh)
	}
	p.workers = nil
	p.mu.Unlock()
	p.wg.Wait()
}

// Stats returns basic pool metrics.
func (p *Workers) Stats() map[string]int64 {
	total := p.totalTasks.Load()
	completed := p.completedTasks.Load()
	return map[string]int64{
		"total_tasks":     total,
		"completed_tasks": completed,
		"pending_tasks":   total - completed,
		"num_workers":     int64(p.NumWorkers()),
	}
}

// affineQueue is a fixed-worker view of a pool.
type affineQueue struct {
	pool *Workers
	key  uint64
}

func (q *affineQueue) Submit(cb func()) error { return q.pool.SubmitTo(q.key, cb) }
func (q *affineQueue) Inline() bool           { return false }

// worker represents a single pool goroutine.
type worker struct {
	id   int
	pool *Workers

	qmu      sync.Mutex
	ring     *RingBuffer[func()]
	overflow *queue.Queue

	stopCh chan struct{}
}

// enqueue adds cb behind any overflowed work to keep FIFO order.
func (w *worker) enqueue(cb func()) {
	w.qmu.Lock()
	if w.overflow.Length() > 0 || !w.ring.Enqueue(cb) {
		w.overflow.Add(cb)
	}
	w.qmu.Unlock()
}

// next pops the oldest pending callback, ring first.
func (w *worker) next() (func(), bool) {
	if cb, ok := w.ring.Dequeue(); ok {
		return cb, true
	}
	w.qmu.Lock()
	defer w.qmu.Unlock()
	if w.overflow.Length() == 0 {
		return nil, false
	}
	return w.overflow.Remove().(func()), true
}

// run is the main worker loop with teardown draining.
func (w *worker) run() {
	defer w.pool.wg.Done()
	if w.pool.pin {
		if err := concurrency.PinCurrentThread(w.id); err != nil {
			w.pool.logger.Log(api.SeverityWarn, "worker pinning failed", err)
		}
		defer concurrency.UnpinCurrentThread()
	}
	for {
		if cb, ok := w.next(); ok {
			w.exec(cb)
			continue
		}
		select {
		case <-w.stopCh:
			for {
				cb, ok := w.next()
				if !ok {
					return
				}
				w.exec(cb)
			}
		default:
			// backoff to reduce CPU spinning
			time.Sleep(time.Millisecond)
		}
	}
}

// exec runs the callback and updates statistics, recovering from panics to
// keep the worker alive.
func (w *worker) exec(cb func()) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.logger.Log(api.SeverityError, "dispatched callback panicked", fmt.Errorf("%v", r))
		}
		w.pool.completedTasks.Add(1)
	}()
	cb()
}
