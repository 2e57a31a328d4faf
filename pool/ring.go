// File: pool/ring.go
// Author: momentics <momentics@gmail.com>
//
// Ring buffer used as the fast path of per-worker task queues.
// Producer side is serialized by the owning worker's mutex; the single
// consumer is the worker goroutine itself, so one atomic per side suffices.

package pool

import (
	"sync/atomic"
)

// RingBuffer is a fixed-capacity ring buffer (power-of-two size) for
// one serialized producer side and one consumer.
type RingBuffer[T any] struct {
	data []T
	mask uint64
	head uint64
	tail uint64
	_    [64]byte // Padding for hot/cold separation
}

// NewRingBuffer allocates a ring buffer with capacity rounded up to a
// power of two.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	size := uint64(1)
	for size < uint64(capacity) {
		size <<= 1
	}
	return &RingBuffer[T]{
		data: make([]T, size),
		mask: size - 1,
	}
}

// Enqueue adds an item; returns false if full.
func (r *RingBuffer[T]) Enqueue(val T) bool {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if tail-head == uint64(len(r.data)) {
		return false
	}
	r.data[tail&r.mask] = val
	atomic.StoreUint64(&r.tail, tail+1)
	return true
}

// Dequeue removes and returns (item, ok); ok==false if empty.
func (r *RingBuffer[T]) Dequeue() (res T, ok bool) {
	head := atomic.LoadUint64(&r.head)
	tail := atomic.LoadUint64(&r.tail)
	if head == tail {
		return res, false
	}
	var zero T
	idx := head & r.mask
	res = r.data[idx]
	r.data[idx] = zero
	atomic.StoreUint64(&r.head, head+1)
	return res, true
}

// Len returns the number of buffered items.
func (r *RingBuffer[T]) Len() int {
	return int(atomic.LoadUint64(&r.tail) - atomic.LoadUint64(&r.head))
}
