// File: pool/workers_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tests for the worker-pool dispatch queue: FIFO ordering per affine key,
// overflow behavior past the ring capacity, resize, and close semantics.

package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-async/api"
)

func TestWorkers_SubmitRunsAllTasks(t *testing.T) {
	p := NewWorkers(4)
	defer p.Close()

	const n = 200
	var done atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		require.NoError(t, p.Submit(func() {
			done.Add(1)
			wg.Done()
		}))
	}
	wg.Wait()
	require.Equal(t, int64(n), done.Load())
}

func TestWorkers_AffineViewPreservesFIFO(t *testing.T) {
	p := NewWorkers(4, WithRingCapacity(8))
	defer p.Close()

	// Ring capacity 8 forces spill into the overflow queue mid-sequence;
	// order must survive the spill.
	q := p.Affine(7)
	require.False(t, q.Inline())

	const n = 500
	got := make([]int, 0, n)
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		require.NoError(t, q.Submit(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			wg.Done()
		}))
	}
	wg.Wait()

	require.Len(t, got, n)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestWorkers_SubmitAfterCloseFails(t *testing.T) {
	p := NewWorkers(1)
	p.Close()
	require.ErrorIs(t, p.Submit(func() {}), api.ErrQueueClosed)
	require.ErrorIs(t, p.SubmitTo(3, func() {}), api.ErrQueueClosed)
}

func TestWorkers_CloseDrainsPendingTasks(t *testing.T) {
	p := NewWorkers(1, WithRingCapacity(4))

	var done atomic.Int64
	const n = 64
	for i := 0; i < n; i++ {
		require.NoError(t, p.Submit(func() {
			time.Sleep(100 * time.Microsecond)
			done.Add(1)
		}))
	}
	p.Close()
	require.Equal(t, int64(n), done.Load())
}

func TestWorkers_Resize(t *testing.T) {
	p := NewWorkers(2)
	defer p.Close()

	p.Resize(5)
	require.Equal(t, 5, p.NumWorkers())

	p.Resize(1)
	require.Equal(t, 1, p.NumWorkers())

	// Pool still dispatches after shrinking.
	ran := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("task did not run after resize")
	}
}

func TestWorkers_PanicDoesNotKillWorker(t *testing.T) {
	lg := &captureLogger{}
	p := NewWorkers(1, WithLogger(lg))
	defer p.Close()

	require.NoError(t, p.Submit(func() { panic("task failure") }))

	ran := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(ran) }))
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker died after a task panic")
	}
	require.Eventually(t, func() bool {
		return lg.count(api.SeverityError) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestWorkers_Stats(t *testing.T) {
	p := NewWorkers(2)

	var wg sync.WaitGroup
	wg.Add(10)
	for i := 0; i < 10; i++ {
		require.NoError(t, p.Submit(func() { wg.Done() }))
	}
	wg.Wait()
	p.Close()

	stats := p.Stats()
	require.Equal(t, int64(10), stats["total_tasks"])
	require.Equal(t, int64(10), stats["completed_tasks"])
	require.Equal(t, int64(0), stats["pending_tasks"])
}

func TestInline_RunsSynchronously(t *testing.T) {
	var q api.DispatchQueue = Inline{}
	require.True(t, q.Inline())

	ran := false
	require.NoError(t, q.Submit(func() { ran = true }))
	require.True(t, ran)
}

func TestRingBuffer_WrapAndCapacity(t *testing.T) {
	r := NewRingBuffer[int](3) // rounds up to 4

	for i := 0; i < 4; i++ {
		require.True(t, r.Enqueue(i))
	}
	require.False(t, r.Enqueue(99))
	require.Equal(t, 4, r.Len())

	for i := 0; i < 4; i++ {
		v, ok := r.Dequeue()
		require.True(t, ok)
		require.Equal(t, i, v)
	}
	_, ok := r.Dequeue()
	require.False(t, ok)

	// Wrap-around after partial drain.
	for i := 10; i < 13; i++ {
		require.True(t, r.Enqueue(i))
	}
	v, ok := r.Dequeue()
	require.True(t, ok)
	require.Equal(t, 10, v)
}

func TestSyncPool_Recycles(t *testing.T) {
	p := NewSyncPool(func() *[]byte {
		b := make([]byte, 16)
		return &b
	})
	buf := p.Get()
	require.Len(t, *buf, 16)
	p.Put(buf)
	require.NotNil(t, p.Get())
}

// captureLogger counts log records by severity.
type captureLogger struct {
	mu   sync.Mutex
	seen map[api.Severity]int
}

func (l *captureLogger) Log(sev api.Severity, _ string, _ error) {
	l.mu.Lock()
	if l.seen == nil {
		l.seen = make(map[api.Severity]int)
	}
	l.seen[sev]++
	l.mu.Unlock()
}

func (l *captureLogger) count(sev api.Severity) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seen[sev]
}
