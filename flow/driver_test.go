// File: flow/driver_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Tests for procedure invocation, error bubbling across suspension points,
// interception modifiers, and return-before-throw precedence.

package flow

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/future"
)

// completeLater completes f with v on a separate goroutine.
func completeLater[T any](f *future.Future[T], v T, delay time.Duration) *future.Future[T] {
	go func() {
		time.Sleep(delay)
		_ = f.Return(v)
	}()
	return f
}

// failLater completes f with err on a separate goroutine.
func failLater[T any](f *future.Future[T], err error, delay time.Duration) *future.Future[T] {
	go func() {
		time.Sleep(delay)
		_ = f.Throw(err)
	}()
	return f
}

type recordingLogger struct {
	mu      sync.Mutex
	records []error
}

func (l *recordingLogger) Log(_ api.Severity, _ string, err error) {
	l.mu.Lock()
	l.records = append(l.records, err)
	l.mu.Unlock()
}

func TestInvoke_ChainedSuspensions(t *testing.T) {
	outer := Invoke(func(co *Coro) (int, error) {
		a := Await(co, completeLater(future.New[int](), 20, 5*time.Millisecond))
		b := Await(co, completeLater(future.New[int](), 22, 5*time.Millisecond))
		return a + b, nil
	})

	require.NoError(t, outer.Wait(time.Second))
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, 42, v)
}

func TestInvoke_SynchronousUpToFirstSuspension(t *testing.T) {
	entered := false
	nested := future.New[int]()
	outer := Invoke(func(co *Coro) (int, error) {
		entered = true
		return Await(co, nested), nil
	})

	// Invoke returned only after the procedure reached its first yield.
	require.True(t, entered)
	require.False(t, outer.IsTerminal())

	require.NoError(t, nested.Return(1))
	require.NoError(t, outer.Wait(time.Second))
}

func TestInvoke_ErrorBubblesThroughNestedInvocations(t *testing.T) {
	boom := errors.New("innermost failure")

	// Depth 6: each level awaits the next without intercepting.
	var invoke func(depth int) *future.Future[int]
	invoke = func(depth int) *future.Future[int] {
		return Invoke(func(co *Coro) (int, error) {
			if depth == 0 {
				return Await(co, failLater(future.New[int](), boom, 2*time.Millisecond)), nil
			}
			return Await(co, invoke(depth-1)) + 1, nil
		})
	}

	outer := invoke(6)
	require.NoError(t, outer.Wait(time.Second))
	_, err := outer.Result()
	require.Same(t, boom, err)
}

func TestInvoke_ReturnBeforeThrowPrecedence(t *testing.T) {
	outer := Invoke(func(co *Coro) (int, error) {
		Complete(co, 7)
		panic("raised after the result was provided")
	})

	require.NoError(t, outer.Wait(time.Second))
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, 7, v)
}

func TestInvoke_CompleteThenErrorReturnDiscarded(t *testing.T) {
	outer := Invoke(func(co *Coro) (int, error) {
		Complete(co, 9)
		return 0, errors.New("late error")
	})

	require.NoError(t, outer.Wait(time.Second))
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, 9, v)
}

func TestInvoke_ErrorBeforeResultCompletesOuter(t *testing.T) {
	boom := errors.New("early failure")
	outer := Invoke(func(co *Coro) (int, error) {
		return 0, boom
	})

	require.NoError(t, outer.Wait(time.Second))
	_, err := outer.Result()
	require.Same(t, boom, err)
}

func TestInvoke_PanicBecomesCompletionError(t *testing.T) {
	outer := Invoke(func(co *Coro) (int, error) {
		panic("unexpected")
	})

	require.NoError(t, outer.Wait(time.Second))
	_, err := outer.Result()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unexpected")
}

func TestAwaitCaught_SuppressesPropagation(t *testing.T) {
	boom := errors.New("handled failure")
	outer := Invoke(func(co *Coro) (int, error) {
		_, err := AwaitCaught(co, failLater(future.New[int](), boom, 2*time.Millisecond))
		if err != nil {
			return -1, nil
		}
		return 0, nil
	})

	require.NoError(t, outer.Wait(time.Second))
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, -1, v)
}

func TestAwaitLogged_EmitsToCollaborator(t *testing.T) {
	boom := errors.New("logged failure")
	lg := &recordingLogger{}
	var seen error
	outer := Invoke(func(co *Coro) (int, error) {
		_, err := AwaitLogged(co, failLater(future.New[int](), boom, 2*time.Millisecond), lg)
		seen = err
		return 1, nil
	})

	require.NoError(t, outer.Wait(time.Second))
	require.Same(t, boom, seen)
	lg.mu.Lock()
	defer lg.mu.Unlock()
	require.Len(t, lg.records, 1)
	require.Same(t, boom, lg.records[0])
}

func TestAwaitInto_RoutesValueAndPropagatesError(t *testing.T) {
	var sink int
	outer := Invoke(func(co *Coro) (int, error) {
		AwaitInto(co, completeLater(future.New[int](), 13, 2*time.Millisecond), &sink)
		return sink * 2, nil
	})
	require.NoError(t, outer.Wait(time.Second))
	v, err := outer.Result()
	require.NoError(t, err)
	require.Equal(t, 26, v)
	require.Equal(t, 13, sink)

	boom := errors.New("sink failure")
	failing := Invoke(func(co *Coro) (int, error) {
		var unused int
		AwaitInto(co, failLater(future.New[int](), boom, 2*time.Millisecond), &unused)
		return 0, nil
	})
	require.NoError(t, failing.Wait(time.Second))
	_, err = failing.Result()
	require.Same(t, boom, err)
}

func TestInvokeInto_CallerSuppliedOuter(t *testing.T) {
	outer := future.New[string]()
	cleanup := make(chan string, 1)
	outer.WithCleanup(func(v string, _ error) { cleanup <- v })

	InvokeInto(func(co *Coro) (string, error) {
		return Await(co, completeLater(future.New[string](), "late", 30*time.Millisecond)), nil
	}, outer)

	// Consumer gives up first: escalated cancellation diverts the
	// procedure's eventual result to the cleanup channel.
	outer.Cancel()
	require.True(t, outer.HasFinished())
	require.Equal(t, "late", <-cleanup)
}
