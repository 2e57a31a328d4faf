// File: future/future.go
// Package future
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Single-assignment future with deadline and cancellation negotiation.
//
// State machine: Pending -> Completed(value|error); orthogonally a
// cancellation request may be outstanding while still pending. The
// cancellation becomes final through ConfirmCancel, a fired deadline, or
// escalation by HasFinished; only then do later completion attempts divert
// to the cleanup channel instead of failing.

package future

import (
	"errors"
	"sync"
	"time"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/execctx"
)

// Future is a single-assignment result cell parameterized by its payload.
// The zero value is not usable; construct with New.
type Future[T any] struct {
	ctx *execctx.Context
	obs Observer

	mu              sync.Mutex
	completed       bool
	divert          bool // terminal via cancel/timeout: route later attempts to cleanup
	cancelRequested bool
	value           T
	err             error
	timer           *time.Timer
	done            chan struct{}
	onValue         []func(T)
	onError         []func(error)
	cleanups        []func(T, error)
	lateFired       bool
	lateStash       *lateArrival[T]
}

// lateArrival stashes a diverted payload until a cleanup handler registers.
type lateArrival[T any] struct {
	value T
	err   error
}

// New creates a pending future. The execution context active on the calling
// goroutine is captured unless WithContext overrides it; primary and cleanup
// handlers are dispatched through that context's queue.
func New[T any](opts ...Option) *Future[T] {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	ctx := s.ctx
	if ctx == nil {
		ctx = execctx.Current()
	}
	f := &Future[T]{
		ctx:  ctx,
		obs:  s.obs,
		done: make(chan struct{}),
	}
	if s.hasDeadline {
		d := time.Until(s.deadlineAt)
		if d < 0 {
			d = 0
		}
		f.timer = time.AfterFunc(d, f.expire)
	}
	if f.obs != nil {
		f.obs.FutureCreated()
	}
	return f
}

// Context returns the execution context captured at creation.
func (f *Future[T]) Context() *execctx.Context { return f.ctx }

// Done returns a channel closed on primary completion.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Return completes the future with value.
// Fails with api.ErrInvalidState if the primary completion already happened
// through a normal path. After an acknowledged cancellation or a fired
// deadline the call succeeds and the value is routed to the cleanup channel.
func (f *Future[T]) Return(value T) error {
	_, err := f.deliver(value, nil, false)
	return err
}

// Throw completes the future with err, under the same rules as Return.
func (f *Future[T]) Throw(err error) error {
	var zero T
	_, callErr := f.deliver(zero, err, false)
	return callErr
}

// TryReturn is the non-throwing variant of Return: true when value was
// accepted as the primary completion.
func (f *Future[T]) TryReturn(value T) bool {
	primary, _ := f.deliver(value, nil, false)
	return primary
}

// Cancel marks a cancellation as requested. Idempotent; no effect after the
// primary completion; does not itself complete the future. The producer may
// still complete normally until the request is confirmed or escalated.
func (f *Future[T]) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed {
		return
	}
	f.cancelRequested = true
}

// ConfirmCancel completes the future with api.ErrCanceled, but only if a
// cancellation was previously requested; otherwise api.ErrInvalidState.
func (f *Future[T]) ConfirmCancel() error {
	f.mu.Lock()
	if !f.cancelRequested {
		f.mu.Unlock()
		return api.NewError(api.ErrCodeInvalidState, "cancel confirmation without a cancel request")
	}
	if f.completed {
		confirmed := f.divert && errors.Is(f.err, api.ErrCanceled)
		f.mu.Unlock()
		if confirmed {
			return nil
		}
		return api.NewError(api.ErrCodeInvalidState, "cancel confirmation after completion")
	}
	f.mu.Unlock()
	var zero T
	_, err := f.deliver(zero, canceled(), true)
	return err
}

// HasFinished reports whether the future reached a terminal state.
//
// Side effect kept for fidelity with the negotiation protocol: when a
// cancellation is outstanding, the query finalizes the escalation, so any
// subsequent Return/Throw is diverted to the cleanup channel. Use IsTerminal
// for a pure query.
func (f *Future[T]) HasFinished() bool {
	f.mu.Lock()
	if !f.completed && f.cancelRequested {
		f.mu.Unlock()
		var zero T
		f.deliver(zero, canceled(), true)
		return true
	}
	done := f.completed
	f.mu.Unlock()
	return done
}

// IsTerminal is the side-effect-free completion query.
func (f *Future[T]) IsTerminal() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.completed
}

// State returns the observable state tag.
func (f *Future[T]) State() api.FutureState {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case !f.completed && f.cancelRequested:
		return api.FutureCancelRequested
	case !f.completed:
		return api.FuturePending
	case f.divert && errors.Is(f.err, api.ErrCanceled):
		return api.FutureCancelConfirmed
	default:
		return api.FutureCompleted
	}
}

// WhenDone registers the primary completion handlers. They fire exactly
// once, on the dispatch queue of the captured context, or inline when that
// queue is immediate. Registration after completion fires immediately.
func (f *Future[T]) WhenDone(onValue func(T), onError func(error)) {
	f.mu.Lock()
	if !f.completed {
		if onValue != nil {
			f.onValue = append(f.onValue, onValue)
		}
		if onError != nil {
			f.onError = append(f.onError, onError)
		}
		f.mu.Unlock()
		return
	}
	value, err := f.value, f.err
	f.mu.Unlock()
	f.dispatch(func() {
		if err != nil {
			if onError != nil {
				onError(err)
			}
		} else if onValue != nil {
			onValue(value)
		}
	})
}

// WithCleanup registers the late-arrival handler: invoked at most once, if
// and only if a completion attempt is diverted, with the diverted value or
// error for disposal or logging. Never invoked for a future that completes
// through its primary path only.
func (f *Future[T]) WithCleanup(onLate func(value T, err error)) {
	f.mu.Lock()
	if st := f.lateStash; st != nil {
		f.lateStash = nil
		f.mu.Unlock()
		f.dispatch(func() { onLate(st.value, st.err) })
		return
	}
	f.cleanups = append(f.cleanups, onLate)
	f.mu.Unlock()
}

// Wait blocks until the future reaches a terminal state or timeout elapses.
// A non-positive timeout waits indefinitely. The wait-level timeout is
// independent of the future's own deadline and completes nothing: it only
// returns api.ErrTimeout to the waiter.
func (f *Future[T]) Wait(timeout time.Duration) error {
	if timeout <= 0 {
		<-f.done
		return nil
	}
	select {
	case <-f.done:
		return nil
	case <-time.After(timeout):
		return api.NewError(api.ErrCodeTimeout, "wait timeout elapsed")
	}
}

// Result returns the primary value or error. Fails with api.ErrInvalidState
// while the future is still pending.
func (f *Future[T]) Result() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.completed {
		var zero T
		return zero, api.NewError(api.ErrCodeInvalidState, "result of a pending future")
	}
	return f.value, f.err
}

// expire is the deadline timer body.
func (f *Future[T]) expire() {
	var zero T
	f.deliver(zero, api.NewError(api.ErrCodeTimeout, "future deadline elapsed"), true)
}

// deliver performs the one completion transition, or routes a late arrival.
// viaCancelOrTimeout marks terminal states after which later attempts divert
// instead of erroring.
func (f *Future[T]) deliver(value T, err error, viaCancelOrTimeout bool) (primary bool, callErr error) {
	f.mu.Lock()
	if f.completed {
		if !f.divert {
			f.mu.Unlock()
			// Duplicate completion with no intervening cancel/timeout.
			return false, api.NewError(api.ErrCodeInvalidState, "future already completed")
		}
		if f.lateFired {
			f.mu.Unlock()
			return false, nil
		}
		f.lateFired = true
		if len(f.cleanups) == 0 {
			f.lateStash = &lateArrival[T]{value: value, err: err}
			f.mu.Unlock()
			return false, nil
		}
		cleanups := f.cleanups
		f.mu.Unlock()
		f.dispatch(func() {
			for _, cb := range cleanups {
				cb(value, err)
			}
		})
		return false, nil
	}
	f.completed = true
	f.divert = viaCancelOrTimeout
	f.value, f.err = value, err
	if f.timer != nil {
		// Disarm before handler delivery so the timer can no longer race
		// the primary completion.
		f.timer.Stop()
		f.timer = nil
	}
	onValue, onError := f.onValue, f.onError
	f.onValue, f.onError = nil, nil
	close(f.done)
	f.mu.Unlock()
	if f.obs != nil {
		f.obs.FutureCompleted(viaCancelOrTimeout, err)
	}
	f.dispatch(func() {
		if err != nil {
			for _, cb := range onError {
				cb(err)
			}
		} else {
			for _, cb := range onValue {
				cb(value)
			}
		}
	})
	return true, nil
}

// dispatch runs a handler batch on the captured context's queue with the
// context bound ambient. Falls back inline when the queue refuses work
// during teardown.
func (f *Future[T]) dispatch(run func()) {
	body := func() { f.ctx.Bound(run) }
	q := f.ctx.Queue()
	if q == nil || q.Inline() {
		body()
		return
	}
	if err := q.Submit(body); err != nil {
		body()
	}
}

func canceled() error {
	return api.NewError(api.ErrCodeCanceled, "future canceled")
}
