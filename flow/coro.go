// File: flow/coro.go
// Package flow
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Coroutine handle and suspension primitives.

package flow

import (
	"sync"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/execctx"
	"github.com/momentics/hioload-async/future"
)

// Coro is the handle a procedure uses to suspend on nested futures and to
// provide its result early. Instances are recycled by the driver; a Coro
// must not escape its procedure.
type Coro struct {
	ctx       *execctx.Context
	first     chan struct{}
	firstOnce sync.Once
	resultSet bool
	complete  func(v any) error
}

// Context returns the execution context the procedure runs under.
func (c *Coro) Context() *execctx.Context { return c.ctx }

func (c *Coro) reset(ctx *execctx.Context) {
	c.ctx = ctx
	c.first = make(chan struct{})
	c.firstOnce = sync.Once{}
	c.resultSet = false
	c.complete = nil
}

func (c *Coro) recycle() {
	c.ctx = nil
	c.complete = nil
	coroPool.Put(c)
}

// signalFirst unblocks the invoker; called at the first suspension point or
// when the procedure finishes without suspending.
func (c *Coro) signalFirst() {
	c.firstOnce.Do(func() { close(c.first) })
}

// procFailure carries a nested future's error to the driver's recover.
type procFailure struct{ err error }

// outcome is the resumption payload of one suspension.
type outcome[T any] struct {
	value  T
	err    error
	failed bool
}

// suspend parks the procedure until f completes, resuming strictly after
// f's primary handlers were dispatched. The ambient context of the
// coroutine goroutine stays bound across the suspension.
func suspend[T any](co *Coro, f *future.Future[T]) (T, error) {
	ch := make(chan outcome[T], 1)
	f.WhenDone(
		func(v T) { ch <- outcome[T]{value: v} },
		func(err error) { ch <- outcome[T]{err: err, failed: true} },
	)
	co.signalFirst()
	o := <-ch
	if o.failed {
		var zero T
		return zero, o.err
	}
	return o.value, nil
}

// Await suspends on f and returns its value. An error completion is
// re-raised at the resumption point and propagates to the enclosing
// procedure.
func Await[T any](co *Coro, f *future.Future[T]) T {
	v, err := suspend(co, f)
	if err != nil {
		panic(procFailure{err})
	}
	return v
}

// AwaitCaught suspends on f and hands the error back instead of re-raising
// it; the procedure inspects the outcome explicitly.
func AwaitCaught[T any](co *Coro, f *future.Future[T]) (T, error) {
	return suspend(co, f)
}

// AwaitLogged is AwaitCaught plus emitting the error to lg.
func AwaitLogged[T any](co *Coro, f *future.Future[T], lg api.Logger) (T, error) {
	v, err := suspend(co, f)
	if err != nil {
		lg.Log(api.SeverityError, "awaited future failed", err)
	}
	return v, err
}

// AwaitInto suspends on f and routes the value to dst on success. On
// failure the error still propagates to the enclosing procedure.
func AwaitInto[T any](co *Coro, f *future.Future[T], dst *T) {
	v, err := suspend(co, f)
	if err != nil {
		panic(procFailure{err})
	}
	*dst = v
}

// Complete provides the outer future's primary result from inside the
// procedure, before it returns. Any error raised later in the same
// synchronous continuation is discarded by the driver.
func Complete[T any](co *Coro, value T) {
	_ = co.complete(value)
	co.resultSet = true
}
