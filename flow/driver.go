// File: flow/driver.go
// Package flow
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Driver: procedure invocation and outer-future completion.

package flow

import (
	"fmt"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/execctx"
	"github.com/momentics/hioload-async/future"
	"github.com/momentics/hioload-async/pool"
)

// Proc is a stepwise procedure run by the driver. It may suspend any number
// of times through the Await forms and either return its result or provide
// it early via Complete.
type Proc[T any] func(co *Coro) (T, error)

var coroPool = pool.NewSyncPool(func() *Coro { return new(Coro) })

// Invoke starts proc immediately, running it synchronously up to its first
// suspension, and returns the outer future that completes when the
// procedure finishes, directly or via a chain of suspensions.
func Invoke[T any](proc Proc[T], opts ...future.Option) *future.Future[T] {
	return InvokeInto(proc, future.New[T](opts...))
}

// InvokeInto is Invoke with a caller-supplied outer future, for callers that
// arm the outer deadline or cleanup channel themselves.
func InvokeInto[T any](proc Proc[T], outer *future.Future[T]) *future.Future[T] {
	co := coroPool.Get()
	co.reset(execctx.Current())
	co.complete = func(v any) error {
		return outer.Return(v.(T))
	}
	first := co.first
	go func() {
		var value T
		var err error
		co.ctx.Bound(func() {
			defer func() {
				if r := recover(); r != nil {
					if pf, ok := r.(procFailure); ok {
						err = pf.err
					} else {
						err = api.NewError(api.ErrCodeInternal, fmt.Sprintf("procedure panic: %v", r))
					}
				}
			}()
			value, err = proc(co)
		})
		resultSet := co.resultSet
		if !resultSet {
			if err != nil {
				outer.Throw(err)
			} else {
				outer.Return(value)
			}
		}
		co.signalFirst()
		co.recycle()
	}()
	<-first
	return outer
}
