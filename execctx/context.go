// File: execctx/context.go
// Package execctx
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core execution-context implementation: state bag, reference counting,
// ambient binding, and callback invocation through the dispatch queue.

package execctx

import (
	"sync"

	"github.com/google/uuid"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/internal/ambient"
	"github.com/momentics/hioload-async/pool"
)

// Context carries per-call state and dispatch affinity across goroutine and
// suspension boundaries.
type Context struct {
	id    string
	queue api.DispatchQueue

	mu       sync.Mutex
	state    map[StateKey]any
	refs     int
	disposed bool
}

// New creates an empty context bound to q. A nil q binds the inline queue,
// so callbacks of futures captured under this context run synchronously.
func New(q api.DispatchQueue) *Context {
	if q == nil {
		q = pool.Inline{}
	}
	return &Context{
		id:    uuid.NewString(),
		queue: q,
		state: make(map[StateKey]any),
	}
}

// Current returns the ambient context of the calling goroutine, lazily
// creating and binding an empty inline-queue context if none is bound.
// The auto-created binding stays with the goroutine for its lifetime.
func Current() *Context {
	if c, ok := ambient.Get().(*Context); ok {
		return c
	}
	c := New(nil)
	ambient.Swap(c)
	return c
}

// ID returns the context identity used in logs and affinity hashing.
func (c *Context) ID() string { return c.id }

// Queue returns the dispatch queue callbacks of this context run on.
func (c *Context) Queue() api.DispatchQueue { return c.queue }

// Disposed reports whether the reference count already reached zero.
func (c *Context) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Clone forks the context for work on another goroutine: Lifespan entries
// are independently cloned so the fork cannot mutate the original's
// disposable state, all other entries are shared by reference.
// A nil q inherits the original's queue.
func (c *Context) Clone(q api.DispatchQueue) *Context {
	if q == nil {
		q = c.queue
	}
	fork := &Context{
		id:    uuid.NewString(),
		queue: q,
		state: make(map[StateKey]any),
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.state {
		if ls, ok := v.(api.Lifespan); ok {
			fork.state[k] = ls.Clone()
		} else {
			fork.state[k] = v
		}
	}
	return fork
}

// SetState stores value under key. Fails once the context is disposed.
func (c *Context) SetState(key StateKey, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return invalidState("state mutation on disposed context")
	}
	c.state[key] = value
	return nil
}

// SetDefault stores value under its type-default key.
func (c *Context) SetDefault(value any) error {
	return c.SetState(DefaultKey(value), value)
}

// GetState fetches the value stored under key.
func (c *Context) GetState(key StateKey) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil, false
	}
	v, ok := c.state[key]
	return v, ok
}

// State is the typed accessor over GetState.
func State[T any](c *Context, key StateKey) (T, bool) {
	v, ok := c.GetState(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Acquire increments the reference count. Must precede every invocation.
func (c *Context) Acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return invalidState("acquire on disposed context")
	}
	c.refs++
	return nil
}

// Release decrements the reference count. Dropping to zero disposes every
// Lifespan entry exactly once and marks the context dead. Releasing below
// the floor of outstanding acquisitions is rejected.
func (c *Context) Release() error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return invalidState("release on disposed context")
	}
	if c.refs <= 0 {
		c.mu.Unlock()
		return invalidState("release without matching acquire")
	}
	c.refs--
	if c.refs > 0 {
		c.mu.Unlock()
		return nil
	}
	c.disposed = true
	state := c.state
	c.state = nil
	c.mu.Unlock()
	for _, v := range state {
		if ls, ok := v.(api.Lifespan); ok {
			ls.Dispose()
		}
	}
	return nil
}

// InvokeNow binds the context as ambient on the calling goroutine, runs cb
// synchronously, restores the previous ambient binding, and consumes one
// acquisition.
func (c *Context) InvokeNow(cb func()) error {
	if err := c.invocable(); err != nil {
		return err
	}
	c.Bound(cb)
	return c.Release()
}

// Invoke dispatches cb onto the context's queue; the acquisition is consumed
// by the dispatched execution. A submit failure leaves the acquisition
// untouched.
func (c *Context) Invoke(cb func()) error {
	if err := c.invocable(); err != nil {
		return err
	}
	return c.queue.Submit(func() {
		c.Bound(cb)
		_ = c.Release()
	})
}

// Bound runs cb with the context bound as ambient, without touching the
// reference count. Used by the runtime's own dispatch paths (future handler
// delivery, coroutine resumption); callers hand lifetime accounting through
// Acquire/Invoke instead.
func (c *Context) Bound(cb func()) {
	prev := ambient.Swap(c)
	defer ambient.Swap(prev)
	cb()
}

func (c *Context) invocable() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return invalidState("invoke on disposed context")
	}
	if c.refs < 1 {
		return invalidState("invoke requires a prior acquisition")
	}
	return nil
}

func invalidState(msg string) error {
	return api.NewError(api.ErrCodeInvalidState, msg)
}
