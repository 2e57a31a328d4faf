// File: future/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Construction options shared by all future instantiations.

package future

import (
	"time"

	"github.com/momentics/hioload-async/execctx"
)

// Observer receives lifecycle notifications for metrics collection.
type Observer interface {
	FutureCreated()
	FutureCompleted(diverted bool, err error)
}

type settings struct {
	hasDeadline bool
	deadlineAt  time.Time
	ctx         *execctx.Context
	obs         Observer
}

// Option configures a future at creation time.
type Option func(*settings)

// WithDeadline arms a timer that completes a still-pending future with
// api.ErrTimeout when t passes.
func WithDeadline(t time.Time) Option {
	return func(s *settings) {
		s.hasDeadline = true
		s.deadlineAt = t
	}
}

// WithTimeout is WithDeadline relative to now.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		s.hasDeadline = true
		s.deadlineAt = time.Now().Add(d)
	}
}

// WithContext captures c instead of the ambient context of the constructing
// goroutine. Completion handlers run on c's dispatch queue.
func WithContext(c *execctx.Context) Option {
	return func(s *settings) { s.ctx = c }
}

// WithObserver attaches a metrics observer.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.obs = o }
}
