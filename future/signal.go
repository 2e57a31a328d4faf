// File: future/signal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Untyped completion futures.

package future

import "github.com/momentics/hioload-async/api"

// Signal is the payload-free future variant: it signals completion without
// carrying a value.
type Signal = Future[api.Void]

// NewSignal creates a pending Signal.
func NewSignal(opts ...Option) *Signal {
	return New[api.Void](opts...)
}

// CompleteSignal performs a Signal's primary completion.
func CompleteSignal(s *Signal) error {
	return s.Return(api.Void{})
}
