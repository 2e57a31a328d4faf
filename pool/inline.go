// File: pool/inline.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Inline DispatchQueue: callbacks run synchronously on the submitter.

package pool

import "github.com/momentics/hioload-async/api"

// Inline is the immediate dispatch queue. Submit runs the callback on the
// calling goroutine before returning; completion handlers dispatched through
// an inline queue therefore fire on whichever goroutine performed the
// completing call.
type Inline struct{}

var _ api.DispatchQueue = Inline{}

// Submit runs cb synchronously. Never fails.
func (Inline) Submit(cb func()) error {
	cb()
	return nil
}

// Inline reports immediate dispatch.
func (Inline) Inline() bool { return true }
