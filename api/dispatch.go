// File: api/dispatch.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// DispatchQueue capability: where a callback's code executes.

package api

// DispatchQueue abstracts callback scheduling for execution contexts.
//
// An inline queue runs callbacks synchronously on the submitting goroutine.
// A worker-pool queue runs them asynchronously; it preserves FIFO order per
// submitting context only when the caller requires it (see pool.Workers
// affine views), never globally.
type DispatchQueue interface {
	// Submit schedules cb for execution. Implementations must not block
	// the submitter; there is no back pressure.
	Submit(cb func()) error

	// Inline reports whether Submit runs callbacks synchronously.
	Inline() bool
}
