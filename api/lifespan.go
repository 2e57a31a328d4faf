// File: api/lifespan.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifespan capability for state carried in execution contexts.

package api

// Lifespan is the contract for state objects that must be independently
// copied when a context crosses a goroutine boundary and deterministically
// released when the owning context's reference count reaches zero.
//
// Ownership of a Lifespan value is exclusive to its context until cloned.
type Lifespan interface {
	// Clone returns an independent copy. Mutating the copy must not
	// affect the original.
	Clone() Lifespan

	// Dispose releases the value. Called exactly once, when the owning
	// context's reference count drops to zero. The value must not be
	// used afterwards.
	Dispose()
}
