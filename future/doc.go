// File: future/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package future implements the single-assignment result cell of the
// hioload-async runtime: an optional deadline, a two-party cancellation
// negotiation, and a secondary cleanup channel for completions that arrive
// after the primary slot is no longer available.
//
// Producers and consumers of a future run concurrently and cannot perfectly
// coordinate. A late, legitimate completion after a cancellation or timeout
// is therefore never punished with an error; it is rerouted to the cleanup
// channel for deterministic disposal or logging. A duplicate completion with
// no intervening cancellation or timeout is a genuine bug and fails loudly
// with api.ErrInvalidState.
package future
