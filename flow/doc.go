// File: flow/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package flow implements the coroutine driver: it runs a stepwise procedure
// whose suspension points are futures and turns the whole run into a single
// outer future.
//
// A procedure suspends by awaiting a nested future. The driver resumes it
// once that future's primary completion handlers have been dispatched. An
// error completion re-raises at the resumption point and bubbles outward
// through arbitrarily nested invocations like a synchronous exception,
// unless the await form intercepts it: AwaitCaught suppresses propagation,
// AwaitLogged additionally emits the error to a logging collaborator, and
// AwaitInto routes success values to a sink while still propagating errors.
//
// A result provided early via Complete wins over any error raised later in
// the same synchronous continuation; the later error is discarded rather
// than overwriting the outer future.
package flow
