// File: execctx/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package execctx implements the ambient, reference-counted execution
// context: a keyed state bag with a dispatch affinity, cloned on forks and
// disposed when its reference count reaches zero.
//
// A context is bound as ambient for the duration of a callback invocation
// (InvokeNow, Invoke) and restored afterwards; bindings are scoped to one
// goroutine at a time. Resource lifetime is an explicit, countable contract:
// every invocation must be preceded by a matching Acquire and consumes
// exactly one acquisition on completion.
package execctx
