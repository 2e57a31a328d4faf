// Package pool
// Author: momentics <momentics@gmail.com>
//
// Dispatch layer for hioload-async.
// Implements the worker-pool and inline DispatchQueue capabilities, the
// per-worker ring buffering underneath, and generic object pooling.
// See workers.go, inline.go, ring.go, objpool.go for implementation details.
package pool
