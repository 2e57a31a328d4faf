// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

// Package concurrency provides low-level platform helpers for the dispatch
// pool: CPU affinity pinning of worker goroutines on Linux, with no-op
// fallbacks elsewhere.
package concurrency
