// control/doc.go
// Author: momentics <momentics@gmail.com>
//
// Package control exposes runtime observability: a thread-safe metrics
// registry with dynamic counters and the api.Control adapter serving config
// snapshots, stats, and debug probes for the facade.
package control
