//go:build !linux
// +build !linux

// File: internal/concurrency/affinity_stub.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// No-op affinity fallback for platforms without sched_setaffinity.

package concurrency

// PinCurrentThread is a no-op outside Linux.
func PinCurrentThread(cpuID int) error { return nil }

// UnpinCurrentThread is a no-op outside Linux.
func UnpinCurrentThread() error { return nil }
