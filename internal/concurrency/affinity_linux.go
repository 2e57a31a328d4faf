//go:build linux
// +build linux

// File: internal/concurrency/affinity_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux CPU affinity via sched_setaffinity(2).

package concurrency

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// PinCurrentThread locks the calling goroutine to its OS thread and binds
// that thread to cpuID (modulo the machine's CPU count).
func PinCurrentThread(cpuID int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpuID % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}

// UnpinCurrentThread restores the full CPU mask and unlocks the OS thread.
func UnpinCurrentThread() error {
	var set unix.CPUSet
	set.Zero()
	for i := 0; i < runtime.NumCPU(); i++ {
		set.Set(i)
	}
	err := unix.SchedSetaffinity(0, &set)
	runtime.UnlockOSThread()
	return err
}
