// File: internal/ambient/ambient.go
// Package ambient implements the goroutine-keyed binding registry behind
// ambient execution contexts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bindings are always installed and removed in scoped pairs by execctx;
// the registry itself never leaks a binding past the goroutine that owns it,
// except for the lazily auto-created ambient of a bare goroutine.

package ambient

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

var (
	mu       sync.RWMutex
	bindings = make(map[uint64]any)
)

// GID returns the runtime id of the calling goroutine.
//
// Parsed from the first line of the stack header ("goroutine N [running]:").
// Costs one small runtime.Stack call; acceptable on the bind/lookup paths,
// which sit on suspension boundaries rather than hot data paths.
func GID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	fields := bytes.Fields(buf[:n])
	if len(fields) < 2 {
		return 0
	}
	id, err := strconv.ParseUint(string(fields[1]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Swap installs v as the binding of the calling goroutine and returns the
// previous binding. A nil v removes the binding.
func Swap(v any) any {
	gid := GID()
	mu.Lock()
	prev := bindings[gid]
	if v == nil {
		delete(bindings, gid)
	} else {
		bindings[gid] = v
	}
	mu.Unlock()
	return prev
}

// Get returns the binding of the calling goroutine, or nil.
func Get() any {
	gid := GID()
	mu.RLock()
	v := bindings[gid]
	mu.RUnlock()
	return v
}
