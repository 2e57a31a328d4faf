// File: execctx/keys.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Opaque state-bag keys, unique within a process.

package execctx

import (
	"reflect"
	"sync/atomic"
)

// StateKey is an opaque token addressing one entry of a context state bag.
// Keys created by NewStateKey are distinct even when names collide.
type StateKey struct {
	name   string
	serial uint64
}

var keySerial atomic.Uint64

// NewStateKey mints a fresh key. The name is for diagnostics only.
func NewStateKey(name string) StateKey {
	return StateKey{name: name, serial: keySerial.Add(1)}
}

// DefaultKey derives the type-default key for value's dynamic type.
// Every value of the same type maps to the same key.
func DefaultKey(value any) StateKey {
	return StateKey{name: "type:" + reflect.TypeOf(value).String()}
}

func (k StateKey) String() string { return k.name }
