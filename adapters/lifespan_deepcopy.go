// File: adapters/lifespan_deepcopy.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lifespan adapter for plain values: clone-on-fork via reflective deep copy.

package adapters

import (
	"github.com/mohae/deepcopy"

	"github.com/momentics/hioload-async/api"
)

// DeepCopyValue wraps an arbitrary value into the Lifespan capability.
// Clone produces a reflective deep copy, so a forked context cannot mutate
// the original's state. Dispose invokes the optional release hook with the
// wrapped value.
type DeepCopyValue struct {
	value   any
	release func(any)
}

var _ api.Lifespan = (*DeepCopyValue)(nil)

// NewDeepCopyValue wraps value; release may be nil.
func NewDeepCopyValue(value any, release func(any)) *DeepCopyValue {
	return &DeepCopyValue{value: value, release: release}
}

// Value returns the wrapped value.
func (d *DeepCopyValue) Value() any { return d.value }

// SetValue replaces the wrapped value.
func (d *DeepCopyValue) SetValue(v any) { d.value = v }

// Clone implements api.Lifespan.
func (d *DeepCopyValue) Clone() api.Lifespan {
	return &DeepCopyValue{
		value:   deepcopy.Copy(d.value),
		release: d.release,
	}
}

// Dispose implements api.Lifespan.
func (d *DeepCopyValue) Dispose() {
	if d.release != nil {
		d.release(d.value)
	}
}
