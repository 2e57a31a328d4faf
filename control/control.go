// control/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// api.Control adapter over a config map, a metrics registry, and debug probes.

package control

import (
	"sync"

	"github.com/momentics/hioload-async/api"
)

// Adapter implements api.Control for the runtime facade.
type Adapter struct {
	mu      sync.RWMutex
	config  map[string]any
	probes  map[string]func() any
	applyFn func(map[string]any) error

	registry *MetricsRegistry
}

var _ api.Control = (*Adapter)(nil)

// NewAdapter builds an adapter over registry. applyFn, when non-nil, is
// called with the merged config on every SetConfig so the owner can react
// (e.g. resize the dispatch pool).
func NewAdapter(registry *MetricsRegistry, initial map[string]any, applyFn func(map[string]any) error) *Adapter {
	cfg := make(map[string]any, len(initial))
	for k, v := range initial {
		cfg[k] = v
	}
	return &Adapter{
		config:   cfg,
		probes:   make(map[string]func() any),
		applyFn:  applyFn,
		registry: registry,
	}
}

// GetConfig returns a copy of the current config map.
func (a *Adapter) GetConfig() map[string]any {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[string]any, len(a.config))
	for k, v := range a.config {
		out[k] = v
	}
	return out
}

// SetConfig merges cfg into the current config and applies it.
func (a *Adapter) SetConfig(cfg map[string]any) error {
	a.mu.Lock()
	for k, v := range cfg {
		a.config[k] = v
	}
	merged := make(map[string]any, len(a.config))
	for k, v := range a.config {
		merged[k] = v
	}
	applyFn := a.applyFn
	a.mu.Unlock()
	if applyFn != nil {
		return applyFn(merged)
	}
	return nil
}

// Stats merges the metrics snapshot with the output of every debug probe.
func (a *Adapter) Stats() map[string]any {
	var out map[string]any
	if a.registry != nil {
		out = a.registry.GetSnapshot()
	} else {
		out = make(map[string]any)
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for name, fn := range a.probes {
		out["probe:"+name] = fn()
	}
	return out
}

// RegisterDebugProbe registers a named probe evaluated on every Stats call.
func (a *Adapter) RegisterDebugProbe(name string, fn func() any) {
	a.mu.Lock()
	a.probes[name] = fn
	a.mu.Unlock()
}
