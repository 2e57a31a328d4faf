// File: facade/runtime.go
// Unified facade layer for the hioload-async runtime.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// This file defines the Runtime struct, which aggregates the core components
// of the runtime behind a single facade: the worker-pool dispatch queue,
// metrics registry, logging collaborator, and control interface, initialized
// from immutable configuration. The facade exposes per-request coroutine
// dispatch under a fresh acquired execution context, graceful shutdown, and
// runtime services such as Control, Metrics, and Queue.

package facade

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/momentics/hioload-async/api"
	"github.com/momentics/hioload-async/control"
	"github.com/momentics/hioload-async/execctx"
	"github.com/momentics/hioload-async/flow"
	"github.com/momentics/hioload-async/future"
	"github.com/momentics/hioload-async/pool"
)

// RequestIDKey addresses the request id entry of a per-request context.
var RequestIDKey = execctx.NewStateKey("request_id")

// Config holds parameters immutable per run.
type Config struct {
	NumWorkers      int           // Number of dispatch pool workers
	RingCapacity    int           // Per-worker fast-path ring size
	CPUAffinity     bool          // Whether to pin worker threads to CPUs
	EnableMetrics   bool          // Whether to collect runtime counters
	Logger          api.Logger    // Logging collaborator; nil disables logging
	ShutdownTimeout time.Duration // Bound on graceful shutdown
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		NumWorkers:      4,
		RingCapacity:    1024,
		CPUAffinity:     false,
		EnableMetrics:   true,
		Logger:          api.NopLogger{},
		ShutdownTimeout: 60 * time.Second,
	}
}

// Runtime is the main facade type.
// It implements api.GracefulShutdown to allow unified shutdown logic.
type Runtime struct {
	pool    *pool.Workers
	metrics *control.MetricsRegistry
	ctl     api.Control
	logger  api.Logger

	cfg       *Config
	startedAt time.Time
	affineSeq atomic.Uint64

	mu      sync.RWMutex
	stopped bool
}

var _ api.GracefulShutdown = (*Runtime)(nil)
var _ future.Observer = (*Runtime)(nil)

// New constructs a Runtime with the given configuration.
func New(cfg *Config) (*Runtime, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = api.NopLogger{}
	}
	rt := &Runtime{
		metrics:   control.NewMetricsRegistry(),
		logger:    cfg.Logger,
		cfg:       cfg,
		startedAt: time.Now(),
	}
	rt.pool = pool.NewWorkers(cfg.NumWorkers,
		pool.WithPinning(cfg.CPUAffinity),
		pool.WithRingCapacity(cfg.RingCapacity),
		pool.WithLogger(cfg.Logger),
	)
	rt.ctl = control.NewAdapter(rt.metrics, map[string]any{
		"num_workers":  cfg.NumWorkers,
		"cpu_affinity": cfg.CPUAffinity,
		"metrics":      cfg.EnableMetrics,
	}, rt.applyConfig)
	rt.ctl.RegisterDebugProbe("dispatch_pool", func() any { return rt.pool.Stats() })
	rt.logger.Log(api.SeverityInfo, "runtime started", nil)
	return rt, nil
}

// applyConfig reacts to Control.SetConfig updates.
func (rt *Runtime) applyConfig(cfg map[string]any) error {
	if n, ok := cfg["num_workers"].(int); ok {
		rt.pool.Resize(n)
	}
	return nil
}

// Queue returns the runtime's worker-pool dispatch queue.
func (rt *Runtime) Queue() api.DispatchQueue { return rt.pool }

// Metrics returns the runtime metrics registry.
func (rt *Runtime) Metrics() *control.MetricsRegistry { return rt.metrics }

// Control returns the dynamic config/metrics interface.
func (rt *Runtime) Control() api.Control { return rt.ctl }

// Info returns descriptive runtime information.
func (rt *Runtime) Info() api.RuntimeInfo {
	return api.RuntimeInfo{
		Name:      "hioload-async",
		Version:   "1.0.0",
		Workers:   rt.pool.NumWorkers(),
		StartedAt: rt.startedAt,
	}
}

// NewContext creates an execution context whose callbacks run on the
// dispatch pool with per-context FIFO ordering.
func (rt *Runtime) NewContext() *execctx.Context {
	return execctx.New(rt.pool.Affine(rt.affineSeq.Add(1)))
}

// Dispatch invokes handler as a per-request coroutine under a fresh acquired
// execution context scoped to the request. Exactly one primary completion —
// a value or an error — is delivered per request; late completions are
// logged and discarded through the cleanup channel.
func Dispatch[T any](rt *Runtime, handler flow.Proc[T]) *future.Future[T] {
	reqID := uuid.NewString()
	ctx := rt.NewContext()
	_ = ctx.SetState(RequestIDKey, reqID)
	// One acquisition backs the handler invocation, one is held until the
	// response is delivered, keeping request state alive for handlers.
	_ = ctx.Acquire()
	_ = ctx.Acquire()

	opts := []future.Option{future.WithContext(ctx)}
	if rt.cfg.EnableMetrics {
		opts = append(opts, future.WithObserver(rt))
	}
	outer := future.New[T](opts...)
	outer.WithCleanup(func(_ T, err error) {
		rt.logger.Log(api.SeverityWarn, "late completion discarded, request "+reqID, err)
	})
	outer.WhenDone(
		func(T) { rt.finish(ctx, reqID, nil) },
		func(err error) { rt.finish(ctx, reqID, err) },
	)
	if rt.cfg.EnableMetrics {
		rt.metrics.Inc(control.MetricRequests, 1)
		rt.metrics.Inc(control.MetricContextsLive, 1)
	}
	_ = ctx.InvokeNow(func() { flow.InvokeInto(handler, outer) })
	return outer
}

// finish releases the request context after the response was delivered.
func (rt *Runtime) finish(ctx *execctx.Context, reqID string, err error) {
	if err != nil {
		rt.logger.Log(api.SeverityDebug, "request failed, request "+reqID, err)
	} else {
		rt.logger.Log(api.SeverityDebug, "request completed, request "+reqID, nil)
	}
	if rt.cfg.EnableMetrics {
		rt.metrics.Inc(control.MetricContextsLive, -1)
	}
	_ = ctx.Release()
}

// RequestID returns the request id carried by a per-request context.
func RequestID(ctx *execctx.Context) string {
	id, _ := execctx.State[string](ctx, RequestIDKey)
	return id
}

// FutureCreated implements future.Observer.
func (rt *Runtime) FutureCreated() {
	rt.metrics.Inc(control.MetricFuturesCreated, 1)
}

// FutureCompleted implements future.Observer.
func (rt *Runtime) FutureCompleted(diverted bool, err error) {
	rt.metrics.Inc(control.MetricFuturesCompleted, 1)
	if diverted {
		rt.metrics.Inc(control.MetricFuturesDiverted, 1)
	}
	switch {
	case err == nil:
	case errors.Is(err, api.ErrTimeout):
		rt.metrics.Inc(control.MetricFuturesTimeout, 1)
	case errors.Is(err, api.ErrCanceled):
		rt.metrics.Inc(control.MetricFuturesCanceled, 1)
	}
}

// Shutdown gracefully drains the dispatch pool within the configured bound.
func (rt *Runtime) Shutdown() error {
	rt.mu.Lock()
	if rt.stopped {
		rt.mu.Unlock()
		return nil
	}
	rt.stopped = true
	rt.mu.Unlock()

	done := make(chan struct{})
	go func() {
		rt.pool.Close()
		close(done)
	}()
	select {
	case <-done:
		rt.logger.Log(api.SeverityInfo, "runtime stopped", nil)
		return nil
	case <-time.After(rt.cfg.ShutdownTimeout):
		return api.NewError(api.ErrCodeTimeout, "shutdown timed out")
	}
}
