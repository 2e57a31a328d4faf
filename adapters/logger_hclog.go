// File: adapters/logger_hclog.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// api.Logger adapter over hashicorp/go-hclog structured logging.

package adapters

import (
	"github.com/hashicorp/go-hclog"

	"github.com/momentics/hioload-async/api"
)

// HCLogger bridges the runtime's logging capability to an hclog.Logger.
type HCLogger struct {
	l hclog.Logger
}

var _ api.Logger = (*HCLogger)(nil)

// NewHCLogger builds a named hclog-backed logger with default options.
func NewHCLogger(name string) *HCLogger {
	return &HCLogger{l: hclog.New(&hclog.LoggerOptions{Name: name})}
}

// WrapHCLog adapts an existing hclog.Logger.
func WrapHCLog(l hclog.Logger) *HCLogger {
	return &HCLogger{l: l}
}

// Log implements api.Logger.
func (h *HCLogger) Log(sev api.Severity, msg string, err error) {
	args := []any{}
	if err != nil {
		args = append(args, "error", err)
	}
	switch sev {
	case api.SeverityDebug:
		h.l.Debug(msg, args...)
	case api.SeverityInfo:
		h.l.Info(msg, args...)
	case api.SeverityWarn:
		h.l.Warn(msg, args...)
	default:
		h.l.Error(msg, args...)
	}
}
