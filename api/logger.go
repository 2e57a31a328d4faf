// File: api/logger.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Logging collaborator contract for error interception and cleanup paths.

package api

// Severity grades log records emitted by the runtime.
type Severity int32

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Logger is the capability consumed by error-intercepting continuations and
// by disposal-on-cleanup paths. err may be nil.
type Logger interface {
	Log(sev Severity, msg string, err error)
}

// NopLogger discards every record.
type NopLogger struct{}

// Log implements Logger.
func (NopLogger) Log(Severity, string, error) {}
