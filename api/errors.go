// File: api/errors.go
// Package api
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Common error types and error handling utilities for the hioload-async runtime.

package api

import (
	"errors"
	"fmt"
)

// Sentinel errors for the runtime error taxonomy.
//
// ErrInvalidState reports a Future or Context used outside its legal
// transition set: a duplicate primary completion with no intervening
// cancellation or timeout, ConfirmCancel without a prior Cancel, or
// invoking an unacquired or dead context. Synchronous misuse, never
// swallowed.
//
// ErrTimeout is synthesized when a Future's deadline elapses before its
// primary completion, or when a wait-level timeout expires.
//
// ErrCanceled is synthesized by ConfirmCancel or by cancellation escalation.
var (
	ErrInvalidState = errors.New("operation outside legal state transitions")
	ErrTimeout      = errors.New("operation timed out")
	ErrCanceled     = errors.New("operation canceled")
	ErrQueueClosed  = errors.New("dispatch queue is closed")
)

// ErrorCode represents specific error conditions in the runtime.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidState
	ErrCodeTimeout
	ErrCodeCanceled
	ErrCodeQueueClosed
	ErrCodeInternal
)

// sentinel maps a code to the sentinel it unwraps to.
func (c ErrorCode) sentinel() error {
	switch c {
	case ErrCodeInvalidState:
		return ErrInvalidState
	case ErrCodeTimeout:
		return ErrTimeout
	case ErrCodeCanceled:
		return ErrCanceled
	case ErrCodeQueueClosed:
		return ErrQueueClosed
	default:
		return nil
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Unwrap lets errors.Is match structured errors against the sentinels.
func (e *Error) Unwrap() error {
	return e.Code.sentinel()
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
