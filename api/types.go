// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations, DTOs, and constants.

package api

import "time"

// Void is the payload type of futures that signal completion without a value.
type Void struct{}

// FutureState enumerates the observable state of a future.
type FutureState int

const (
	FuturePending FutureState = iota
	FutureCancelRequested
	FutureCompleted
	FutureCancelConfirmed
)

func (s FutureState) String() string {
	switch s {
	case FuturePending:
		return "pending"
	case FutureCancelRequested:
		return "cancel-requested"
	case FutureCompleted:
		return "completed"
	case FutureCancelConfirmed:
		return "cancel-confirmed"
	default:
		return "unknown"
	}
}

// RuntimeInfo exposes descriptive build- and runtime info for external tools.
type RuntimeInfo struct {
	Name      string
	Version   string
	Workers   int
	StartedAt time.Time
}
