package types

import "fmt"

// IterationStatus represents the lifecycle status of an iteration
type IterationStatus string

const (
	IterationStatusPlanned   IterationStatus = "PLANNED"
	IterationStatusActive    IterationStatus = "ACTIVE"
	IterationStatusCompleted IterationStatus = "COMPLETED"
	IterationStatusCancelled IterationStatus = "CANCELLED"
)

// AllIterationStatuses returns all valid iteration statuses
func AllIterationStatuses() []IterationStatus {
	return []IterationStatus{
		IterationStatusPlanned,
		IterationStatusActive,
		IterationStatusCompleted,
		IterationStatusCancelled,
	}
}

// IsValid checks if the iteration status is valid
func (s IterationStatus) IsValid() bool {
	switch s {
	case IterationStatusPlanned,
		IterationStatusActive,
		IterationStatusCompleted,
		IterationStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the edge s -> next is legal.
// COMPLETED and CANCELLED are terminal.
func (s IterationStatus) CanTransitionTo(next IterationStatus) bool {
	switch s {
	case IterationStatusPlanned:
		return next == IterationStatusActive || next == IterationStatusCancelled
	case IterationStatusActive:
		return next == IterationStatusCompleted || next == IterationStatusCancelled
	default:
		return false
	}
}

// Terminal reports whether no further transitions are possible
func (s IterationStatus) Terminal() bool {
	return s == IterationStatusCompleted || s == IterationStatusCancelled
}

// String returns the string representation of the iteration status
func (s IterationStatus) String() string {
	return string(s)
}

// ParseIterationStatus parses a string into an IterationStatus
func ParseIterationStatus(s string) (IterationStatus, error) {
	status := IterationStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid iteration status: %s", s)
	}
	return status, nil
}
