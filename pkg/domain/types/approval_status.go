package types

import "fmt"

// ApprovalStatus represents the state of a single approver's decision
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

// IsValid checks if the approval status is valid
func (s ApprovalStatus) IsValid() bool {
	switch s {
	case ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected:
		return true
	default:
		return false
	}
}

// Resolved reports whether the decision is final. Resolved decisions
// cannot be resubmitted.
func (s ApprovalStatus) Resolved() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// String returns the string representation of the approval status
func (s ApprovalStatus) String() string {
	return string(s)
}

// ParseApprovalStatus parses a string into an ApprovalStatus
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	status := ApprovalStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid approval status: %s", s)
	}
	return status, nil
}
