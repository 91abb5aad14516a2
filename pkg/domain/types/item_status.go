package types

import "fmt"

// ItemStatus represents the workflow status of a work item
type ItemStatus string

const (
	ItemStatusBacklog           ItemStatus = "BACKLOG"
	ItemStatusPendingApproval   ItemStatus = "PENDING_APPROVAL"
	ItemStatusSprintReady       ItemStatus = "SPRINT_READY"
	ItemStatusInSprint          ItemStatus = "IN_SPRINT"
	ItemStatusDone              ItemStatus = "DONE"
	ItemStatusPendingAcceptance ItemStatus = "PENDING_ACCEPTANCE"
	ItemStatusAccepted          ItemStatus = "ACCEPTED"
	ItemStatusRejected          ItemStatus = "REJECTED"
)

// itemTransitions enumerates the legal workflow edges. BACKLOG is
// reachable from every post-admission state because a veto, an
// iteration reset or an iteration cancellation returns the item to the
// backlog. BACKLOG -> IN_SPRINT is the unilateral admission edge.
var itemTransitions = map[ItemStatus][]ItemStatus{
	ItemStatusBacklog:           {ItemStatusPendingApproval, ItemStatusInSprint},
	ItemStatusPendingApproval:   {ItemStatusSprintReady, ItemStatusBacklog},
	ItemStatusSprintReady:       {ItemStatusInSprint, ItemStatusBacklog},
	ItemStatusInSprint:          {ItemStatusDone, ItemStatusBacklog},
	ItemStatusDone:              {ItemStatusPendingAcceptance, ItemStatusAccepted, ItemStatusRejected, ItemStatusBacklog},
	ItemStatusPendingAcceptance: {ItemStatusAccepted, ItemStatusRejected, ItemStatusBacklog},
	ItemStatusAccepted:          {ItemStatusBacklog},
	ItemStatusRejected:          {ItemStatusBacklog},
}

// AllItemStatuses returns all valid item statuses
func AllItemStatuses() []ItemStatus {
	return []ItemStatus{
		ItemStatusBacklog,
		ItemStatusPendingApproval,
		ItemStatusSprintReady,
		ItemStatusInSprint,
		ItemStatusDone,
		ItemStatusPendingAcceptance,
		ItemStatusAccepted,
		ItemStatusRejected,
	}
}

// IsValid checks if the item status is valid
func (s ItemStatus) IsValid() bool {
	_, ok := itemTransitions[s]
	return ok
}

// CanTransitionTo reports whether the edge s -> next is a legal
// workflow transition
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, t := range itemTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Finished reports whether the item counts as completed work at
// iteration end
func (s ItemStatus) Finished() bool {
	return s == ItemStatusDone || s == ItemStatusAccepted
}

// SprintEligible reports whether an item in this status may be part of
// an iteration that is about to start
func (s ItemStatus) SprintEligible() bool {
	return s == ItemStatusSprintReady || s == ItemStatusInSprint
}

// String returns the string representation of the item status
func (s ItemStatus) String() string {
	return string(s)
}

// ParseItemStatus parses a string into an ItemStatus
func ParseItemStatus(s string) (ItemStatus, error) {
	status := ItemStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid item status: %s", s)
	}
	return status, nil
}
