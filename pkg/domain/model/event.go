package model

import (
	"time"

	"github.com/google/uuid"
)

// EventAction names a single lifecycle transition
type EventAction string

const (
	ActionItemCreated   EventAction = "item.created"
	ActionItemUpdated   EventAction = "item.updated"
	ActionItemEstimated EventAction = "item.estimated"
	ActionItemAccepted  EventAction = "item.accepted"
	ActionItemRejected  EventAction = "item.rejected"

	ActionAdmissionRequested   EventAction = "admission.requested"
	ActionAdmissionApproved    EventAction = "admission.approved"
	ActionAdmissionRejected    EventAction = "admission.rejected"
	ActionAdmissionAllApproved EventAction = "admission.all-approved"
	ActionAdmissionReminder    EventAction = "admission.reminder"

	ActionIterationCreated   EventAction = "iteration.created"
	ActionIterationStarted   EventAction = "iteration.started"
	ActionIterationCompleted EventAction = "iteration.completed"
	ActionIterationCancelled EventAction = "iteration.cancelled"

	ActionBoardMoved EventAction = "board.moved"
)

// Event is an outbound lifecycle notification. Delivery is
// fire-and-forget: the workflow never inspects or depends on the
// delivery outcome.
type Event struct {
	ID          string
	Action      EventAction
	ProjectID   int64
	ItemID      int64
	IterationID int64

	// ActorID is the identity that triggered the transition, zero when
	// the transition was system-initiated.
	ActorID int64

	// RecipientID is set on per-approver notifications
	// (admission.requested, admission.reminder).
	RecipientID int64

	// Point tallies carried by iteration.started and
	// iteration.completed events: velocity and burndown inputs for
	// external reporting.
	CommittedPoints int
	CompletedPoints int
	CompletedCount  int

	Reason     string
	OccurredAt time.Time
}

// NewEvent creates an event with a fresh ID and timestamp
func NewEvent(action EventAction) *Event {
	return &Event{
		ID:         uuid.NewString(),
		Action:     action,
		OccurredAt: time.Now().UTC(),
	}
}
