package model

import (
	"time"

	"github.com/stride-hq/stride/pkg/domain/types"
)

// ApprovalRecord is one approver's pending or resolved decision about
// admitting a work item into an iteration. The (item, iteration,
// approver) triple is unique; a resolved record is immutable.
type ApprovalRecord struct {
	ItemID          int64
	IterationID     int64
	ApproverID      int64
	Status          types.ApprovalStatus
	RejectionReason string
	RequestedAt     time.Time
	RespondedAt     *time.Time
}
