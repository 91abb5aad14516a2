package interfaces

import (
	"context"
	"time"

	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// ApprovalRepository defines the interface for approval ledger data
// access. The (item, iteration, approver) triple is unique.
type ApprovalRepository interface {
	// CreateBatch creates pending approval records for one admission
	// request. Fails with ErrAlreadyExists if any record for the
	// (item, iteration) pair already exists; no record is created in
	// that case.
	CreateBatch(ctx context.Context, records []*model.ApprovalRecord) error

	// Get retrieves a single approval record
	Get(ctx context.Context, itemID, iterationID, approverID int64) (*model.ApprovalRecord, error)

	// ListByPair retrieves all approval records for an (item,
	// iteration) pair
	ListByPair(ctx context.Context, itemID, iterationID int64) ([]*model.ApprovalRecord, error)

	// ListByIteration retrieves all approval records under an
	// iteration
	ListByIteration(ctx context.Context, iterationID int64) ([]*model.ApprovalRecord, error)

	// ListPendingByApprover retrieves all pending records awaiting a
	// given approver
	ListPendingByApprover(ctx context.Context, approverID int64) ([]*model.ApprovalRecord, error)

	// ListPendingOlderThan retrieves pending records requested before
	// the cutoff
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*model.ApprovalRecord, error)

	// Resolve atomically flips a PENDING record to APPROVED or
	// REJECTED. Fails with ErrNotFound if no record exists and with
	// ErrConflict if the record is already resolved; decisions are
	// final.
	Resolve(ctx context.Context, itemID, iterationID, approverID int64, status types.ApprovalStatus, reason string) (*model.ApprovalRecord, error)

	// DeleteByPair removes all approval records for an (item,
	// iteration) pair
	DeleteByPair(ctx context.Context, itemID, iterationID int64) error

	// DeleteByIteration removes all approval records under an
	// iteration
	DeleteByIteration(ctx context.Context, iterationID int64) error
}
