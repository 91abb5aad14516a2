package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

type approvalKey struct {
	itemID      int64
	iterationID int64
	approverID  int64
}

type approvalRepository struct {
	mu      sync.RWMutex
	records map[approvalKey]*model.ApprovalRecord
}

func newApprovalRepository() *approvalRepository {
	return &approvalRepository{
		records: make(map[approvalKey]*model.ApprovalRecord),
	}
}

func copyApproval(rec *model.ApprovalRecord) *model.ApprovalRecord {
	copied := *rec
	if rec.RespondedAt != nil {
		respondedAt := *rec.RespondedAt
		copied.RespondedAt = &respondedAt
	}
	return &copied
}

func (r *approvalRepository) CreateBatch(ctx context.Context, records []*model.ApprovalRecord) error {
	if len(records) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	itemID := records[0].ItemID
	iterationID := records[0].IterationID
	for key := range r.records {
		if key.itemID == itemID && key.iterationID == iterationID {
			return goerr.Wrap(ErrAlreadyExists, "approval records already exist for this request",
				goerr.V("itemID", itemID),
				goerr.V("iterationID", iterationID),
			)
		}
	}

	now := time.Now().UTC()
	for _, rec := range records {
		created := copyApproval(rec)
		if created.RequestedAt.IsZero() {
			created.RequestedAt = now
		}
		key := approvalKey{itemID: rec.ItemID, iterationID: rec.IterationID, approverID: rec.ApproverID}
		r.records[key] = created
	}

	return nil
}

func (r *approvalRepository) Get(ctx context.Context, itemID, iterationID, approverID int64) (*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, exists := r.records[approvalKey{itemID: itemID, iterationID: iterationID, approverID: approverID}]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "approval record not found",
			goerr.V("itemID", itemID),
			goerr.V("iterationID", iterationID),
			goerr.V("approverID", approverID),
		)
	}

	return copyApproval(rec), nil
}

func (r *approvalRepository) ListByPair(ctx context.Context, itemID, iterationID int64) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ApprovalRecord, 0)
	for key, rec := range r.records {
		if key.itemID == itemID && key.iterationID == iterationID {
			records = append(records, copyApproval(rec))
		}
	}

	sortApprovals(records)
	return records, nil
}

func (r *approvalRepository) ListByIteration(ctx context.Context, iterationID int64) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ApprovalRecord, 0)
	for key, rec := range r.records {
		if key.iterationID == iterationID {
			records = append(records, copyApproval(rec))
		}
	}

	sortApprovals(records)
	return records, nil
}

func (r *approvalRepository) ListPendingByApprover(ctx context.Context, approverID int64) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ApprovalRecord, 0)
	for key, rec := range r.records {
		if key.approverID == approverID && rec.Status == types.ApprovalStatusPending {
			records = append(records, copyApproval(rec))
		}
	}

	sortApprovals(records)
	return records, nil
}

func (r *approvalRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]*model.ApprovalRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*model.ApprovalRecord, 0)
	for _, rec := range r.records {
		if rec.Status == types.ApprovalStatusPending && rec.RequestedAt.Before(cutoff) {
			records = append(records, copyApproval(rec))
		}
	}

	sortApprovals(records)
	return records, nil
}

func (r *approvalRepository) Resolve(ctx context.Context, itemID, iterationID, approverID int64, status types.ApprovalStatus, reason string) (*model.ApprovalRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := approvalKey{itemID: itemID, iterationID: iterationID, approverID: approverID}
	rec, exists := r.records[key]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "approval record not found",
			goerr.V("itemID", itemID),
			goerr.V("iterationID", iterationID),
			goerr.V("approverID", approverID),
		)
	}
	if rec.Status != types.ApprovalStatusPending {
		return nil, goerr.Wrap(ErrConflict, "approval already resolved",
			goerr.V("itemID", itemID),
			goerr.V("iterationID", iterationID),
			goerr.V("approverID", approverID),
			goerr.V("status", rec.Status),
		)
	}

	now := time.Now().UTC()
	rec.Status = status
	rec.RejectionReason = reason
	rec.RespondedAt = &now

	return copyApproval(rec), nil
}

func (r *approvalRepository) DeleteByPair(ctx context.Context, itemID, iterationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.records {
		if key.itemID == itemID && key.iterationID == iterationID {
			delete(r.records, key)
		}
	}

	return nil
}

func (r *approvalRepository) DeleteByIteration(ctx context.Context, iterationID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key := range r.records {
		if key.iterationID == iterationID {
			delete(r.records, key)
		}
	}

	return nil
}

func sortApprovals(records []*model.ApprovalRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].RequestedAt.Equal(records[j].RequestedAt) {
			return records[i].ApproverID < records[j].ApproverID
		}
		return records[i].RequestedAt.Before(records[j].RequestedAt)
	})
}
