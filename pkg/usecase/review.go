package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// ReviewUseCase implements the acceptance step after an item finishes
// its sprint work
type ReviewUseCase struct {
	repo    interfaces.Repository
	emitter *eventEmitter
}

func NewReviewUseCase(repo interfaces.Repository, emitter *eventEmitter) *ReviewUseCase {
	return &ReviewUseCase{
		repo:    repo,
		emitter: emitter,
	}
}

func reviewable(status types.ItemStatus) bool {
	return status == types.ItemStatusDone || status == types.ItemStatusPendingAcceptance
}

// Accept marks a finished item as accepted, recording the reviewer and
// clearing any prior rejection reason
func (uc *ReviewUseCase) Accept(ctx context.Context, itemID, reviewerID int64) (*model.WorkItem, error) {
	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !reviewable(item.Status) {
		return nil, goerr.Wrap(ErrInvalidTransition, "item is not awaiting acceptance",
			goerr.V("itemID", itemID),
			goerr.V("status", item.Status),
		)
	}

	now := time.Now().UTC()
	if err := setItemStatus(item, types.ItemStatusAccepted); err != nil {
		return nil, err
	}
	item.ReviewedBy = &reviewerID
	item.ReviewedAt = &now
	item.RejectionReason = ""

	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionItemAccepted)
	ev.ProjectID = updated.ProjectID
	ev.ItemID = updated.ID
	ev.ActorID = reviewerID
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// Reject marks a finished item as rejected with a required reason
func (uc *ReviewUseCase) Reject(ctx context.Context, itemID, reviewerID int64, reason string) (*model.WorkItem, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, goerr.Wrap(ErrValidation, "rejection reason is required", goerr.V("itemID", itemID))
	}

	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !reviewable(item.Status) {
		return nil, goerr.Wrap(ErrInvalidTransition, "item is not awaiting acceptance",
			goerr.V("itemID", itemID),
			goerr.V("status", item.Status),
		)
	}

	now := time.Now().UTC()
	if err := setItemStatus(item, types.ItemStatusRejected); err != nil {
		return nil, err
	}
	item.ReviewedBy = &reviewerID
	item.ReviewedAt = &now
	item.RejectionReason = reason

	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionItemRejected)
	ev.ProjectID = updated.ProjectID
	ev.ItemID = updated.ID
	ev.ActorID = reviewerID
	ev.Reason = reason
	uc.emitter.emit(ctx, ev)

	return updated, nil
}
