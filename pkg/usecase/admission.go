package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/model/config"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// AdmissionUseCase implements the approval-gated path of scoping a work
// item into an iteration: quorum requests, individual decisions with
// veto short-circuit, and the cancellation unwind.
type AdmissionUseCase struct {
	repo    interfaces.Repository
	emitter *eventEmitter
	cfg     *config.WorkflowConfig
}

func NewAdmissionUseCase(repo interfaces.Repository, emitter *eventEmitter, cfg *config.WorkflowConfig) *AdmissionUseCase {
	return &AdmissionUseCase{
		repo:    repo,
		emitter: emitter,
		cfg:     cfg,
	}
}

// RequestAdmission asks for a work item to be scoped into a PLANNED
// iteration. An actor with unilateral admit rights commits the item
// immediately; anyone else opens one PENDING approval record per
// approver in the quorum (the requester is never part of it).
func (uc *AdmissionUseCase) RequestAdmission(ctx context.Context, itemID, iterationID int64, approverSet []int64, requesterID int64, requesterRoles types.Roles) (*model.WorkItem, error) {
	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if iteration.Status != types.IterationStatusPlanned {
		return nil, goerr.Wrap(ErrInvalidTransition, "admission requests are only valid while the iteration is planned",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}
	if item.ProjectID != iteration.ProjectID {
		return nil, goerr.Wrap(ErrValidation, "item and iteration belong to different projects",
			goerr.V("itemID", itemID),
			goerr.V("item_project", item.ProjectID),
			goerr.V("iteration_project", iteration.ProjectID),
		)
	}
	if item.Status != types.ItemStatusBacklog {
		return nil, goerr.Wrap(ErrInvalidTransition, "only backlog items can request admission",
			goerr.V("itemID", itemID),
			goerr.V("status", item.Status),
		)
	}

	existing, err := uc.repo.Approval().ListByPair(ctx, itemID, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if len(existing) > 0 {
		return nil, goerr.Wrap(ErrConflict, "admission already requested for this item and iteration",
			goerr.V("itemID", itemID),
			goerr.V("iterationID", iterationID),
		)
	}

	if uc.cfg.HasUnilateralAdmitRight(requesterRoles) {
		return uc.admitDirectly(ctx, item, iteration, requesterID)
	}

	if len(approverSet) == 0 {
		approverSet = uc.cfg.ApproversForProject(item.ProjectID)
	}

	quorum := make([]int64, 0, len(approverSet))
	seen := make(map[int64]bool)
	for _, approverID := range approverSet {
		if approverID == requesterID || seen[approverID] {
			continue
		}
		seen[approverID] = true
		quorum = append(quorum, approverID)
	}
	if len(quorum) == 0 {
		return nil, goerr.Wrap(ErrValidation, "approver quorum must not be empty",
			goerr.V("itemID", itemID),
			goerr.V("requesterID", requesterID),
		)
	}

	records := make([]*model.ApprovalRecord, len(quorum))
	for i, approverID := range quorum {
		records[i] = &model.ApprovalRecord{
			ItemID:      itemID,
			IterationID: iterationID,
			ApproverID:  approverID,
			Status:      types.ApprovalStatusPending,
		}
	}
	if err := uc.repo.Approval().CreateBatch(ctx, records); err != nil {
		return nil, mapStoreError(err)
	}

	if err := setItemStatus(item, types.ItemStatusPendingApproval); err != nil {
		return nil, err
	}
	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	for _, approverID := range quorum {
		ev := model.NewEvent(model.ActionAdmissionRequested)
		ev.ProjectID = item.ProjectID
		ev.ItemID = itemID
		ev.IterationID = iterationID
		ev.ActorID = requesterID
		ev.RecipientID = approverID
		uc.emitter.emit(ctx, ev)
	}

	return updated, nil
}

// admitDirectly is the elevated-role bypass: membership is committed
// with an empty effective quorum and the item goes straight to
// IN_SPRINT.
func (uc *AdmissionUseCase) admitDirectly(ctx context.Context, item *model.WorkItem, iteration *model.Iteration, actorID int64) (*model.WorkItem, error) {
	if _, err := uc.repo.Membership().Create(ctx, &model.Membership{
		ItemID:          item.ID,
		IterationID:     iteration.ID,
		CommittedPoints: item.Points(),
	}); err != nil {
		return nil, mapStoreError(err)
	}

	if err := setItemStatus(item, types.ItemStatusInSprint); err != nil {
		return nil, err
	}
	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionAdmissionAllApproved)
	ev.ProjectID = item.ProjectID
	ev.ItemID = item.ID
	ev.IterationID = iteration.ID
	ev.ActorID = actorID
	ev.CommittedPoints = item.Points()
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// RecordDecision applies one approver's decision. Approval re-evaluates
// the quorum; a rejection vetoes the whole request immediately.
func (uc *AdmissionUseCase) RecordDecision(ctx context.Context, itemID, iterationID, approverID int64, approve bool, reason string) (*model.WorkItem, error) {
	if !approve && strings.TrimSpace(reason) == "" {
		return nil, goerr.Wrap(ErrValidation, "rejection reason is required",
			goerr.V("itemID", itemID),
			goerr.V("approverID", approverID),
		)
	}

	decision := types.ApprovalStatusApproved
	if !approve {
		decision = types.ApprovalStatusRejected
	} else {
		reason = ""
	}

	if _, err := uc.repo.Approval().Resolve(ctx, itemID, iterationID, approverID, decision, reason); err != nil {
		return nil, mapStoreError(err)
	}

	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if !approve {
		ev := model.NewEvent(model.ActionAdmissionRejected)
		ev.ProjectID = item.ProjectID
		ev.ItemID = itemID
		ev.IterationID = iterationID
		ev.ActorID = approverID
		ev.Reason = reason
		uc.emitter.emit(ctx, ev)

		return uc.veto(ctx, item, iterationID)
	}

	ev := model.NewEvent(model.ActionAdmissionApproved)
	ev.ProjectID = item.ProjectID
	ev.ItemID = itemID
	ev.IterationID = iterationID
	ev.ActorID = approverID
	uc.emitter.emit(ctx, ev)

	return uc.evaluateQuorum(ctx, item, iterationID, approverID)
}

// veto unwinds an admission request after a single rejection: the item
// returns to the backlog, its membership (if any) is removed, and every
// approval record for the pair is deleted, pending ones included.
func (uc *AdmissionUseCase) veto(ctx context.Context, item *model.WorkItem, iterationID int64) (*model.WorkItem, error) {
	if err := uc.repo.Membership().Delete(ctx, iterationID, item.ID); err != nil && !errors.Is(err, interfaces.ErrNotFound) {
		return nil, mapStoreError(err)
	}

	if err := uc.repo.Approval().DeleteByPair(ctx, item.ID, iterationID); err != nil {
		return nil, mapStoreError(err)
	}

	if err := setItemStatus(item, types.ItemStatusBacklog); err != nil {
		return nil, err
	}
	item.BoardColumn = nil
	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	return updated, nil
}

// evaluateQuorum commits the membership once no record for the pair
// remains unapproved
func (uc *AdmissionUseCase) evaluateQuorum(ctx context.Context, item *model.WorkItem, iterationID, actorID int64) (*model.WorkItem, error) {
	records, err := uc.repo.Approval().ListByPair(ctx, item.ID, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	for _, rec := range records {
		if rec.Status != types.ApprovalStatusApproved {
			return item, nil
		}
	}

	if _, err := uc.repo.Membership().Create(ctx, &model.Membership{
		ItemID:          item.ID,
		IterationID:     iterationID,
		CommittedPoints: item.Points(),
	}); err != nil {
		return nil, mapStoreError(err)
	}

	if err := setItemStatus(item, types.ItemStatusSprintReady); err != nil {
		return nil, err
	}
	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionAdmissionAllApproved)
	ev.ProjectID = item.ProjectID
	ev.ItemID = item.ID
	ev.IterationID = iterationID
	ev.ActorID = actorID
	ev.CommittedPoints = item.Points()
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// CancelAdmissionsForIteration unwinds every outstanding approval cycle
// under an iteration. Items still waiting on their quorum return to the
// backlog; all approval records for the iteration are removed. The
// operation is idempotent.
func (uc *AdmissionUseCase) CancelAdmissionsForIteration(ctx context.Context, iterationID int64) error {
	records, err := uc.repo.Approval().ListByIteration(ctx, iterationID)
	if err != nil {
		return mapStoreError(err)
	}

	reverted := make(map[int64]bool)
	for _, rec := range records {
		if rec.Status != types.ApprovalStatusPending || reverted[rec.ItemID] {
			continue
		}
		reverted[rec.ItemID] = true

		item, err := uc.repo.WorkItem().Get(ctx, rec.ItemID)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				continue
			}
			return mapStoreError(err)
		}
		if item.Status != types.ItemStatusPendingApproval {
			continue
		}

		if err := setItemStatus(item, types.ItemStatusBacklog); err != nil {
			return err
		}
		if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
			return mapStoreError(err)
		}
	}

	if err := uc.repo.Approval().DeleteByIteration(ctx, iterationID); err != nil {
		return mapStoreError(err)
	}

	return nil
}

// PendingApprovalsFor lists all pending approval records awaiting a
// given approver
func (uc *AdmissionUseCase) PendingApprovalsFor(ctx context.Context, approverID int64) ([]*model.ApprovalRecord, error) {
	records, err := uc.repo.Approval().ListPendingByApprover(ctx, approverID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return records, nil
}

// ApprovalsForItem lists every approval record for an (item, iteration)
// pair
func (uc *AdmissionUseCase) ApprovalsForItem(ctx context.Context, itemID, iterationID int64) ([]*model.ApprovalRecord, error) {
	records, err := uc.repo.Approval().ListByPair(ctx, itemID, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return records, nil
}

// mapStoreError translates repository sentinels into the caller-visible
// error taxonomy
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, interfaces.ErrNotFound):
		return goerr.Wrap(ErrNotFound, err.Error())
	case errors.Is(err, interfaces.ErrAlreadyExists), errors.Is(err, interfaces.ErrConflict):
		return goerr.Wrap(ErrConflict, err.Error())
	default:
		return err
	}
}
