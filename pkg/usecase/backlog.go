package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// BacklogUseCase covers work item CRUD and backlog ordering. Items are
// plain backlog records until the admission workflow scopes them into
// an iteration.
type BacklogUseCase struct {
	repo      interfaces.Repository
	emitter   *eventEmitter
	admission *AdmissionUseCase
}

func NewBacklogUseCase(repo interfaces.Repository, emitter *eventEmitter, admission *AdmissionUseCase) *BacklogUseCase {
	return &BacklogUseCase{
		repo:      repo,
		emitter:   emitter,
		admission: admission,
	}
}

// CreateWorkItemInput carries the caller-supplied fields of a new work
// item. IterationID, when non-zero, requests direct placement into that
// iteration through the admission workflow.
type CreateWorkItemInput struct {
	ProjectID          int64
	Title              string
	Description        string
	Type               types.ItemType
	PointEstimate      *int
	Priority           int
	AcceptanceCriteria string
	IterationID        int64
	ApproverSet        []int64
}

// CreateWorkItem creates a work item at the bottom of the project
// backlog. When direct placement into an iteration is requested, the
// item routes through the admission workflow: an elevated actor admits
// it immediately, anyone else opens an approval request. Placement is a
// second step after creation: when it fails, the item already exists
// and stays in the backlog, and the returned error carries its ID.
func (uc *BacklogUseCase) CreateWorkItem(ctx context.Context, input *CreateWorkItemInput, actorID int64, actorRoles types.Roles) (*model.WorkItem, error) {
	item := &model.WorkItem{
		ProjectID:          input.ProjectID,
		Title:              input.Title,
		Description:        input.Description,
		Type:               input.Type,
		PointEstimate:      input.PointEstimate,
		Priority:           input.Priority,
		AcceptanceCriteria: input.AcceptanceCriteria,
		Status:             types.ItemStatusBacklog,
		CreatedBy:          actorID,
	}
	if len(actorRoles) > 0 {
		item.CreatedByRole = actorRoles[0]
	}
	if err := item.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	maxPos, err := uc.repo.WorkItem().MaxPosition(ctx, input.ProjectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	item.Position = maxPos + 1

	created, err := uc.repo.WorkItem().Create(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionItemCreated)
	ev.ProjectID = created.ProjectID
	ev.ItemID = created.ID
	ev.ActorID = actorID
	uc.emitter.emit(ctx, ev)

	if input.IterationID != 0 {
		placed, err := uc.admission.RequestAdmission(ctx, created.ID, input.IterationID, input.ApproverSet, actorID, actorRoles)
		if err != nil {
			return nil, goerr.Wrap(err, "work item created but direct placement failed",
				goerr.V("itemID", created.ID),
			)
		}
		return placed, nil
	}

	return created, nil
}

// UpdateWorkItemInput carries the mutable attributes of a work item.
// Nil fields are left unchanged.
type UpdateWorkItemInput struct {
	Title              *string
	Description        *string
	Type               *types.ItemType
	PointEstimate      *int
	Priority           *int
	AcceptanceCriteria *string
}

// UpdateWorkItem applies attribute updates outside the workflow scope.
// Changing the point estimate emits item.estimated instead of
// item.updated.
func (uc *BacklogUseCase) UpdateWorkItem(ctx context.Context, itemID int64, input *UpdateWorkItemInput, actorID int64) (*model.WorkItem, error) {
	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	reEstimated := false
	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.PointEstimate != nil {
		if item.PointEstimate == nil || *item.PointEstimate != *input.PointEstimate {
			reEstimated = true
		}
		item.PointEstimate = input.PointEstimate
	}
	if input.Priority != nil {
		item.Priority = *input.Priority
	}
	if input.AcceptanceCriteria != nil {
		item.AcceptanceCriteria = *input.AcceptanceCriteria
	}

	if err := item.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	action := model.ActionItemUpdated
	if reEstimated {
		action = model.ActionItemEstimated
	}
	ev := model.NewEvent(action)
	ev.ProjectID = updated.ProjectID
	ev.ItemID = updated.ID
	ev.ActorID = actorID
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// GetWorkItem retrieves a single work item
func (uc *BacklogUseCase) GetWorkItem(ctx context.Context, itemID int64) (*model.WorkItem, error) {
	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return item, nil
}

// GetBacklog lists all work items of a project in backlog order
func (uc *BacklogUseCase) GetBacklog(ctx context.Context, projectID int64) ([]*model.WorkItem, error) {
	items, err := uc.repo.WorkItem().ListByProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return items, nil
}

// ReorderBacklog rewrites the ordering keys of a project backlog. Every
// listed item must belong to the project; items not listed keep their
// keys.
func (uc *BacklogUseCase) ReorderBacklog(ctx context.Context, projectID int64, orderedIDs []int64) error {
	if len(orderedIDs) == 0 {
		return goerr.Wrap(ErrValidation, "ordered ID list must not be empty", goerr.V("projectID", projectID))
	}

	for position, itemID := range orderedIDs {
		item, err := uc.repo.WorkItem().Get(ctx, itemID)
		if err != nil {
			return mapStoreError(err)
		}
		if item.ProjectID != projectID {
			return goerr.Wrap(ErrValidation, "item belongs to a different project",
				goerr.V("itemID", itemID),
				goerr.V("projectID", projectID),
			)
		}

		if item.Position == position {
			continue
		}
		item.Position = position
		if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
			return mapStoreError(err)
		}
	}

	return nil
}

// DeleteWorkItem removes a work item. Only backlog items can be
// deleted; anything scoped into an iteration or waiting on approvals
// must be unwound through the workflow first.
func (uc *BacklogUseCase) DeleteWorkItem(ctx context.Context, itemID int64) error {
	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return mapStoreError(err)
	}
	if item.Status != types.ItemStatusBacklog {
		return goerr.Wrap(ErrInvalidTransition, "only backlog items can be deleted",
			goerr.V("itemID", itemID),
			goerr.V("status", item.Status),
		)
	}

	if err := uc.repo.WorkItem().Delete(ctx, itemID); err != nil {
		return mapStoreError(err)
	}

	return nil
}
