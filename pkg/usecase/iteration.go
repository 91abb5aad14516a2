package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// IterationUseCase implements the iteration lifecycle: PLANNED →
// ACTIVE → COMPLETED, with CANCELLED reachable until completion.
type IterationUseCase struct {
	repo      interfaces.Repository
	emitter   *eventEmitter
	admission *AdmissionUseCase
}

func NewIterationUseCase(repo interfaces.Repository, emitter *eventEmitter, admission *AdmissionUseCase) *IterationUseCase {
	return &IterationUseCase{
		repo:      repo,
		emitter:   emitter,
		admission: admission,
	}
}

// CreateIterationInput carries the caller-supplied fields of a new
// iteration
type CreateIterationInput struct {
	ProjectID   int64
	Name        string
	Goal        string
	StartDate   time.Time
	EndDate     time.Time
	LengthWeeks int
	Capacity    int
}

// CreateIteration creates an iteration in PLANNED status
func (uc *IterationUseCase) CreateIteration(ctx context.Context, input *CreateIterationInput, actorID int64) (*model.Iteration, error) {
	iteration := &model.Iteration{
		ProjectID:   input.ProjectID,
		Name:        input.Name,
		Goal:        input.Goal,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		LengthWeeks: input.LengthWeeks,
		Status:      types.IterationStatusPlanned,
		Capacity:    input.Capacity,
		CreatedBy:   actorID,
	}
	if err := iteration.Validate(); err != nil {
		return nil, goerr.Wrap(ErrValidation, err.Error())
	}

	created, err := uc.repo.Iteration().Create(ctx, iteration)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionIterationCreated)
	ev.ProjectID = created.ProjectID
	ev.IterationID = created.ID
	ev.ActorID = actorID
	uc.emitter.emit(ctx, ev)

	return created, nil
}

// GetIteration retrieves a single iteration
func (uc *IterationUseCase) GetIteration(ctx context.Context, iterationID int64) (*model.Iteration, error) {
	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return iteration, nil
}

// ListIterations lists all iterations of a project, newest first
func (uc *IterationUseCase) ListIterations(ctx context.Context, projectID int64) ([]*model.Iteration, error) {
	iterations, err := uc.repo.Iteration().ListByProject(ctx, projectID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return iterations, nil
}

// ActiveIteration returns the project's ACTIVE iteration, or nil if
// none is running
func (uc *IterationUseCase) ActiveIteration(ctx context.Context, projectID int64) (*model.Iteration, error) {
	iteration, err := uc.repo.Iteration().FindByProjectAndStatus(ctx, projectID, types.IterationStatusActive)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return iteration, nil
}

// Start activates a PLANNED iteration. It requires a non-empty goal,
// at least one member, and every member ready for the sprint. Member
// items move to IN_SPRINT and their board column resets to the entry
// column.
func (uc *IterationUseCase) Start(ctx context.Context, iterationID, actorID int64) (*model.Iteration, error) {
	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if iteration.Status != types.IterationStatusPlanned {
		return nil, goerr.Wrap(ErrInvalidTransition, "only planned iterations can start",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}
	if !iteration.HasGoal() {
		return nil, goerr.Wrap(ErrValidation, "iteration goal is required to start",
			goerr.V("iterationID", iterationID),
		)
	}

	memberships, err := uc.repo.Membership().ListByIteration(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if len(memberships) == 0 {
		return nil, goerr.Wrap(ErrValidation, "iteration has no members",
			goerr.V("iterationID", iterationID),
		)
	}

	committedPoints := 0
	members := make([]*model.WorkItem, len(memberships))
	for i, m := range memberships {
		item, err := uc.repo.WorkItem().Get(ctx, m.ItemID)
		if err != nil {
			return nil, mapStoreError(err)
		}
		if !item.Status.SprintEligible() {
			return nil, goerr.Wrap(ErrValidation, "member item is not ready for the sprint",
				goerr.V("iterationID", iterationID),
				goerr.V("itemID", item.ID),
				goerr.V("status", item.Status),
			)
		}
		members[i] = item
		committedPoints += m.CommittedPoints
	}

	entry := types.EntryColumn
	for _, item := range members {
		if err := setItemStatus(item, types.ItemStatusInSprint); err != nil {
			return nil, err
		}
		column := entry
		item.BoardColumn = &column
		if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
			return nil, mapStoreError(err)
		}
	}

	now := time.Now().UTC()
	if err := setIterationStatus(iteration, types.IterationStatusActive); err != nil {
		return nil, err
	}
	iteration.StartedAt = &now
	updated, err := uc.repo.Iteration().Update(ctx, iteration)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionIterationStarted)
	ev.ProjectID = updated.ProjectID
	ev.IterationID = updated.ID
	ev.ActorID = actorID
	ev.CommittedPoints = committedPoints
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// End completes an ACTIVE iteration. Finished members (DONE or
// ACCEPTED) record their actual points; everything else leaves the
// iteration's scope and returns to the backlog ("sprint reset").
func (uc *IterationUseCase) End(ctx context.Context, iterationID, actorID int64) (*model.Iteration, error) {
	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if iteration.Status != types.IterationStatusActive {
		return nil, goerr.Wrap(ErrInvalidTransition, "only active iterations can end",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}

	memberships, err := uc.repo.Membership().ListByIteration(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	now := time.Now().UTC()
	committedPoints := 0
	completedPoints := 0
	completedCount := 0
	for _, m := range memberships {
		committedPoints += m.CommittedPoints

		item, err := uc.repo.WorkItem().Get(ctx, m.ItemID)
		if err != nil {
			return nil, mapStoreError(err)
		}

		if item.Status.Finished() {
			if m.ActualPoints == nil {
				points := item.Points()
				m.ActualPoints = &points
			}
			m.CompletedAt = &now
			if _, err := uc.repo.Membership().Update(ctx, m); err != nil {
				return nil, mapStoreError(err)
			}
			completedPoints += *m.ActualPoints
			completedCount++
			continue
		}

		// sprint reset: unfinished work leaves the iteration entirely
		if err := setItemStatus(item, types.ItemStatusBacklog); err != nil {
			return nil, err
		}
		item.BoardColumn = nil
		if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
			return nil, mapStoreError(err)
		}
		if err := uc.repo.Membership().Delete(ctx, iterationID, m.ItemID); err != nil {
			return nil, mapStoreError(err)
		}
	}

	if err := setIterationStatus(iteration, types.IterationStatusCompleted); err != nil {
		return nil, err
	}
	iteration.EndedAt = &now
	updated, err := uc.repo.Iteration().Update(ctx, iteration)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionIterationCompleted)
	ev.ProjectID = updated.ProjectID
	ev.IterationID = updated.ID
	ev.ActorID = actorID
	ev.CommittedPoints = committedPoints
	ev.CompletedPoints = completedPoints
	ev.CompletedCount = completedCount
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// Cancel cancels a PLANNED or ACTIVE iteration. Every member returns to
// the backlog, memberships are removed and outstanding approval cycles
// are unwound.
func (uc *IterationUseCase) Cancel(ctx context.Context, iterationID, actorID int64) (*model.Iteration, error) {
	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	if iteration.Status.Terminal() {
		return nil, goerr.Wrap(ErrConflict, "iteration is already terminal",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}

	memberships, err := uc.repo.Membership().ListByIteration(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	for _, m := range memberships {
		item, err := uc.repo.WorkItem().Get(ctx, m.ItemID)
		if err != nil {
			return nil, mapStoreError(err)
		}
		if err := setItemStatus(item, types.ItemStatusBacklog); err != nil {
			return nil, err
		}
		item.BoardColumn = nil
		if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
			return nil, mapStoreError(err)
		}
		if err := uc.repo.Membership().Delete(ctx, iterationID, m.ItemID); err != nil {
			return nil, mapStoreError(err)
		}
	}

	if err := uc.admission.CancelAdmissionsForIteration(ctx, iterationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := setIterationStatus(iteration, types.IterationStatusCancelled); err != nil {
		return nil, err
	}
	iteration.EndedAt = &now
	updated, err := uc.repo.Iteration().Update(ctx, iteration)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionIterationCancelled)
	ev.ProjectID = updated.ProjectID
	ev.IterationID = updated.ID
	ev.ActorID = actorID
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// RemoveItem takes a work item out of a PLANNED iteration's scope. The
// item returns to the backlog and its membership is removed. Scope is
// frozen once the iteration is running.
func (uc *IterationUseCase) RemoveItem(ctx context.Context, iterationID, itemID int64) error {
	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return mapStoreError(err)
	}
	if iteration.Status != types.IterationStatusPlanned {
		return goerr.Wrap(ErrInvalidTransition, "iteration scope is frozen once the iteration leaves planning",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}

	if _, err := uc.repo.Membership().Get(ctx, iterationID, itemID); err != nil {
		return mapStoreError(err)
	}

	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return mapStoreError(err)
	}
	if err := setItemStatus(item, types.ItemStatusBacklog); err != nil {
		return err
	}
	item.BoardColumn = nil
	if _, err := uc.repo.WorkItem().Update(ctx, item); err != nil {
		return mapStoreError(err)
	}

	if err := uc.repo.Membership().Delete(ctx, iterationID, itemID); err != nil {
		return mapStoreError(err)
	}

	return nil
}
