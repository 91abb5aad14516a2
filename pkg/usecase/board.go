package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// BoardUseCase tracks an item's column position while its owning
// iteration is active
type BoardUseCase struct {
	repo    interfaces.Repository
	emitter *eventEmitter
}

func NewBoardUseCase(repo interfaces.Repository, emitter *eventEmitter) *BoardUseCase {
	return &BoardUseCase{
		repo:    repo,
		emitter: emitter,
	}
}

// MoveColumn moves a member item to any column of the active board.
// Column transitions are unordered. Moving onto DONE also finishes the
// item's workflow status; moving off DONE leaves it untouched.
func (uc *BoardUseCase) MoveColumn(ctx context.Context, iterationID, itemID int64, target types.BoardColumn, actorID int64) (*model.WorkItem, error) {
	if !target.IsValid() {
		return nil, goerr.Wrap(ErrValidation, "invalid board column", goerr.V("column", target))
	}

	iteration, err := uc.repo.Iteration().Get(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if iteration.Status != types.IterationStatusActive {
		return nil, goerr.Wrap(ErrInvalidTransition, "board moves require an active iteration",
			goerr.V("iterationID", iterationID),
			goerr.V("status", iteration.Status),
		)
	}

	if _, err := uc.repo.Membership().Get(ctx, iterationID, itemID); err != nil {
		return nil, mapStoreError(err)
	}

	item, err := uc.repo.WorkItem().Get(ctx, itemID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	column := target
	item.BoardColumn = &column
	if target == types.BoardColumnDone && item.Status == types.ItemStatusInSprint {
		if err := setItemStatus(item, types.ItemStatusDone); err != nil {
			return nil, err
		}
	}

	updated, err := uc.repo.WorkItem().Update(ctx, item)
	if err != nil {
		return nil, mapStoreError(err)
	}

	ev := model.NewEvent(model.ActionBoardMoved)
	ev.ProjectID = updated.ProjectID
	ev.ItemID = updated.ID
	ev.IterationID = iterationID
	ev.ActorID = actorID
	ev.Reason = target.String()
	uc.emitter.emit(ctx, ev)

	return updated, nil
}

// Board groups the member items of an iteration by column
type Board struct {
	IterationID int64
	Columns     map[types.BoardColumn][]*model.WorkItem
}

// GetBoard returns the board of an iteration. Items whose column is
// unset (possible only outside an active iteration) land in the entry
// column.
func (uc *BoardUseCase) GetBoard(ctx context.Context, iterationID int64) (*Board, error) {
	if _, err := uc.repo.Iteration().Get(ctx, iterationID); err != nil {
		return nil, mapStoreError(err)
	}

	memberships, err := uc.repo.Membership().ListByIteration(ctx, iterationID)
	if err != nil {
		return nil, mapStoreError(err)
	}

	board := &Board{
		IterationID: iterationID,
		Columns:     make(map[types.BoardColumn][]*model.WorkItem),
	}
	for _, column := range types.AllBoardColumns() {
		board.Columns[column] = []*model.WorkItem{}
	}

	for _, m := range memberships {
		item, err := uc.repo.WorkItem().Get(ctx, m.ItemID)
		if err != nil {
			return nil, mapStoreError(err)
		}

		column := types.EntryColumn
		if item.BoardColumn != nil {
			column = *item.BoardColumn
		}
		board.Columns[column] = append(board.Columns[column], item)
	}

	return board, nil
}
