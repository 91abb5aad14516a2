package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
)

// setItemStatus routes every work item status write through the
// workflow transition table. Writing the current status is a no-op so
// bulk operations may include items already in the target state.
func setItemStatus(item *model.WorkItem, next types.ItemStatus) error {
	if item.Status == next {
		return nil
	}
	if !item.Status.CanTransitionTo(next) {
		return goerr.Wrap(ErrInvalidTransition, "illegal work item status transition",
			goerr.V("itemID", item.ID),
			goerr.V("from", item.Status),
			goerr.V("to", next),
		)
	}
	item.Status = next
	return nil
}

// setIterationStatus routes iteration status writes through the
// lifecycle transition table
func setIterationStatus(iteration *model.Iteration, next types.IterationStatus) error {
	if !iteration.Status.CanTransitionTo(next) {
		return goerr.Wrap(ErrInvalidTransition, "illegal iteration status transition",
			goerr.V("iterationID", iteration.ID),
			goerr.V("from", iteration.Status),
			goerr.V("to", next),
		)
	}
	iteration.Status = next
	return nil
}
