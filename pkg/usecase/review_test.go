package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/stride-hq/stride/pkg/repository/memory"
	"github.com/stride-hq/stride/pkg/usecase"
)

// finishItem drives an item through admission, sprint start and the
// done column so review tests start from a finished item
func finishItem(t *testing.T, uc *usecase.UseCases, repo *memory.Client, projectID int64) int64 {
	t.Helper()
	ctx := context.Background()
	iteration := createPlannedIteration(t, repo, projectID, "goal")
	item := createBacklogItem(t, repo, projectID, 5)
	admit(t, uc, item.ID, iteration.ID)
	_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
	gt.NoError(t, err).Required()
	_, err = uc.Board.MoveColumn(ctx, iteration.ID, item.ID, types.BoardColumnDone, 1)
	gt.NoError(t, err).Required()
	return item.ID
}

func TestAcceptItem(t *testing.T) {
	t.Run("accept records the reviewer", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		itemID := finishItem(t, uc, repo, 1)

		accepted, err := uc.Review.Accept(ctx, itemID, 42)
		gt.NoError(t, err).Required()
		gt.Value(t, accepted.Status).Equal(types.ItemStatusAccepted)
		gt.Value(t, *accepted.ReviewedBy).Equal(int64(42))
		gt.Value(t, accepted.ReviewedAt).NotNil()
	})

	t.Run("accept clears a prior rejection reason", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		itemID := finishItem(t, uc, repo, 1)

		rejected, err := uc.Review.Reject(ctx, itemID, 42, "needs tests")
		gt.NoError(t, err).Required()
		gt.Value(t, rejected.RejectionReason).Equal("needs tests")

		// a new review cycle re-enters through DONE
		forced := gt.R1(repo.WorkItem().Get(ctx, itemID)).NoError(t)
		forced.Status = types.ItemStatusPendingAcceptance
		gt.R1(repo.WorkItem().Update(ctx, forced)).NoError(t)

		accepted, err := uc.Review.Accept(ctx, itemID, 43)
		gt.NoError(t, err).Required()
		gt.Value(t, accepted.Status).Equal(types.ItemStatusAccepted)
		gt.Value(t, accepted.RejectionReason).Equal("")
	})

	t.Run("only finished items are reviewable", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		item := createBacklogItem(t, repo, 1, 5)

		_, err := uc.Review.Accept(ctx, item.ID, 42)
		gt.B(t, errors.Is(err, usecase.ErrInvalidTransition)).True()
	})
}

func TestRejectItem(t *testing.T) {
	t.Run("reason is required", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		itemID := finishItem(t, uc, repo, 1)

		_, err := uc.Review.Reject(ctx, itemID, 42, " ")
		gt.B(t, errors.Is(err, usecase.ErrValidation)).True()
	})

	t.Run("reject records reviewer and reason", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		itemID := finishItem(t, uc, repo, 1)

		rejected, err := uc.Review.Reject(ctx, itemID, 42, "acceptance criteria not met")
		gt.NoError(t, err).Required()
		gt.Value(t, rejected.Status).Equal(types.ItemStatusRejected)
		gt.Value(t, rejected.RejectionReason).Equal("acceptance criteria not met")
		gt.Value(t, *rejected.ReviewedBy).Equal(int64(42))
	})
}
