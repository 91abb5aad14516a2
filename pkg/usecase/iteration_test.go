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

// admit scopes an item into a planned iteration through the elevated
// bypass so lifecycle tests start from a committed membership
func admit(t *testing.T, uc *usecase.UseCases, itemID, iterationID int64) {
	t.Helper()
	_, err := uc.Admission.RequestAdmission(context.Background(), itemID, iterationID, nil, 1, types.Roles{types.RoleProductOwner})
	gt.NoError(t, err).Required()
}

func TestCreateIteration(t *testing.T) {
	t.Run("created in planned status", func(t *testing.T) {
		uc, _ := newFixture(t)
		ctx := context.Background()

		created, err := uc.Iteration.CreateIteration(ctx, &usecase.CreateIterationInput{
			ProjectID:   1,
			Name:        "Sprint 1",
			Goal:        "Ship checkout",
			LengthWeeks: 2,
		}, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, created.Status).Equal(types.IterationStatusPlanned)
		gt.Number(t, created.ID).Greater(0)
	})

	t.Run("name is required", func(t *testing.T) {
		uc, _ := newFixture(t)
		ctx := context.Background()

		_, err := uc.Iteration.CreateIteration(ctx, &usecase.CreateIterationInput{
			ProjectID: 1,
			Name:      "  ",
		}, 1)
		gt.B(t, errors.Is(err, usecase.ErrValidation)).True()
	})
}

func TestStartIteration(t *testing.T) {
	t.Run("empty goal blocks start", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "")
		item := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, item.ID, iteration.ID)

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrValidation)).True()
	})

	t.Run("zero members blocks start", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrValidation)).True()
	})

	t.Run("an unready member blocks start and is named", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		item := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, item.ID, iteration.ID)

		// force the member out of the ready set behind the workflow's back
		forced := gt.R1(repo.WorkItem().Get(ctx, item.ID)).NoError(t)
		forced.Status = types.ItemStatusPendingApproval
		gt.R1(repo.WorkItem().Update(ctx, forced)).NoError(t)

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrValidation)).True()
		gt.String(t, err.Error()).Contains("member item is not ready")
	})

	t.Run("start activates and resets the board", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "Ship checkout")
		i1 := createBacklogItem(t, repo, 1, 5)
		i2 := createBacklogItem(t, repo, 1, 3)
		admit(t, uc, i1.ID, iteration.ID)
		admit(t, uc, i2.ID, iteration.ID)

		started, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, started.Status).Equal(types.IterationStatusActive)
		gt.Value(t, started.StartedAt).NotNil()

		for _, id := range []int64{i1.ID, i2.ID} {
			member := gt.R1(repo.WorkItem().Get(ctx, id)).NoError(t)
			gt.Value(t, member.Status).Equal(types.ItemStatusInSprint)
			gt.Value(t, member.BoardColumn).NotNil()
			gt.Value(t, *member.BoardColumn).Equal(types.BoardColumnToDo)
		}
	})

	t.Run("mixed ready and in-sprint members all start", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")

		// directly admitted member: already IN_SPRINT before start
		direct := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, direct.ID, iteration.ID)

		// quorum-approved member: SPRINT_READY before start
		approved := createBacklogItem(t, repo, 1, 3)
		_, err := uc.Admission.RequestAdmission(ctx, approved.ID, iteration.ID, []int64{200}, 100, types.Roles{types.RoleDeveloper})
		gt.NoError(t, err).Required()
		_, err = uc.Admission.RecordDecision(ctx, approved.ID, iteration.ID, 200, true, "")
		gt.NoError(t, err).Required()

		_, err = uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()

		for _, id := range []int64{direct.ID, approved.ID} {
			member := gt.R1(repo.WorkItem().Get(ctx, id)).NoError(t)
			gt.Value(t, member.Status).Equal(types.ItemStatusInSprint)
		}
	})

	t.Run("only planned iterations can start", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		item := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, item.ID, iteration.ID)

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()

		_, err = uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrInvalidTransition)).True()
	})
}

func TestEndIteration(t *testing.T) {
	t.Run("sprint reset law", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		finished := createBacklogItem(t, repo, 1, 5)
		unfinished := createBacklogItem(t, repo, 1, 3)
		admit(t, uc, finished.ID, iteration.ID)
		admit(t, uc, unfinished.ID, iteration.ID)

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()

		_, err = uc.Board.MoveColumn(ctx, iteration.ID, finished.ID, types.BoardColumnDone, 1)
		gt.NoError(t, err).Required()

		ended, err := uc.Iteration.End(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, ended.Status).Equal(types.IterationStatusCompleted)
		gt.Value(t, ended.EndedAt).NotNil()

		// finished member keeps its membership with actual points
		m := gt.R1(repo.Membership().Get(ctx, iteration.ID, finished.ID)).NoError(t)
		gt.Value(t, m.ActualPoints).NotNil()
		gt.Value(t, *m.ActualPoints).Equal(5)
		gt.Value(t, m.CompletedAt).NotNil()

		// unfinished member left the scope and returned to the backlog
		_, err = repo.Membership().Get(ctx, iteration.ID, unfinished.ID)
		gt.B(t, errors.Is(err, memory.ErrNotFound)).True()
		reverted := gt.R1(repo.WorkItem().Get(ctx, unfinished.ID)).NoError(t)
		gt.Value(t, reverted.Status).Equal(types.ItemStatusBacklog)
		gt.Value(t, reverted.BoardColumn).Nil()
	})

	t.Run("only active iterations can end", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")

		_, err := uc.Iteration.End(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrInvalidTransition)).True()
	})
}

func TestCancelIteration(t *testing.T) {
	t.Run("cascade over members and approvals", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		member := createBacklogItem(t, repo, 1, 5)
		pending := createBacklogItem(t, repo, 1, 3)
		admit(t, uc, member.ID, iteration.ID)
		_, err := uc.Admission.RequestAdmission(ctx, pending.ID, iteration.ID, []int64{200}, 100, types.Roles{types.RoleDeveloper})
		gt.NoError(t, err).Required()

		cancelled, err := uc.Iteration.Cancel(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()
		gt.Value(t, cancelled.Status).Equal(types.IterationStatusCancelled)

		memberships := gt.R1(repo.Membership().ListByIteration(ctx, iteration.ID)).NoError(t)
		gt.Array(t, memberships).Length(0)
		records := gt.R1(repo.Approval().ListByIteration(ctx, iteration.ID)).NoError(t)
		gt.Array(t, records).Length(0)

		for _, id := range []int64{member.ID, pending.ID} {
			item := gt.R1(repo.WorkItem().Get(ctx, id)).NoError(t)
			gt.Value(t, item.Status).Equal(types.ItemStatusBacklog)
		}
	})

	t.Run("terminal iterations cannot be cancelled", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")

		_, err := uc.Iteration.Cancel(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()

		_, err = uc.Iteration.Cancel(ctx, iteration.ID, 1)
		gt.B(t, errors.Is(err, usecase.ErrConflict)).True()
	})
}

func TestRemoveItem(t *testing.T) {
	t.Run("allowed while planned", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		item := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, item.ID, iteration.ID)

		gt.NoError(t, uc.Iteration.RemoveItem(ctx, iteration.ID, item.ID))

		_, err := repo.Membership().Get(ctx, iteration.ID, item.ID)
		gt.B(t, errors.Is(err, memory.ErrNotFound)).True()
		reverted := gt.R1(repo.WorkItem().Get(ctx, item.ID)).NoError(t)
		gt.Value(t, reverted.Status).Equal(types.ItemStatusBacklog)
	})

	t.Run("scope frozen once active", func(t *testing.T) {
		uc, repo := newFixture(t)
		ctx := context.Background()
		iteration := createPlannedIteration(t, repo, 1, "goal")
		item := createBacklogItem(t, repo, 1, 5)
		admit(t, uc, item.ID, iteration.ID)

		_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
		gt.NoError(t, err).Required()

		err = uc.Iteration.RemoveItem(ctx, iteration.ID, item.ID)
		gt.B(t, errors.Is(err, usecase.ErrInvalidTransition)).True()
	})
}

func TestActiveIteration(t *testing.T) {
	uc, repo := newFixture(t)
	ctx := context.Background()

	none := gt.R1(uc.Iteration.ActiveIteration(ctx, 1)).NoError(t)
	gt.Value(t, none).Nil()

	iteration := createPlannedIteration(t, repo, 1, "goal")
	item := createBacklogItem(t, repo, 1, 5)
	admit(t, uc, item.ID, iteration.ID)
	_, err := uc.Iteration.Start(ctx, iteration.ID, 1)
	gt.NoError(t, err).Required()

	active := gt.R1(uc.Iteration.ActiveIteration(ctx, 1)).NoError(t)
	gt.Value(t, active.ID).Equal(iteration.ID)
}
