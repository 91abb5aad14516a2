package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/stride-hq/stride/pkg/repository/memory"
)

func TestWorkItemCRUD(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created := gt.R1(repo.WorkItem().Create(ctx, &model.WorkItem{
		ProjectID: 1,
		Title:     "Implement login",
		Type:      types.ItemTypeStory,
		Status:    types.ItemStatusBacklog,
		CreatedBy: 10,
	})).NoError(t)
	gt.Number(t, created.ID).Greater(0)
	gt.Value(t, created.Status).Equal(types.ItemStatusBacklog)

	got := gt.R1(repo.WorkItem().Get(ctx, created.ID)).NoError(t)
	gt.Value(t, got.Title).Equal("Implement login")

	got.Title = "Implement login flow"
	updated := gt.R1(repo.WorkItem().Update(ctx, got)).NoError(t)
	gt.Value(t, updated.Title).Equal("Implement login flow")
	gt.Value(t, updated.CreatedAt).Equal(created.CreatedAt)

	gt.NoError(t, repo.WorkItem().Delete(ctx, created.ID))
	_, err := repo.WorkItem().Get(ctx, created.ID)
	gt.B(t, errors.Is(err, memory.ErrNotFound)).True()
}

func TestWorkItemMaxPosition(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	max := gt.R1(repo.WorkItem().MaxPosition(ctx, 1)).NoError(t)
	gt.Value(t, max).Equal(-1)

	for i := 0; i < 3; i++ {
		gt.R1(repo.WorkItem().Create(ctx, &model.WorkItem{
			ProjectID: 1,
			Title:     "item",
			Type:      types.ItemTypeStory,
			Status:    types.ItemStatusBacklog,
			Position:  i,
		})).NoError(t)
	}

	max = gt.R1(repo.WorkItem().MaxPosition(ctx, 1)).NoError(t)
	gt.Value(t, max).Equal(2)

	max = gt.R1(repo.WorkItem().MaxPosition(ctx, 2)).NoError(t)
	gt.Value(t, max).Equal(-1)
}

func TestMembershipUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.R1(repo.Membership().Create(ctx, &model.Membership{
		ItemID:          1,
		IterationID:     100,
		CommittedPoints: 5,
	})).NoError(t)

	// same pair again
	_, err := repo.Membership().Create(ctx, &model.Membership{
		ItemID:      1,
		IterationID: 100,
	})
	gt.B(t, errors.Is(err, memory.ErrAlreadyExists)).True()

	// same item, different iteration
	_, err = repo.Membership().Create(ctx, &model.Membership{
		ItemID:      1,
		IterationID: 200,
	})
	gt.B(t, errors.Is(err, memory.ErrAlreadyExists)).True()

	found := gt.R1(repo.Membership().FindByItem(ctx, 1)).NoError(t)
	gt.Value(t, found.IterationID).Equal(int64(100))

	none := gt.R1(repo.Membership().FindByItem(ctx, 2)).NoError(t)
	gt.Value(t, none).Nil()
}

func TestApprovalResolveIsFinal(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending},
		{ItemID: 1, IterationID: 100, ApproverID: 30, Status: types.ApprovalStatusPending},
	}))

	resolved := gt.R1(repo.Approval().Resolve(ctx, 1, 100, 20, types.ApprovalStatusApproved, "")).NoError(t)
	gt.Value(t, resolved.Status).Equal(types.ApprovalStatusApproved)
	gt.Value(t, resolved.RespondedAt).NotNil()

	// flipping a resolved record must fail
	_, err := repo.Approval().Resolve(ctx, 1, 100, 20, types.ApprovalStatusRejected, "too big")
	gt.B(t, errors.Is(err, memory.ErrConflict)).True()

	// unknown approver
	_, err = repo.Approval().Resolve(ctx, 1, 100, 99, types.ApprovalStatusApproved, "")
	gt.B(t, errors.Is(err, memory.ErrNotFound)).True()

	pending := gt.R1(repo.Approval().ListPendingByApprover(ctx, 30)).NoError(t)
	gt.Array(t, pending).Length(1)
}

func TestApprovalCreateBatchRejectsDuplicateRequest(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending},
	}))

	err := repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 100, ApproverID: 30, Status: types.ApprovalStatusPending},
	})
	gt.B(t, errors.Is(err, memory.ErrAlreadyExists)).True()

	records := gt.R1(repo.Approval().ListByPair(ctx, 1, 100)).NoError(t)
	gt.Array(t, records).Length(1)
}

func TestApprovalListPendingOlderThan(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	old := time.Now().UTC().Add(-48 * time.Hour)
	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending, RequestedAt: old},
	}))
	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 2, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending},
	}))

	stale := gt.R1(repo.Approval().ListPendingOlderThan(ctx, time.Now().UTC().Add(-24*time.Hour))).NoError(t)
	gt.Array(t, stale).Length(1)
	gt.Value(t, stale[0].ItemID).Equal(int64(1))
}

func TestApprovalDeleteCascades(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending},
		{ItemID: 1, IterationID: 100, ApproverID: 30, Status: types.ApprovalStatusPending},
	}))
	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 2, IterationID: 100, ApproverID: 20, Status: types.ApprovalStatusPending},
	}))

	gt.NoError(t, repo.Approval().DeleteByPair(ctx, 1, 100))
	gt.Array(t, gt.R1(repo.Approval().ListByPair(ctx, 1, 100)).NoError(t)).Length(0)
	gt.Array(t, gt.R1(repo.Approval().ListByIteration(ctx, 100)).NoError(t)).Length(1)

	gt.NoError(t, repo.Approval().DeleteByIteration(ctx, 100))
	gt.Array(t, gt.R1(repo.Approval().ListByIteration(ctx, 100)).NoError(t)).Length(0)
}

func TestIterationFindByProjectAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	none := gt.R1(repo.Iteration().FindByProjectAndStatus(ctx, 1, types.IterationStatusActive)).NoError(t)
	gt.Value(t, none).Nil()

	created := gt.R1(repo.Iteration().Create(ctx, &model.Iteration{
		ProjectID:   1,
		Name:        "Sprint 1",
		Status:      types.IterationStatusPlanned,
		LengthWeeks: 2,
	})).NoError(t)

	found := gt.R1(repo.Iteration().FindByProjectAndStatus(ctx, 1, types.IterationStatusPlanned)).NoError(t)
	gt.Value(t, found.ID).Equal(created.ID)
}
