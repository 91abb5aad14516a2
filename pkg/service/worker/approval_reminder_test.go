package worker_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/domain/types"
	"github.com/stride-hq/stride/pkg/repository/memory"
	"github.com/stride-hq/stride/pkg/service/worker"
)

// captureSink records emitted events for assertions
type captureSink struct {
	mu     sync.Mutex
	events []*model.Event
}

func (s *captureSink) Emit(ctx context.Context, ev *model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSink) snapshot() []*model.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Event, len(s.events))
	copy(out, s.events)
	return out
}

func TestApprovalReminderWorker(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()
	sink := &captureSink{}

	stale := time.Now().UTC().Add(-48 * time.Hour)
	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 1, IterationID: 10, ApproverID: 200, Status: types.ApprovalStatusPending, RequestedAt: stale},
	}))
	gt.NoError(t, repo.Approval().CreateBatch(ctx, []*model.ApprovalRecord{
		{ItemID: 2, IterationID: 10, ApproverID: 300, Status: types.ApprovalStatusPending},
	}))

	w := worker.NewApprovalReminderWorker(repo, sink, 10*time.Millisecond, 24*time.Hour)
	gt.NoError(t, w.Start(ctx))

	deadline := time.After(2 * time.Second)
	for len(sink.snapshot()) == 0 {
		select {
		case <-deadline:
			t.Fatal("no reminder emitted before deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
	w.Stop()

	events := sink.snapshot()
	gt.Number(t, len(events)).GreaterOrEqual(1)
	ev := events[0]
	gt.Value(t, ev.Action).Equal(model.ActionAdmissionReminder)
	gt.Value(t, ev.ItemID).Equal(int64(1))
	gt.Value(t, ev.RecipientID).Equal(int64(200))

	// the fresh record never triggers a reminder
	for _, ev := range events {
		gt.Number(t, ev.ItemID).NotEqual(int64(2))
	}
}
