package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/utils/logging"
)

// ApprovalReminderWorker periodically re-notifies approvers about
// admission requests that have been pending longer than maxAge. It is
// best-effort and never mutates workflow state.
//
// Architecture assumptions:
// - Single server instance (no distributed locking); duplicated
//   reminders are harmless.
type ApprovalReminderWorker struct {
	repo     interfaces.Repository
	sink     interfaces.EventSink
	interval time.Duration
	maxAge   time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewApprovalReminderWorker creates a new reminder worker
func NewApprovalReminderWorker(repo interfaces.Repository, sink interfaces.EventSink, interval, maxAge time.Duration) *ApprovalReminderWorker {
	return &ApprovalReminderWorker{
		repo:     repo,
		sink:     sink,
		interval: interval,
		maxAge:   maxAge,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background reminder loop. Does not block server
// startup.
func (w *ApprovalReminderWorker) Start(ctx context.Context) error {
	logging.Default().Info("approval reminder worker starting",
		"interval", w.interval.String(),
		"max_age", w.maxAge.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ApprovalReminderWorker) Stop() {
	logging.Default().Info("approval reminder worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("approval reminder worker stopped")
}

func (w *ApprovalReminderWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.remind(ctx); err != nil {
				logging.Default().Error("approval reminder cycle failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("approval reminder worker context cancelled")
			return
		}
	}
}

// remind performs a single reminder cycle
func (w *ApprovalReminderWorker) remind(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-w.maxAge)

	stale, err := w.repo.Approval().ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return goerr.Wrap(err, "failed to list stale approvals")
	}
	if len(stale) == 0 {
		return nil
	}

	for _, rec := range stale {
		ev := model.NewEvent(model.ActionAdmissionReminder)
		ev.ItemID = rec.ItemID
		ev.IterationID = rec.IterationID
		ev.RecipientID = rec.ApproverID

		if err := w.sink.Emit(ctx, ev); err != nil {
			logging.Default().Error("failed to emit reminder",
				"error", err.Error(),
				"item_id", rec.ItemID,
				"approver_id", rec.ApproverID)
		}
	}

	logging.Default().Info("approval reminders sent", "count", len(stale))
	return nil
}
