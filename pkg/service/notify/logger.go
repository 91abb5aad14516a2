package notify

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/utils/logging"
)

// LogNotifier writes lifecycle events to the structured log. It is the
// default sink when no webhook is configured.
type LogNotifier struct{}

var _ interfaces.EventSink = &LogNotifier{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Emit(ctx context.Context, ev *model.Event) error {
	logging.From(ctx).Info("lifecycle event",
		"event_id", ev.ID,
		"action", ev.Action,
		"project_id", ev.ProjectID,
		"item_id", ev.ItemID,
		"iteration_id", ev.IterationID,
		"actor_id", ev.ActorID,
		"recipient_id", ev.RecipientID,
		"committed_points", ev.CommittedPoints,
		"completed_points", ev.CompletedPoints,
		"reason", ev.Reason,
		"occurred_at", ev.OccurredAt,
	)
	return nil
}
