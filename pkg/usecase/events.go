package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/utils/async"
)

// eventEmitter delivers lifecycle events through the configured sink.
// Delivery is fire-and-forget: a nil sink drops events, a failing sink
// is logged by the async dispatcher and never surfaces to the caller.
type eventEmitter struct {
	sink interfaces.EventSink
}

func newEventEmitter(sink interfaces.EventSink) *eventEmitter {
	return &eventEmitter{sink: sink}
}

func (e *eventEmitter) emit(ctx context.Context, ev *model.Event) {
	if e.sink == nil {
		return
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := e.sink.Emit(ctx, ev); err != nil {
			return goerr.Wrap(err, "failed to emit event",
				goerr.V("event_id", ev.ID),
				goerr.V("action", ev.Action),
			)
		}
		return nil
	})
}
