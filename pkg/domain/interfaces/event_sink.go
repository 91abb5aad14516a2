package interfaces

import (
	"context"

	"github.com/stride-hq/stride/pkg/domain/model"
)

// EventSink is the outbound port for lifecycle notifications. Emission
// is best-effort: callers dispatch asynchronously and only log
// failures, they never roll back on a delivery error.
type EventSink interface {
	Emit(ctx context.Context, ev *model.Event) error
}
