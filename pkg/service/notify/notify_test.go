package notify_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/stride-hq/stride/pkg/domain/model"
	"github.com/stride-hq/stride/pkg/service/notify"
)

func TestNewSlackNotifier(t *testing.T) {
	t.Run("webhook URL is required", func(t *testing.T) {
		_, err := notify.NewSlackNotifier("")
		gt.Error(t, err)
	})

	t.Run("valid URL", func(t *testing.T) {
		n, err := notify.NewSlackNotifier("https://hooks.slack.com/services/T000/B000/XXX")
		gt.NoError(t, err)
		gt.Value(t, n).NotNil()
	})
}

func TestLogNotifier(t *testing.T) {
	n := notify.NewLogNotifier()
	ev := model.NewEvent(model.ActionIterationStarted)
	ev.ProjectID = 1
	ev.IterationID = 10
	ev.CommittedPoints = 8

	gt.NoError(t, n.Emit(context.Background(), ev))
}
