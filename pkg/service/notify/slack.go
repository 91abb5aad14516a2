package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/domain/model"
)

// SlackNotifier delivers lifecycle events to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
}

var _ interfaces.EventSink = &SlackNotifier{}

// NewSlackNotifier creates a Slack webhook event sink
func NewSlackNotifier(webhookURL string) (*SlackNotifier, error) {
	if webhookURL == "" {
		return nil, goerr.New("Slack webhook URL is required")
	}
	return &SlackNotifier{webhookURL: webhookURL}, nil
}

func (n *SlackNotifier) Emit(ctx context.Context, ev *model.Event) error {
	msg := &slack.WebhookMessage{
		Text:        fmt.Sprintf("*%s*", ev.Action),
		Attachments: []slack.Attachment{buildAttachment(ev)},
	}

	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack webhook",
			goerr.V("event_id", ev.ID),
			goerr.V("action", ev.Action),
		)
	}

	return nil
}

func buildAttachment(ev *model.Event) slack.Attachment {
	fields := []slack.AttachmentField{
		{Title: "Project", Value: fmt.Sprintf("%d", ev.ProjectID), Short: true},
	}
	if ev.ItemID != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Item", Value: fmt.Sprintf("%d", ev.ItemID), Short: true,
		})
	}
	if ev.IterationID != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Iteration", Value: fmt.Sprintf("%d", ev.IterationID), Short: true,
		})
	}
	if ev.ActorID != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Actor", Value: fmt.Sprintf("%d", ev.ActorID), Short: true,
		})
	}
	if ev.RecipientID != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Approver", Value: fmt.Sprintf("%d", ev.RecipientID), Short: true,
		})
	}
	if ev.CommittedPoints != 0 || ev.CompletedPoints != 0 {
		fields = append(fields, slack.AttachmentField{
			Title: "Points",
			Value: fmt.Sprintf("committed %d / completed %d (%d items)", ev.CommittedPoints, ev.CompletedPoints, ev.CompletedCount),
		})
	}
	if ev.Reason != "" {
		fields = append(fields, slack.AttachmentField{
			Title: "Reason", Value: ev.Reason,
		})
	}

	return slack.Attachment{
		Fields: fields,
		Footer: ev.ID,
		Ts:     json.Number(strconv.FormatInt(ev.OccurredAt.Unix(), 10)),
	}
}
