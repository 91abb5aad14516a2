package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/stride-hq/stride/pkg/domain/interfaces"
	"github.com/stride-hq/stride/pkg/service/notify"
	"github.com/stride-hq/stride/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Notifier holds CLI flags for the event notification sink
type Notifier struct {
	webhookURL string
}

// Flags returns CLI flags for notifier configuration
func (n *Notifier) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack Incoming Webhook URL for workflow notifications",
			Category:    "Notification",
			Sources:     cli.EnvVars("STRIDE_SLACK_WEBHOOK_URL"),
			Destination: &n.webhookURL,
		},
	}
}

func (n Notifier) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webhook-url.len", len(n.webhookURL)),
	)
}

// Configure returns the event sink. Slack when a webhook URL is set,
// otherwise the structured log.
func (n *Notifier) Configure() (interfaces.EventSink, error) {
	if n.webhookURL == "" {
		logging.Default().Info("Slack webhook not configured, events go to the log")
		return notify.NewLogNotifier(), nil
	}

	sink, err := notify.NewSlackNotifier(n.webhookURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize slack notifier")
	}
	logging.Default().Info("Slack notification enabled")
	return sink, nil
}
