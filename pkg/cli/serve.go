package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/stride-hq/stride/pkg/cli/config"
	httpctrl "github.com/stride-hq/stride/pkg/controller/http"
	"github.com/stride-hq/stride/pkg/service/worker"
	"github.com/stride-hq/stride/pkg/usecase"
	"github.com/stride-hq/stride/pkg/utils/logging"
)

func cmdServe() *cli.Command {
	var addr string
	var reminderInterval time.Duration
	var reminderMaxAge time.Duration
	var repoCfg config.Repository
	var notifierCfg config.Notifier
	var workflowCfg config.Workflow

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("STRIDE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "reminder-interval",
			Usage:       "How often to scan for stale admission requests",
			Value:       time.Hour,
			Sources:     cli.EnvVars("STRIDE_REMINDER_INTERVAL"),
			Destination: &reminderInterval,
		},
		&cli.DurationFlag{
			Name:        "reminder-max-age",
			Usage:       "Pending age after which an approver is re-notified",
			Value:       24 * time.Hour,
			Sources:     cli.EnvVars("STRIDE_REMINDER_MAX_AGE"),
			Destination: &reminderMaxAge,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, notifierCfg.Flags()...)
	flags = append(flags, workflowCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Load workflow configuration
			workflow, err := workflowCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load workflow configuration")
			}

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Configure event sink
			sink, err := notifierCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure notifier")
			}

			uc := usecase.New(repo,
				usecase.WithEventSink(sink),
				usecase.WithWorkflowConfig(workflow),
			)

			// Start reminder worker for stale admission requests
			reminder := worker.NewApprovalReminderWorker(repo, sink, reminderInterval, reminderMaxAge)
			if err := reminder.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start approval reminder worker")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Shutdown on SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			eg, egCtx := errgroup.WithContext(ctx)

			eg.Go(func() error {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					return goerr.Wrap(err, "failed to start server")
				}
				return nil
			})

			eg.Go(func() error {
				<-egCtx.Done()

				reminder.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}
				return nil
			})

			if err := eg.Wait(); err != nil {
				return err
			}

			logging.Default().Info("Server shutdown completed")
			return nil
		},
	}
}
