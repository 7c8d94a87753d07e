package jobs

import (
	"context"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// StaleAgentJob sweeps agents whose last activity is older than the threshold
// off duty, once per minute. An agent whose app died mid-shift stops receiving
// claims instead of ghosting customers.
type StaleAgentJob struct {
	handler   commands.SweepStaleAgentsCommandHandler
	threshold time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleAgentJob creates the sweep job with the inactivity threshold.
func NewStaleAgentJob(
	handler commands.SweepStaleAgentsCommandHandler,
	threshold time.Duration,
	logger *slog.Logger,
) *StaleAgentJob {
	return &StaleAgentJob{
		handler:   handler,
		threshold: threshold,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stale_agent_job"),
	}
}

// Start begins the sweep, running at the top of every minute.
func (j *StaleAgentJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewSweepStaleAgentsCommand(j.threshold)
		if err != nil {
			j.logger.ErrorContext(ctx, "Stale agent sweep command rejected", "error", err)
			return
		}

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Stale agent sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale agent job started (running every minute)",
		"threshold", j.threshold)
	return nil
}

// Stop stops the sweep job.
func (j *StaleAgentJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale agent job stopped")
}
