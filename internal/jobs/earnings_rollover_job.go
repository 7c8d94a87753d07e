package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// EarningsRolloverJob resets the agents' day, week and month earnings windows
// at their period boundaries. Schedules fire in the server's local time zone;
// deployments pin TZ=UTC so the boundaries line up across instances.
type EarningsRolloverJob struct {
	handler commands.RolloverEarningsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewEarningsRolloverJob creates the rollover job.
func NewEarningsRolloverJob(handler commands.RolloverEarningsCommandHandler, logger *slog.Logger) *EarningsRolloverJob {
	return &EarningsRolloverJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "earnings_rollover_job"),
	}
}

// Start schedules the three window resets: daily at midnight, weekly on
// Monday, monthly on the 1st.
func (j *EarningsRolloverJob) Start() error {
	schedules := []struct {
		spec   string
		bucket ports.LedgerBucket
	}{
		{"0 0 0 * * *", ports.LedgerBucketDay},
		{"0 0 0 * * 1", ports.LedgerBucketWeek},
		{"0 0 0 1 * *", ports.LedgerBucketMonth},
	}

	for _, schedule := range schedules {
		bucket := schedule.bucket
		_, err := j.cron.AddFunc(schedule.spec, func() {
			j.rollover(bucket)
		})
		if err != nil {
			return err
		}
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Earnings rollover job started")
	return nil
}

// Stop stops the rollover job.
func (j *EarningsRolloverJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Earnings rollover job stopped")
}

func (j *EarningsRolloverJob) rollover(bucket ports.LedgerBucket) {
	ctx := context.Background()

	cmd, err := commands.NewRolloverEarningsCommand(bucket)
	if err != nil {
		j.logger.ErrorContext(ctx, "Earnings rollover command rejected", "bucket", bucket, "error", err)
		return
	}

	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Earnings rollover failed", "bucket", bucket, "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Earnings window reset", "bucket", bucket)
}
