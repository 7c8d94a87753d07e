package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	earningsRolloverJob *EarningsRolloverJob
	staleAgentJob       *StaleAgentJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	rolloverHandler commands.RolloverEarningsCommandHandler,
	sweepHandler commands.SweepStaleAgentsCommandHandler,
	staleThreshold time.Duration,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		earningsRolloverJob: NewEarningsRolloverJob(rolloverHandler, logger),
		staleAgentJob:       NewStaleAgentJob(sweepHandler, staleThreshold, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.earningsRolloverJob.Start(); err != nil {
		return fmt.Errorf("failed to start earnings rollover job: %w", err)
	}

	if err := jm.staleAgentJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.earningsRolloverJob.Stop()
		return fmt.Errorf("failed to start stale agent job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.earningsRolloverJob.Stop()
	jm.staleAgentJob.Stop()
}
