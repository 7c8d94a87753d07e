// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for the dispatch service.
//
// # Available Jobs
//
// 1. EarningsRolloverJob - Resets the day/week/month earnings windows at
// their period boundaries (midnight, Monday, 1st of the month)
// 2. StaleAgentJob - Runs every minute to mark agents with no recent
// activity as unavailable
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(rolloverHandler, sweepHandler, staleThreshold, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Both jobs log failures and keep their schedule; a failed run is retried
// at the next tick
// - Failed job starts will stop any already running jobs
package jobs
