package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
)

// LedgerBucket names a resettable earnings window on the agent ledger.
type LedgerBucket string

const (
	LedgerBucketDay   LedgerBucket = "day"
	LedgerBucketWeek  LedgerBucket = "week"
	LedgerBucketMonth LedgerBucket = "month"
)

// AgentRepository defines the persistence contract for agent aggregates.
type AgentRepository interface {
	// Add persists a new agent aggregate to storage.
	Add(ctx context.Context, aggregate *agent.Agent) error

	// Update persists changes to an existing agent aggregate.
	Update(ctx context.Context, aggregate *agent.Agent) error

	// Get retrieves an agent aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// GetForUpdate retrieves an agent aggregate and takes a row lock on it,
	// holding the lock until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error)

	// ResetLedgerBucket zeroes the given earnings window for every agent.
	// Used by the scheduled rollover job at period boundaries.
	ResetLedgerBucket(ctx context.Context, bucket LedgerBucket) error

	// MarkUnavailableSince flips every agent whose last activity is older
	// than the cutoff to unavailable. Returns the number of agents affected.
	MarkUnavailableSince(ctx context.Context, cutoff time.Time) (int64, error)
}
