package agentrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAgentRepository implements ports.AgentRepository using GORM.
type GormAgentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormAgentRepository creates a new GORM agent repository.
func NewGormAgentRepository(db *gorm.DB, tracker aggregateTracker) *GormAgentRepository {
	return &GormAgentRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new agent to the database.
func (r *GormAgentRepository) Add(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing agent to the database. Select("*") forces every
// column to be written so counters and flags dropping to zero persist.
func (r *GormAgentRepository) Update(ctx context.Context, aggregate *agent.Agent) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&AgentDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an agent by ID.
func (r *GormAgentRepository) Get(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate retrieves an agent by ID and takes a FOR UPDATE row lock.
// Handlers lock the claimant before touching the order, which serializes
// concurrent operations on the same agent.
func (r *GormAgentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*agent.Agent, error) {
	return r.get(ctx, id, true)
}

func (r *GormAgentRepository) get(ctx context.Context, id kernel.UUID, forUpdate bool) (*agent.Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	tx := r.db.WithContext(ctx)
	if forUpdate {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var dto AgentDTO
	if err := tx.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("agent", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ledgerColumns maps a bucket to its column. The map doubles as a whitelist,
// the bucket name never reaches the SQL text directly.
func ledgerColumns() map[ports.LedgerBucket]string {
	return map[ports.LedgerBucket]string{
		ports.LedgerBucketDay:   "earnings_day",
		ports.LedgerBucketWeek:  "earnings_week",
		ports.LedgerBucketMonth: "earnings_month",
	}
}

// ResetLedgerBucket zeroes the given earnings window for every agent.
func (r *GormAgentRepository) ResetLedgerBucket(ctx context.Context, bucket ports.LedgerBucket) error {
	column, ok := ledgerColumns()[bucket]
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause("bucket",
			fmt.Errorf("%q is not a ledger bucket", string(bucket)))
	}

	return r.db.WithContext(ctx).
		Model(&AgentDTO{}).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Update(column, 0).Error
}

// MarkUnavailableSince flips every agent whose last activity is older than the
// cutoff to unavailable. Returns the number of agents affected.
func (r *GormAgentRepository) MarkUnavailableSince(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&AgentDTO{}).
		Where("available = ? AND last_active_at < ?", true, cutoff).
		Update("available", false)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
