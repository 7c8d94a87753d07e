// Package agentrepo provides data transfer objects and mapping functions for
// agent persistence.
package agentrepo

import (
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentDTO represents the database structure for persisting agent aggregates.
// The ledger windows are flattened into one column each so the rollover job
// can reset a window with a single bulk update.
type AgentDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Available bool      `gorm:"not null;index"`

	Lng *float64 `gorm:"type:double precision"`
	Lat *float64 `gorm:"type:double precision"`

	LastActiveAt time.Time `gorm:"not null;index"`

	EarningsLifetime float64 `gorm:"type:numeric;not null"`
	EarningsDay      float64 `gorm:"type:numeric;not null"`
	EarningsWeek     float64 `gorm:"type:numeric;not null"`
	EarningsMonth    float64 `gorm:"type:numeric;not null"`

	TotalDeliveries     int     `gorm:"not null"`
	CompletedDeliveries int     `gorm:"not null"`
	CancelledDeliveries int     `gorm:"not null"`
	RatingSum           float64 `gorm:"type:numeric;not null"`
	RatingCount         int     `gorm:"not null"`
}

// TableName overrides GORM's default naming to use "agents".
func (AgentDTO) TableName() string {
	return "agents"
}

// fromDomain converts an agent domain aggregate to its database representation.
func fromDomain(aggregate *agent.Agent) AgentDTO {
	var lng, lat *float64
	if loc := aggregate.Location(); loc != nil {
		lngVal, latVal := loc.Longitude(), loc.Latitude()
		lng, lat = &lngVal, &latVal
	}

	ledger := aggregate.Ledger()
	stats := aggregate.Stats()

	return AgentDTO{
		ID:                  aggregate.ID().Bytes(),
		Available:           aggregate.IsAvailable(),
		Lng:                 lng,
		Lat:                 lat,
		LastActiveAt:        aggregate.LastActiveAt(),
		EarningsLifetime:    ledger.Lifetime,
		EarningsDay:         ledger.Day,
		EarningsWeek:        ledger.Week,
		EarningsMonth:       ledger.Month,
		TotalDeliveries:     stats.TotalDeliveries,
		CompletedDeliveries: stats.CompletedDeliveries,
		CancelledDeliveries: stats.CancelledDeliveries,
		RatingSum:           stats.RatingSum,
		RatingCount:         stats.RatingCount,
	}
}

// toDomain converts a database row to an agent domain aggregate.
func toDomain(dto AgentDTO) (*agent.Agent, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.Lng != nil && dto.Lat != nil {
		loc, locErr := kernel.NewLocation(*dto.Lng, *dto.Lat)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return agent.RestoreAgent(agent.RestoreAgentParams{
		ID:           id,
		Available:    dto.Available,
		Location:     location,
		LastActiveAt: dto.LastActiveAt,
		Ledger: agent.EarningsLedger{
			Lifetime: dto.EarningsLifetime,
			Day:      dto.EarningsDay,
			Week:     dto.EarningsWeek,
			Month:    dto.EarningsMonth,
		},
		Stats: agent.Stats{
			TotalDeliveries:     dto.TotalDeliveries,
			CompletedDeliveries: dto.CompletedDeliveries,
			CancelledDeliveries: dto.CancelledDeliveries,
			RatingSum:           dto.RatingSum,
			RatingCount:         dto.RatingCount,
		},
	})
}
