package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetAgentStatsQueryHandler reads one agent row and derives the dashboard
// numbers.
type GetAgentStatsQueryHandler struct {
	db *gorm.DB
}

// NewGetAgentStatsQueryHandler creates a handler for agent stats queries.
func NewGetAgentStatsQueryHandler(db *gorm.DB) GetAgentStatsQueryHandler {
	return GetAgentStatsQueryHandler{db: db}
}

// Handle executes the query.
func (h GetAgentStatsQueryHandler) Handle(ctx context.Context, query GetAgentStatsQuery) (GetAgentStatsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetAgentStatsQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			available,
			earnings_lifetime,
			earnings_day,
			earnings_week,
			earnings_month,
			total_deliveries,
			completed_deliveries,
			cancelled_deliveries,
			rating_sum,
			rating_count
		FROM agents
		WHERE id = ?
	`, query.AgentID().Bytes()).Row()

	var (
		id        uuid.UUID
		resp      GetAgentStatsQueryResponse
		ratingSum float64
	)

	err := row.Scan(
		&id,
		&resp.Available,
		&resp.EarningsLifetime,
		&resp.EarningsDay,
		&resp.EarningsWeek,
		&resp.EarningsMonth,
		&resp.TotalDeliveries,
		&resp.CompletedDeliveries,
		&resp.CancelledDeliveries,
		&ratingSum,
		&resp.RatingCount,
	)
	if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
		return GetAgentStatsQueryResponse{}, errs.NewObjectNotFoundErrorWithCause("agentID", query.AgentID(), err)
	}
	if err != nil {
		return GetAgentStatsQueryResponse{}, err
	}

	if resp.AgentID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetAgentStatsQueryResponse{}, err
	}
	if resp.RatingCount > 0 {
		resp.AverageRating = ratingSum / float64(resp.RatingCount)
	}

	return resp, nil
}
