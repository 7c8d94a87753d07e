package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetAgentStatsQueryIsNotConstructed = errors.New(
	"GetAgentStatsQuery must be created via NewGetAgentStatsQuery constructor",
)

// GetAgentStatsQuery fetches an agent's earnings windows, delivery counters
// and average rating.
type GetAgentStatsQuery struct {
	agentID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetAgentStatsQuery creates a stats query for the given agent.
func NewGetAgentStatsQuery(agentID kernel.UUID) (GetAgentStatsQuery, error) {
	if err := agentID.Validate(); err != nil {
		return GetAgentStatsQuery{}, err
	}

	return GetAgentStatsQuery{
		agentID: agentID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetAgentStatsQuery) Validate() error {
	return q.guard.Validate(ErrGetAgentStatsQueryIsNotConstructed)
}

// AgentID returns the agent whose stats are requested.
func (q GetAgentStatsQuery) AgentID() kernel.UUID { return q.agentID }

// GetAgentStatsQueryResponse is the agent dashboard payload.
type GetAgentStatsQueryResponse struct {
	AgentID             kernel.UUID
	Available           bool
	EarningsLifetime    float64
	EarningsDay         float64
	EarningsWeek        float64
	EarningsMonth       float64
	TotalDeliveries     int
	CompletedDeliveries int
	CancelledDeliveries int
	AverageRating       float64
	RatingCount         int
}
