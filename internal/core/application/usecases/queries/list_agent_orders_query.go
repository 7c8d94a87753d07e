package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListAgentOrdersQueryIsNotConstructed = errors.New(
	"ListAgentOrdersQuery must be created via NewListAgentOrdersQuery constructor",
)

// MaxAgentOrdersLimit caps one page of an agent's order history.
const MaxAgentOrdersLimit = 100

// ListAgentOrdersQuery lists orders assigned to an agent, newest first, with
// an optional status filter.
type ListAgentOrdersQuery struct {
	agentID kernel.UUID
	status  order.Status
	limit   int

	guard guard.ConstructorGuard
}

// NewListAgentOrdersQuery creates a history query. status may be
// order.StatusUnknown to list every status; zero limit selects the default.
func NewListAgentOrdersQuery(agentID kernel.UUID, status order.Status, limit int) (ListAgentOrdersQuery, error) {
	if err := agentID.Validate(); err != nil {
		return ListAgentOrdersQuery{}, err
	}
	if status != order.StatusUnknown {
		if err := status.Validate(); err != nil {
			return ListAgentOrdersQuery{}, err
		}
	}

	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxAgentOrdersLimit {
		return ListAgentOrdersQuery{}, errs.NewValueIsOutOfRangeError(
			"limit", limit, 1, MaxAgentOrdersLimit)
	}

	return ListAgentOrdersQuery{
		agentID: agentID,
		status:  status,
		limit:   limit,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListAgentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListAgentOrdersQueryIsNotConstructed)
}

// AgentID returns the agent whose orders are listed.
func (q ListAgentOrdersQuery) AgentID() kernel.UUID { return q.agentID }

// Status returns the filter, or order.StatusUnknown for all statuses.
func (q ListAgentOrdersQuery) Status() order.Status { return q.status }

// Limit returns the page size.
func (q ListAgentOrdersQuery) Limit() int { return q.limit }

// ListAgentOrdersQueryResponse is one order summary in the agent's history.
type ListAgentOrdersQueryResponse struct {
	ID              kernel.UUID
	Status          order.Status
	DeliveryStatus  order.DeliveryStatus
	PickupLocation  kernel.Location
	DropoffLocation kernel.Location
	EarningsTotal   float64
	CreatedAt       time.Time
}
