// Package queries contains read-only operations that bypass the aggregate
// layer and read the store directly. Queries never mutate state and run
// outside any unit of work.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrFindAvailableOrdersQueryIsNotConstructed = errors.New(
	"FindAvailableOrdersQuery must be created via NewFindAvailableOrdersQuery constructor",
)

// Radius and page bounds for availability searches.
const (
	MinRadiusMeters     = 1000.0
	MaxRadiusMeters     = 50000.0
	DefaultRadiusMeters = 10000.0

	MinLimit     = 1
	MaxLimit     = 50
	DefaultLimit = 20
)

// FindAvailableOrdersQuery searches for claimable orders around the agent's
// position. Only ready_for_pickup orders without an agent are returned,
// nearest first. The search center is either an explicit coordinate or,
// when none was given, the agent's last reported location.
//
// Example:
//
//	origin, _ := kernel.NewLocation(77.59, 12.91)
//	query, err := NewFindAvailableOrdersQuery(origin, 0, 0) // defaults
type FindAvailableOrdersQuery struct {
	origin       *kernel.Location
	agentID      kernel.UUID
	radiusMeters float64
	limit        int

	guard guard.ConstructorGuard
}

// NewFindAvailableOrdersQuery creates an availability search around an
// explicit coordinate. Zero radius and limit select the defaults;
// out-of-range values are rejected rather than clamped so a typo'd radius is
// visible to the caller.
func NewFindAvailableOrdersQuery(origin kernel.Location, radiusMeters float64, limit int) (FindAvailableOrdersQuery, error) {
	if err := origin.Validate(); err != nil {
		return FindAvailableOrdersQuery{}, err
	}

	query, err := newFindAvailableOrdersQuery(radiusMeters, limit)
	if err != nil {
		return FindAvailableOrdersQuery{}, err
	}

	query.origin = &origin
	return query, nil
}

// NewFindAvailableOrdersQueryForAgent creates an availability search centered
// on the agent's last reported location, resolved by the handler. Fails with
// a required-value error at execution time when the agent never reported one.
func NewFindAvailableOrdersQueryForAgent(agentID kernel.UUID, radiusMeters float64, limit int) (FindAvailableOrdersQuery, error) {
	if err := agentID.Validate(); err != nil {
		return FindAvailableOrdersQuery{}, err
	}

	query, err := newFindAvailableOrdersQuery(radiusMeters, limit)
	if err != nil {
		return FindAvailableOrdersQuery{}, err
	}

	query.agentID = agentID
	return query, nil
}

func newFindAvailableOrdersQuery(radiusMeters float64, limit int) (FindAvailableOrdersQuery, error) {
	if radiusMeters == 0 {
		radiusMeters = DefaultRadiusMeters
	}
	if radiusMeters < MinRadiusMeters || radiusMeters > MaxRadiusMeters {
		return FindAvailableOrdersQuery{}, errs.NewValueIsOutOfRangeError(
			"radiusMeters", radiusMeters, MinRadiusMeters, MaxRadiusMeters)
	}

	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < MinLimit || limit > MaxLimit {
		return FindAvailableOrdersQuery{}, errs.NewValueIsOutOfRangeError(
			"limit", limit, MinLimit, MaxLimit)
	}

	return FindAvailableOrdersQuery{
		radiusMeters: radiusMeters,
		limit:        limit,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through a constructor.
func (q FindAvailableOrdersQuery) Validate() error {
	return q.guard.Validate(ErrFindAvailableOrdersQueryIsNotConstructed)
}

// Origin returns the explicit search center, or nil when the agent's last
// reported location is to be used.
func (q FindAvailableOrdersQuery) Origin() *kernel.Location { return q.origin }

// AgentID returns the agent whose location centers the search when no
// explicit origin was given.
func (q FindAvailableOrdersQuery) AgentID() kernel.UUID { return q.agentID }

// RadiusMeters returns the search radius.
func (q FindAvailableOrdersQuery) RadiusMeters() float64 { return q.radiusMeters }

// Limit returns the maximum number of results.
func (q FindAvailableOrdersQuery) Limit() int { return q.limit }

// FindAvailableOrdersQueryResponse is one claimable order in the result,
// annotated with the straight-line distance from the search origin and the
// guaranteed earnings a claim would yield.
type FindAvailableOrdersQueryResponse struct {
	ID                kernel.UUID
	PickupLocation    kernel.Location
	DropoffLocation   kernel.Location
	DistanceMeters    float64
	OrderTotal        float64
	DeliveryFee       float64
	GrandTotal        float64
	EstimatedEarnings float64
	CreatedAt         time.Time
}
