// Package agent contains the delivery agent aggregate: availability, the
// latest reported location, running delivery statistics, and the earnings
// ledger credited by terminal order transitions.
package agent

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrAgentIsNotConstructed is returned when an Agent instance was not created
// through NewAgent or RestoreAgent.
var ErrAgentIsNotConstructed = errors.New("Agent must be created via NewAgent or RestoreAgent")

// EarningsLedger holds the agent's running earnings sums. Every bucket is
// non-negative; Day/Week/Month are reset by the rollover job while Lifetime
// only grows.
type EarningsLedger struct {
	Lifetime float64
	Day      float64
	Week     float64
	Month    float64
}

// Stats holds the agent's running delivery counters and the rating
// accumulator (sum and count, averaged on read).
type Stats struct {
	TotalDeliveries     int
	CompletedDeliveries int
	CancelledDeliveries int
	RatingSum           float64
	RatingCount         int
}

// Agent is referenced by orders through its identifier, never owned by them.
// Registration and credentials live outside the dispatch core; this aggregate
// carries only the state the claim protocol and the earnings pipeline need.
//
// Location reports may arrive out of order; the aggregate keeps the
// latest-timestamped report and discards stale ones (last-writer-wins on
// lastActiveAt).
type Agent struct {
	id           kernel.UUID
	available    bool
	location     *kernel.Location
	lastActiveAt time.Time
	ledger       EarningsLedger
	stats        Stats

	isConstructed bool
}

// NewAgent creates an agent that is offline and has no reported location yet.
// Called at the registration boundary.
func NewAgent(id kernel.UUID, registeredAt time.Time) (*Agent, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Agent{
		id:            id,
		lastActiveAt:  registeredAt,
		isConstructed: true,
	}, nil
}

// RestoreAgentParams carries the persisted state needed to reconstruct an
// Agent aggregate.
type RestoreAgentParams struct {
	ID           kernel.UUID
	Available    bool
	Location     *kernel.Location
	LastActiveAt time.Time
	Ledger       EarningsLedger
	Stats        Stats
}

// RestoreAgent reconstructs an Agent from persistence.
func RestoreAgent(p RestoreAgentParams) (*Agent, error) {
	if err := p.ID.Validate(); err != nil {
		return nil, err
	}
	if p.Location != nil {
		if err := p.Location.Validate(); err != nil {
			return nil, err
		}
	}

	return &Agent{
		id:            p.ID,
		available:     p.Available,
		location:      p.Location,
		lastActiveAt:  p.LastActiveAt,
		ledger:        p.Ledger,
		stats:         p.Stats,
		isConstructed: true,
	}, nil
}

// Validate ensures the Agent was created through a constructor.
func (a *Agent) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAgentIsNotConstructed
	}
	return nil
}

// ID returns the agent identifier.
func (a *Agent) ID() kernel.UUID { return a.id }

// IsAvailable reports whether the agent accepts new claims.
func (a *Agent) IsAvailable() bool { return a.available }

// Location returns the latest reported coordinate, or nil before the first
// report.
func (a *Agent) Location() *kernel.Location { return a.location }

// LastActiveAt returns the timestamp of the latest accepted report.
func (a *Agent) LastActiveAt() time.Time { return a.lastActiveAt }

// Ledger returns the earnings ledger.
func (a *Agent) Ledger() EarningsLedger { return a.ledger }

// Stats returns the running delivery counters.
func (a *Agent) Stats() Stats { return a.stats }

// AverageRating returns the mean rating, or 0 when unrated.
func (a *Agent) AverageRating() float64 {
	if a.stats.RatingCount == 0 {
		return 0
	}
	return a.stats.RatingSum / float64(a.stats.RatingCount)
}

// ReportLocation applies a location report. Reports older than the latest
// accepted one are discarded; the method reports whether the update was
// applied.
func (a *Agent) ReportLocation(location kernel.Location, reportedAt time.Time) (bool, error) {
	if err := location.Validate(); err != nil {
		return false, err
	}
	if reportedAt.Before(a.lastActiveAt) {
		return false, nil
	}

	loc := location
	a.location = &loc
	a.lastActiveAt = reportedAt
	return true, nil
}

// SetAvailability toggles whether the agent accepts claims. The caller is
// responsible for rejecting the flip to unavailable while the agent holds a
// non-terminal order.
func (a *Agent) SetAvailability(available bool, at time.Time) {
	a.available = available
	if at.After(a.lastActiveAt) {
		a.lastActiveAt = at
	}
}

// RecordClaim bumps the lifetime delivery counter after a successful claim.
func (a *Agent) RecordClaim() {
	a.stats.TotalDeliveries++
}

// RecordCompletion credits a delivered order's earnings into every ledger
// bucket and bumps the completed counter.
func (a *Agent) RecordCompletion(earnings float64) error {
	if earnings < 0 {
		return errs.NewValueIsInvalidErrorWithCause("earnings",
			fmt.Errorf("%f is negative", earnings))
	}

	a.stats.CompletedDeliveries++
	a.credit(earnings)
	return nil
}

// RecordCancellation bumps the cancelled counter.
func (a *Agent) RecordCancellation() {
	a.stats.CancelledDeliveries++
}

// AddRating accumulates a 1..5 delivery rating.
func (a *Agent) AddRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	a.stats.RatingSum += float64(rating)
	a.stats.RatingCount++
	return nil
}

// CreditEarnings applies a signed adjustment (e.g. a tip amendment delta) to
// every ledger bucket, clamping at zero so the non-negative invariant holds.
func (a *Agent) CreditEarnings(amount float64) {
	a.credit(amount)
}

func (a *Agent) credit(amount float64) {
	a.ledger.Lifetime = math.Max(0, a.ledger.Lifetime+amount)
	a.ledger.Day = math.Max(0, a.ledger.Day+amount)
	a.ledger.Week = math.Max(0, a.ledger.Week+amount)
	a.ledger.Month = math.Max(0, a.ledger.Month+amount)
}
