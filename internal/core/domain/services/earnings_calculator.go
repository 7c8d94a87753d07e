package services

import (
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	baseFee               = 3.00
	perKilometerRate      = 0.50
	fastDeliveryBonus     = 1.00
	fastDeliveryThreshold = 30 * time.Minute

	// DefaultFallbackLegMeters substitutes a leg whose endpoints are unknown,
	// e.g. when the agent never reported a location before claiming.
	DefaultFallbackLegMeters = 2000.0
)

// EarningsCalculator computes the per-delivery payout breakdown. The distance
// component covers both legs of the trip: agent to restaurant and restaurant
// to customer.
type EarningsCalculator struct {
	fallbackLegMeters float64

	guard guard.ConstructorGuard
}

// NewEarningsCalculator creates a calculator. fallbackLegMeters replaces a leg
// that cannot be measured and must be non-negative.
func NewEarningsCalculator(fallbackLegMeters float64) (EarningsCalculator, error) {
	if fallbackLegMeters < 0 || math.IsNaN(fallbackLegMeters) {
		return EarningsCalculator{}, errs.NewValueIsOutOfRangeError(
			"fallbackLegMeters", fallbackLegMeters, 0, math.MaxFloat64)
	}

	return EarningsCalculator{
		fallbackLegMeters: fallbackLegMeters,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the calculator was created through NewEarningsCalculator.
func (c EarningsCalculator) Validate() error {
	return c.guard.Validate(errs.NewValueIsRequiredError("earningsCalculator"))
}

// Compute builds the final earnings breakdown for a delivered order.
// agentLocation is the agent's position at claim time and may be nil, in which
// case the first leg falls back to the configured length. pickupToDelivery is
// the elapsed time between pickup and delivery confirmation; the time bonus
// applies when it is positive and under the threshold. tip must be
// non-negative.
func (c EarningsCalculator) Compute(
	agentLocation *kernel.Location,
	pickup kernel.Location,
	dropoff kernel.Location,
	pickupToDelivery time.Duration,
	tip float64,
) (order.EarningsBreakdown, error) {
	if err := c.Validate(); err != nil {
		return order.EarningsBreakdown{}, err
	}
	if tip < 0 || math.IsNaN(tip) {
		return order.EarningsBreakdown{}, errs.NewValueIsOutOfRangeError(
			"tip", tip, 0, math.MaxFloat64)
	}

	distanceBonus := c.distanceBonus(agentLocation, pickup, dropoff)

	timeBonus := 0.0
	if pickupToDelivery > 0 && pickupToDelivery < fastDeliveryThreshold {
		timeBonus = fastDeliveryBonus
	}

	return order.EarningsBreakdown{
		BaseFee:       baseFee,
		DistanceBonus: distanceBonus,
		TimeBonus:     timeBonus,
		Tip:           round2(tip),
		Total:         round2(baseFee + distanceBonus + timeBonus + tip),
	}, nil
}

// Estimate computes the guaranteed components an agent would earn by claiming
// the order: base fee plus the distance bonus for both legs. Time bonus and
// tip are unknown before delivery and excluded.
func (c EarningsCalculator) Estimate(
	agentLocation *kernel.Location,
	pickup kernel.Location,
	dropoff kernel.Location,
) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	return round2(baseFee + c.distanceBonus(agentLocation, pickup, dropoff)), nil
}

func (c EarningsCalculator) distanceBonus(
	agentLocation *kernel.Location,
	pickup kernel.Location,
	dropoff kernel.Location,
) float64 {
	firstLeg := c.fallbackLegMeters
	if agentLocation != nil {
		firstLeg = agentLocation.DistanceMeters(pickup)
	}
	secondLeg := pickup.DistanceMeters(dropoff)

	totalKm := (firstLeg + secondLeg) / 1000.0
	return round2(totalKm * perKilometerRate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
