package order

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
)

// ErrIllegalTransition is returned for any (from, to) pair absent from the
// transition table. The order is left untouched when it is returned.
var ErrIllegalTransition = errors.New("illegal status transition")

// Status represents the lifecycle state of an order. It implements a state
// machine with defined transitions to ensure orders follow the delivery
// workflow:
//
//	pending -> confirmed -> preparing -> ready_for_pickup
//	        -> assigned -> picked_up -> out_for_delivery -> delivered
//
// "cancelled" and "refunded" are side branches reachable from every
// non-terminal status. "delivered", "cancelled" and "refunded" are terminal.
type Status string

const (
	// StatusUnknown is the zero value and never valid.
	StatusUnknown Status = ""

	// StatusPending is the initial status assigned by the ordering subsystem.
	StatusPending Status = "pending"

	// StatusConfirmed indicates the restaurant accepted the order.
	StatusConfirmed Status = "confirmed"

	// StatusPreparing indicates the restaurant is preparing the order.
	StatusPreparing Status = "preparing"

	// StatusReadyForPickup indicates the order awaits an agent claim.
	// Only orders in this status appear in availability queries.
	StatusReadyForPickup Status = "ready_for_pickup"

	// StatusAssigned indicates exactly one agent claimed the order.
	StatusAssigned Status = "assigned"

	// StatusPickedUp indicates the agent collected the order.
	StatusPickedUp Status = "picked_up"

	// StatusOutForDelivery indicates the agent is heading to the customer.
	StatusOutForDelivery Status = "out_for_delivery"

	// StatusDelivered is terminal; earnings freeze at this point.
	StatusDelivered Status = "delivered"

	// StatusCancelled is terminal; no earnings are computed.
	StatusCancelled Status = "cancelled"

	// StatusRefunded is terminal.
	StatusRefunded Status = "refunded"
)

// transitions is the forward edge table. Cancellation and refund edges are
// handled separately because they apply to every non-terminal state.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:        {StatusConfirmed},
		StatusConfirmed:      {StatusPreparing},
		StatusPreparing:      {StatusReadyForPickup},
		StatusReadyForPickup: {StatusAssigned},
		StatusAssigned:       {StatusPickedUp},
		StatusPickedUp:       {StatusOutForDelivery, StatusDelivered},
		StatusOutForDelivery: {StatusDelivered},
	}
}

func validStatuses() map[Status]struct{} {
	return map[Status]struct{}{
		StatusPending:        {},
		StatusConfirmed:      {},
		StatusPreparing:      {},
		StatusReadyForPickup: {},
		StatusAssigned:       {},
		StatusPickedUp:       {},
		StatusOutForDelivery: {},
		StatusDelivered:      {},
		StatusCancelled:      {},
		StatusRefunded:       {},
	}
}

// Validate checks that the status is one of the defined lifecycle states.
// Used when reconstructing orders from persistence or external input.
func (s Status) Validate() error {
	if _, ok := validStatuses()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status",
			fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == StatusUnknown {
		return "unknown"
	}
	return string(s)
}

// IsTerminal reports whether no further transition is legal from s.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}

// CanTransitionTo reports whether the edge s -> to is in the transition table.
func (s Status) CanTransitionTo(to Status) bool {
	if to == StatusCancelled || to == StatusRefunded {
		_, known := validStatuses()[s]
		return known && !s.IsTerminal()
	}

	for _, next := range transitions()[s] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionTo returns the new status for a legal edge, or ErrIllegalTransition
// describing the rejected pair.
func (s Status) TransitionTo(to Status) (Status, error) {
	if err := to.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(to) {
		return StatusUnknown, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, to)
	}
	return to, nil
}

// ValidateCanHaveAgent enforces the consistency rule between status and agent
// assignment: an agent reference must exist if and only if the status is at or
// past "assigned" (terminal branch statuses may carry either, since
// cancellation can strike before or after a claim).
func (s Status) ValidateCanHaveAgent(hasAgent bool) error {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReadyForPickup:
		if hasAgent {
			return errs.NewValueIsInvalidErrorWithCause("status",
				fmt.Errorf("%s order must not have an assigned agent", s))
		}
	case StatusAssigned, StatusPickedUp, StatusOutForDelivery, StatusDelivered:
		if !hasAgent {
			return errs.NewValueIsInvalidErrorWithCause("status",
				fmt.Errorf("%s order must have an assigned agent", s))
		}
	}
	return nil
}

// DeliveryStatus is the derived, finer-grained status tracking the agent's
// physical progress. It is computed from Status and never stored as an
// independent source of truth.
type DeliveryStatus string

const (
	DeliveryStatusNotAssigned       DeliveryStatus = "not_assigned"
	DeliveryStatusAssigned          DeliveryStatus = "assigned"
	DeliveryStatusPickedUp          DeliveryStatus = "picked_up"
	DeliveryStatusHeadingToCustomer DeliveryStatus = "heading_to_customer"
	DeliveryStatusDelivered         DeliveryStatus = "delivered"
)

// DeliverySubStatus derives the delivery sub-status from the lifecycle status.
func (s Status) DeliverySubStatus() DeliveryStatus {
	switch s {
	case StatusAssigned:
		return DeliveryStatusAssigned
	case StatusPickedUp:
		return DeliveryStatusPickedUp
	case StatusOutForDelivery:
		return DeliveryStatusHeadingToCustomer
	case StatusDelivered:
		return DeliveryStatusDelivered
	default:
		return DeliveryStatusNotAssigned
	}
}

// ActorRole identifies who drove a transition in the order timeline.
type ActorRole string

const (
	RoleCustomer        ActorRole = "customer"
	RoleRestaurant      ActorRole = "restaurant"
	RoleDeliveryPartner ActorRole = "delivery_partner"
	RoleSystem          ActorRole = "system"
)

// Validate checks that the role is one of the defined actor roles.
func (r ActorRole) Validate() error {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleDeliveryPartner, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("actorRole",
			fmt.Errorf("%q is not a valid actor role", string(r)))
	}
}
