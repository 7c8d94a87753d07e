package order

import (
	"errors"
	"fmt"
	"math"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrTipBeforeDelivery is returned when a tip amendment arrives for an
	// order that has not been delivered yet.
	ErrTipBeforeDelivery = errors.New("tip can only be amended on a delivered order")
)

// Order is the aggregate root of the dispatch domain. It owns the lifecycle
// status, the derived delivery sub-status, the append-only timeline, and the
// earnings breakdown that freezes on delivery.
//
// All mutation happens through the transition methods below; a rejected
// transition returns ErrIllegalTransition and leaves every field untouched.
// Persistence is an explicit store call made by the application layer; the
// aggregate never saves itself.
type Order struct {
	id           kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	// agentID is the assigned agent (nil until the claim succeeds).
	agentID *kernel.UUID

	// claimLocation is the agent's last reported position at claim time,
	// kept for the first leg of the earnings distance. Nil when the agent
	// had not reported a location before claiming.
	claimLocation *kernel.Location

	pickupLocation  kernel.Location
	dropoffLocation kernel.Location

	status         Status
	deliveryStatus DeliveryStatus

	orderTotal  float64
	deliveryFee float64
	grandTotal  float64

	earnings EarningsBreakdown
	timeline []TimelineEntry

	pickedUpAt  *time.Time
	deliveredAt *time.Time
	createdAt   time.Time

	isConstructed bool
}

// NewOrder creates a pending order with an initial timeline entry stamped by
// the system actor. The ordering subsystem is the only caller; agents never
// create orders.
func NewOrder(
	id, customerID, restaurantID kernel.UUID,
	pickupLocation, dropoffLocation kernel.Location,
	orderTotal, deliveryFee float64,
	createdAt time.Time,
) (*Order, error) {
	if err := errors.Join(
		id.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickupLocation.Validate(),
		dropoffLocation.Validate(),
	); err != nil {
		return nil, err
	}
	if orderTotal < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("orderTotal",
			fmt.Errorf("%f is negative", orderTotal))
	}
	if deliveryFee < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("%f is negative", deliveryFee))
	}

	o := &Order{
		id:              id,
		customerID:      customerID,
		restaurantID:    restaurantID,
		pickupLocation:  pickupLocation,
		dropoffLocation: dropoffLocation,
		status:          StatusPending,
		deliveryStatus:  DeliveryStatusNotAssigned,
		orderTotal:      orderTotal,
		deliveryFee:     deliveryFee,
		grandTotal:      round2(orderTotal + deliveryFee),
		createdAt:       createdAt,
		isConstructed:   true,
	}
	o.appendTimeline(StatusPending, RoleSystem, "", createdAt)

	return o, nil
}

// RestoreOrderParams carries the persisted state needed to reconstruct an
// Order aggregate.
type RestoreOrderParams struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	RestaurantID    kernel.UUID
	AgentID         *kernel.UUID
	ClaimLocation   *kernel.Location
	PickupLocation  kernel.Location
	DropoffLocation kernel.Location
	Status          Status
	OrderTotal      float64
	DeliveryFee     float64
	GrandTotal      float64
	Earnings        EarningsBreakdown
	Timeline        []TimelineEntry
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
}

// RestoreOrder reconstructs an Order from persistence. It re-validates the
// status/agent consistency invariant so corrupted rows never become live
// aggregates.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.RestaurantID.Validate(),
		p.PickupLocation.Validate(),
		p.DropoffLocation.Validate(),
		p.Status.Validate(),
		p.Status.ValidateCanHaveAgent(p.AgentID != nil),
	); err != nil {
		return nil, err
	}
	if p.ClaimLocation != nil {
		if err := p.ClaimLocation.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:              p.ID,
		customerID:      p.CustomerID,
		restaurantID:    p.RestaurantID,
		agentID:         p.AgentID,
		claimLocation:   p.ClaimLocation,
		pickupLocation:  p.PickupLocation,
		dropoffLocation: p.DropoffLocation,
		status:          p.Status,
		deliveryStatus:  p.Status.DeliverySubStatus(),
		orderTotal:      p.OrderTotal,
		deliveryFee:     p.DeliveryFee,
		grandTotal:      p.GrandTotal,
		earnings:        p.Earnings,
		timeline:        p.Timeline,
		pickedUpAt:      p.PickedUpAt,
		deliveredAt:     p.DeliveredAt,
		createdAt:       p.CreatedAt,
		isConstructed:   true,
	}, nil
}

// Validate ensures the Order was created through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the order identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// RestaurantID returns the restaurant identifier.
func (o *Order) RestaurantID() kernel.UUID { return o.restaurantID }

// Agent returns the assigned agent's identifier, or nil before assignment.
func (o *Order) Agent() *kernel.UUID { return o.agentID }

// ClaimLocation returns the agent's position at claim time, or nil when none
// was reported before claiming.
func (o *Order) ClaimLocation() *kernel.Location { return o.claimLocation }

// PickupLocation returns the restaurant coordinate.
func (o *Order) PickupLocation() kernel.Location { return o.pickupLocation }

// DropoffLocation returns the customer coordinate.
func (o *Order) DropoffLocation() kernel.Location { return o.dropoffLocation }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// DeliveryStatus returns the derived delivery sub-status.
func (o *Order) DeliveryStatus() DeliveryStatus { return o.deliveryStatus }

// OrderTotal returns the food total.
func (o *Order) OrderTotal() float64 { return o.orderTotal }

// DeliveryFee returns the customer-facing delivery fee.
func (o *Order) DeliveryFee() float64 { return o.deliveryFee }

// GrandTotal returns the order total including the delivery fee.
func (o *Order) GrandTotal() float64 { return o.grandTotal }

// Earnings returns the current earnings breakdown.
func (o *Order) Earnings() EarningsBreakdown { return o.earnings }

// Timeline returns a copy of the committed transition history.
func (o *Order) Timeline() []TimelineEntry {
	entries := make([]TimelineEntry, len(o.timeline))
	copy(entries, o.timeline)
	return entries
}

// PickedUpAt returns the actual pickup time, or nil before pickup.
func (o *Order) PickedUpAt() *time.Time { return o.pickedUpAt }

// DeliveredAt returns the actual delivery time, or nil before delivery.
func (o *Order) DeliveredAt() *time.Time { return o.deliveredAt }

// CreatedAt returns the order creation time.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// OwnedBy reports whether the given agent is the assigned agent.
func (o *Order) OwnedBy(agentID kernel.UUID) bool {
	return o.agentID != nil && o.agentID.IsEqual(agentID)
}

// Assign records a successful claim: ready_for_pickup -> assigned, agent and
// claim location set, sub-status derived, timeline stamped with the delivery
// partner role. agentLocation may be nil when the agent has not reported one.
//
// The race between concurrent claimants is settled by the store's conditional
// update when this change is persisted; Assign re-checks the edge so that an
// order in any other state cannot be assigned.
func (o *Order) Assign(agentID kernel.UUID, agentLocation *kernel.Location, at time.Time) error {
	if err := agentID.Validate(); err != nil {
		return err
	}
	if agentLocation != nil {
		if err := agentLocation.Validate(); err != nil {
			return err
		}
	}

	newStatus, err := o.status.TransitionTo(StatusAssigned)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = newStatus.DeliverySubStatus()
	o.agentID = &agentID
	o.claimLocation = agentLocation
	o.appendTimeline(newStatus, RoleDeliveryPartner, "", at)
	return nil
}

// ConfirmPickup records the agent collecting the order: assigned -> picked_up,
// actual pickup time stamped.
func (o *Order) ConfirmPickup(at time.Time) error {
	newStatus, err := o.status.TransitionTo(StatusPickedUp)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = newStatus.DeliverySubStatus()
	pickedUp := at
	o.pickedUpAt = &pickedUp
	o.appendTimeline(newStatus, RoleDeliveryPartner, "", at)
	return nil
}

// ConfirmDelivery records the terminal delivery: picked_up|out_for_delivery ->
// delivered. The earnings breakdown computed by the application layer freezes
// here; only the tip may change afterwards via AmendTip.
func (o *Order) ConfirmDelivery(earnings EarningsBreakdown, note string, at time.Time) error {
	newStatus, err := o.status.TransitionTo(StatusDelivered)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = newStatus.DeliverySubStatus()
	delivered := at
	o.deliveredAt = &delivered
	o.earnings = earnings
	o.appendTimeline(newStatus, RoleDeliveryPartner, note, at)
	return nil
}

// AdvanceTo applies an externally driven transition (restaurant progress,
// courier heading out, refunds). Claim, pickup and delivery have dedicated
// methods because they carry side effects; AdvanceTo rejects those targets.
func (o *Order) AdvanceTo(to Status, actor ActorRole, note string, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	switch to {
	case StatusAssigned, StatusPickedUp, StatusDelivered, StatusCancelled:
		return fmt.Errorf("%w: %s -> %s must go through its dedicated operation", ErrIllegalTransition, o.status, to)
	}

	newStatus, err := o.status.TransitionTo(to)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = newStatus.DeliverySubStatus()
	o.appendTimeline(newStatus, actor, note, at)
	return nil
}

// Cancel moves any non-terminal order to cancelled. No earnings are computed.
func (o *Order) Cancel(actor ActorRole, note string, at time.Time) error {
	if err := actor.Validate(); err != nil {
		return err
	}

	newStatus, err := o.status.TransitionTo(StatusCancelled)
	if err != nil {
		return err
	}

	o.status = newStatus
	o.deliveryStatus = newStatus.DeliverySubStatus()
	o.appendTimeline(newStatus, actor, note, at)
	return nil
}

// AmendTip updates the tip on a delivered order and recomputes the total.
// Returns the signed difference against the previous tip so the caller can
// adjust the agent's ledger. Base, distance and time components stay frozen.
func (o *Order) AmendTip(amount float64) (float64, error) {
	if o.status != StatusDelivered {
		return 0, ErrTipBeforeDelivery
	}
	if amount < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("tip",
			fmt.Errorf("%f is negative", amount))
	}

	delta := amount - o.earnings.Tip
	o.earnings.Tip = amount
	o.earnings.Total = round2(o.earnings.BaseFee + o.earnings.DistanceBonus + o.earnings.TimeBonus + amount)
	return delta, nil
}

// appendTimeline appends one entry, clamping the timestamp to the previous
// entry's when the wall clock stepped backwards so the timeline stays
// monotonically non-decreasing.
func (o *Order) appendTimeline(status Status, actor ActorRole, note string, at time.Time) {
	if n := len(o.timeline); n > 0 && at.Before(o.timeline[n-1].Timestamp) {
		at = o.timeline[n-1].Timestamp
	}
	o.timeline = append(o.timeline, TimelineEntry{
		Status:    status,
		Actor:     actor,
		Timestamp: at,
		Note:      note,
	})
}

// round2 rounds a monetary amount to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
