package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand registers a new delivery order coming from the ordering
// subsystem. The order starts pending and walks the restaurant stages before
// agents can see it.
//
// Example:
//
//	pickup, _ := kernel.NewLocation(77.58, 12.90)
//	dropoff, _ := kernel.NewLocation(77.61, 12.93)
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, restaurantID,
//	    pickup, dropoff, 24.50, 2.00)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	customerID   kernel.UUID
	restaurantID kernel.UUID

	pickupLocation  kernel.Location
	dropoffLocation kernel.Location

	orderTotal  float64
	deliveryFee float64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates an order registration command. Identifiers and
// locations must be valid; monetary amounts must be non-negative.
func NewCreateOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	pickupLocation, dropoffLocation kernel.Location,
	orderTotal, deliveryFee float64,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
		pickupLocation.Validate(),
		dropoffLocation.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if orderTotal < 0 {
		return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("orderTotal",
			fmt.Errorf("%f is negative", orderTotal))
	}
	if deliveryFee < 0 {
		return CreateOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("deliveryFee",
			fmt.Errorf("%f is negative", deliveryFee))
	}

	return CreateOrderCommand{
		orderID:         orderID,
		customerID:      customerID,
		restaurantID:    restaurantID,
		pickupLocation:  pickupLocation,
		dropoffLocation: dropoffLocation,
		orderTotal:      orderTotal,
		deliveryFee:     deliveryFee,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the new order's identifier.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// RestaurantID returns the preparing restaurant.
func (c CreateOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// PickupLocation returns the restaurant coordinate.
func (c CreateOrderCommand) PickupLocation() kernel.Location { return c.pickupLocation }

// DropoffLocation returns the customer coordinate.
func (c CreateOrderCommand) DropoffLocation() kernel.Location { return c.dropoffLocation }

// OrderTotal returns the food total.
func (c CreateOrderCommand) OrderTotal() float64 { return c.orderTotal }

// DeliveryFee returns the customer-facing delivery fee.
func (c CreateOrderCommand) DeliveryFee() float64 { return c.deliveryFee }
