package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRateDeliveryCommandIsNotConstructed = errors.New(
	"RateDeliveryCommand must be created via NewRateDeliveryCommand constructor",
)

// RateDeliveryCommand records the customer's 1..5 rating for a delivered
// order's agent.
type RateDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	rating  int

	guard guard.ConstructorGuard
}

// NewRateDeliveryCommand creates a rating command.
func NewRateDeliveryCommand(orderID kernel.UUID, rating int) (RateDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return RateDeliveryCommand{}, err
	}
	if rating < 1 || rating > 5 {
		return RateDeliveryCommand{}, errs.NewValueIsOutOfRangeError("rating", rating, 1, 5)
	}

	return RateDeliveryCommand{
		orderID: orderID,
		rating:  rating,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrRateDeliveryCommandIsNotConstructed)
}

// OrderID returns the delivered order being rated.
func (c RateDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Rating returns the 1..5 rating.
func (c RateDeliveryCommand) Rating() int {
	return c.rating
}
