package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAmendTipCommandIsNotConstructed = errors.New(
	"AmendTipCommand must be created via NewAmendTipCommand constructor",
)

// AmendTipCommand replaces the tip on a delivered order. The base, distance
// and time components stay frozen; only the tip and the total move.
type AmendTipCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	tip     float64

	guard guard.ConstructorGuard
}

// NewAmendTipCommand creates a tip amendment. The tip must be non-negative.
func NewAmendTipCommand(orderID kernel.UUID, tip float64) (AmendTipCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AmendTipCommand{}, err
	}
	if tip < 0 {
		return AmendTipCommand{}, errs.NewValueIsInvalidErrorWithCause("tip",
			fmt.Errorf("%f is negative", tip))
	}

	return AmendTipCommand{
		orderID: orderID,
		tip:     tip,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AmendTipCommand) Validate() error {
	return c.guard.Validate(ErrAmendTipCommandIsNotConstructed)
}

// OrderID returns the delivered order whose tip changes.
func (c AmendTipCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Tip returns the new tip amount.
func (c AmendTipCommand) Tip() float64 {
	return c.tip
}
