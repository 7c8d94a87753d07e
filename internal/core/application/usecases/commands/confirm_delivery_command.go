package commands

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand records the terminal delivery confirmation. The tip
// is the customer's tip known at delivery time (it can still be amended later)
// and the note is an optional free-form remark stored on the timeline, e.g.
// "left at door".
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID kernel.UUID
	tip     float64
	note    string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a delivery confirmation. The tip must be
// non-negative.
func NewConfirmDeliveryCommand(orderID, agentID kernel.UUID, tip float64, note string) (ConfirmDeliveryCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		agentID.Validate(),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}
	if tip < 0 {
		return ConfirmDeliveryCommand{}, errs.NewValueIsInvalidErrorWithCause("tip",
			fmt.Errorf("%f is negative", tip))
	}

	return ConfirmDeliveryCommand{
		orderID: orderID,
		agentID: agentID,
		tip:     tip,
		note:    note,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being delivered.
func (c ConfirmDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the confirming agent.
func (c ConfirmDeliveryCommand) AgentID() kernel.UUID {
	return c.agentID
}

// Tip returns the customer's tip at delivery time.
func (c ConfirmDeliveryCommand) Tip() float64 {
	return c.tip
}

// Note returns the optional delivery remark.
func (c ConfirmDeliveryCommand) Note() string {
	return c.note
}
