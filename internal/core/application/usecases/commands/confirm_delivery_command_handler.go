package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

// ConfirmDeliveryCommandHandler finishes a delivery: it computes the earnings
// breakdown from the recorded trip, freezes it on the order, and credits the
// agent's ledger in the same transaction.
//
// The earnings first leg uses the agent position recorded at claim time, so a
// delivery confirmed from the customer's doorstep still pays for the ride to
// the restaurant.
type ConfirmDeliveryCommandHandler struct {
	uowFactory UoWFactory
	calculator services.EarningsCalculator
	publisher  ports.EventPublisher
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmations.
func NewConfirmDeliveryCommandHandler(
	uowFactory UoWFactory,
	calculator services.EarningsCalculator,
	publisher ports.EventPublisher,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		calculator: calculator,
		publisher:  publisher,
	}
}

// Handle locks the agent row before the order row, verifies ownership,
// computes the earnings and persists both aggregates atomically. Returns the
// delivered order with the frozen earnings breakdown on it.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, command ConfirmDeliveryCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}
	if err := h.calculator.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentRepo := uow.AgentRepository()
	orderRepo := uow.OrderRepository()

	courier, err := agentRepo.GetForUpdate(ctx, command.AgentID())
	if err != nil {
		return nil, err
	}

	aggregate, err := orderRepo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}
	if !aggregate.OwnedBy(command.AgentID()) {
		return nil, ErrNotOrderOwner
	}

	now := time.Now().UTC()

	var pickupToDelivery time.Duration
	if pickedUpAt := aggregate.PickedUpAt(); pickedUpAt != nil {
		pickupToDelivery = now.Sub(*pickedUpAt)
	}

	earnings, err := h.calculator.Compute(
		aggregate.ClaimLocation(),
		aggregate.PickupLocation(),
		aggregate.DropoffLocation(),
		pickupToDelivery,
		command.Tip(),
	)
	if err != nil {
		return nil, err
	}

	if err = aggregate.ConfirmDelivery(earnings, command.Note(), now); err != nil {
		return nil, err
	}
	if err = courier.RecordCompletion(earnings.Total); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}
	if err = agentRepo.Update(ctx, courier); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	metrics.DeliveriesCompletedTotal.Inc()

	agentID := command.AgentID()
	finalEarnings := aggregate.Earnings()
	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderDelivered,
			OrderID:    aggregate.ID(),
			Status:     aggregate.Status(),
			AgentID:    &agentID,
			Note:       command.Note(),
			Earnings:   &finalEarnings,
			OccurredAt: now,
		},
		ports.Address{Party: ports.PartyCustomer, ID: aggregate.CustomerID()},
		ports.Address{Party: ports.PartyRestaurant, ID: aggregate.RestaurantID()},
		ports.Address{Party: ports.PartyAgent, ID: agentID},
	)

	return aggregate, nil
}
