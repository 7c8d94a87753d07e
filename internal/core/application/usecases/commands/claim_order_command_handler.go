package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"
)

var (
	// ErrOrderAlreadyClaimed is returned when the conditional claim update
	// matched no row: another agent won the race or the order left the
	// claimable state.
	ErrOrderAlreadyClaimed = errors.New("order already claimed")

	// ErrAgentUnavailable is returned when the claiming agent is offline.
	ErrAgentUnavailable = errors.New("agent is not available for deliveries")
)

// ClaimOrderCommandHandler settles the claim race. The order row is written
// with a conditional update that only matches while the order is still ready
// for pickup and unassigned, so exactly one of any number of concurrent
// claimants succeeds. Losers get ErrOrderAlreadyClaimed and no retry happens
// on their behalf.
//
// A retry of an already won claim by the same agent is a no-op success.
type ClaimOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewClaimOrderCommandHandler creates a handler for claim operations.
func NewClaimOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) ClaimOrderCommandHandler {
	return ClaimOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the claim and returns the assigned order. The agent row is
// locked first to serialize the availability check and counter update; the
// order itself is guarded by the conditional update, not a lock.
func (h ClaimOrderCommandHandler) Handle(ctx context.Context, command ClaimOrderCommand) (*order.Order, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	metrics.ClaimsAttemptedTotal.Inc()
	start := time.Now()
	defer func() {
		metrics.ClaimDuration.Observe(time.Since(start).Seconds())
	}()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	agentRepo := uow.AgentRepository()
	orderRepo := uow.OrderRepository()

	claimant, err := agentRepo.GetForUpdate(ctx, command.AgentID())
	if err != nil {
		return nil, err
	}
	if !claimant.IsAvailable() {
		return nil, ErrAgentUnavailable
	}

	claimed, err := orderRepo.Get(ctx, command.OrderID())
	if err != nil {
		return nil, err
	}

	// A delivery app may retry a claim whose response was lost. The claim
	// already succeeded, so report success without touching anything.
	if claimed.OwnedBy(command.AgentID()) {
		return claimed, nil
	}

	now := time.Now().UTC()
	if err = claimed.Assign(command.AgentID(), claimant.Location(), now); err != nil {
		if errors.Is(err, order.ErrIllegalTransition) {
			metrics.ClaimConflictsTotal.Inc()
			return nil, ErrOrderAlreadyClaimed
		}
		return nil, err
	}

	won, err := orderRepo.Claim(ctx, claimed)
	if err != nil {
		return nil, err
	}
	if !won {
		metrics.ClaimConflictsTotal.Inc()
		return nil, ErrOrderAlreadyClaimed
	}

	claimant.RecordClaim()
	if err = agentRepo.Update(ctx, claimant); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	agentID := command.AgentID()
	publishEvent(ctx, h.publisher,
		ports.Event{
			Name:       ports.EventOrderAssigned,
			OrderID:    claimed.ID(),
			Status:     claimed.Status(),
			AgentID:    &agentID,
			OccurredAt: now,
		},
		ports.Address{Party: ports.PartyCustomer, ID: claimed.CustomerID()},
		ports.Address{Party: ports.PartyRestaurant, ID: claimed.RestaurantID()},
		ports.Address{Party: ports.PartyAgent, ID: agentID},
	)

	return claimed, nil
}
