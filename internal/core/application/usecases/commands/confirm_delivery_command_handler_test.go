package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testCalculator(t *testing.T) services.EarningsCalculator {
	t.Helper()
	c, err := services.NewEarningsCalculator(services.DefaultFallbackLegMeters)
	require.NoError(t, err)
	return c
}

// pickedUpOrder builds an order claimed by agentID from (77.59, 12.91) and
// already collected from the restaurant.
func pickedUpOrder(t *testing.T, agentID kernel.UUID) *order.Order {
	t.Helper()

	o := readyOrder(t)
	claimLoc := mustLocation(t, 77.59, 12.91)
	require.NoError(t, o.Assign(agentID, &claimLoc, time.Date(2025, 6, 1, 12, 11, 0, 0, time.UTC)))
	require.NoError(t, o.ConfirmPickup(time.Date(2025, 6, 1, 12, 20, 0, 0, time.UTC)))
	return o
}

func TestConfirmDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	courier := availableAgent(t, agentID)
	testOrder := pickedUpOrder(t, agentID)

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		agentRepo.On("GetForUpdate", ctx, agentID).Return(courier, nil).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		agentRepo.On("Update", ctx, mock.AnythingOfType("*agent.Agent")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	publisher.On("Publish", ctx, mock.AnythingOfType("ports.Event"), mock.Anything).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewConfirmDeliveryCommand(testOrder.ID(), agentID, 2.00, "left at door")
	require.NoError(t, err)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, testCalculator(t), publisher)
	got, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.Same(t, testOrder, got)
	assert.Equal(t, order.StatusDelivered, got.Status())
	require.NotNil(t, got.DeliveredAt())

	// The caller gets the frozen breakdown back with the delivered order.
	earnings := got.Earnings()
	assert.InDelta(t, 3.00, earnings.BaseFee, 1e-9)
	// Claim leg ~1.55km plus restaurant leg ~4.66km at 0.50/km.
	assert.InDelta(t, 3.11, earnings.DistanceBonus, 0.02)
	assert.Zero(t, earnings.TimeBonus) // pickup stamped far in the past
	assert.InDelta(t, 2.00, earnings.Tip, 1e-9)
	assert.InDelta(t, earnings.BaseFee+earnings.DistanceBonus+earnings.Tip, earnings.Total, 0.01)

	// The same total lands in the agent's ledger.
	assert.InDelta(t, earnings.Total, courier.Ledger().Lifetime, 1e-9)
	assert.Equal(t, 1, courier.Stats().CompletedDeliveries)

	timeline := testOrder.Timeline()
	assert.Equal(t, "left at door", timeline[len(timeline)-1].Note)
}

func TestConfirmDeliveryCommandHandler_Handle_NotOwner(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	courier := availableAgent(t, agentID)
	testOrder := pickedUpOrder(t, kernel.NewUUID()) // someone else's delivery

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		agentRepo.On("GetForUpdate", ctx, agentID).Return(courier, nil).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewConfirmDeliveryCommand(testOrder.ID(), agentID, 0, "")
	require.NoError(t, err)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, testCalculator(t), nil)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrNotOrderOwner)
	assert.Equal(t, order.StatusPickedUp, testOrder.Status())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmDeliveryCommandHandler_Handle_NotPickedUp(t *testing.T) {
	ctx := t.Context()

	agentID := kernel.NewUUID()
	courier := availableAgent(t, agentID)
	testOrder := readyOrder(t)
	claimLoc := mustLocation(t, 77.59, 12.91)
	require.NoError(t, testOrder.Assign(agentID, &claimLoc, time.Now()))

	orderRepo := new(MockOrderRepository)
	agentRepo := new(MockAgentRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AgentRepository").Return(agentRepo).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		agentRepo.On("GetForUpdate", ctx, agentID).Return(courier, nil).Once(),
		orderRepo.On("GetForUpdate", ctx, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	cmd, err := commands.NewConfirmDeliveryCommand(testOrder.ID(), agentID, 0, "")
	require.NoError(t, err)

	handler := commands.NewConfirmDeliveryCommandHandler(factory, testCalculator(t), nil)
	_, err = handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
