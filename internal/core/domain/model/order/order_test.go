package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLocation(t *testing.T, lng, lat float64) kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(lng, lat)
	require.NoError(t, err)
	return loc
}

func newReadyOrder(t *testing.T, at time.Time) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustLocation(t, 77.58, 12.90),
		mustLocation(t, 77.61, 12.93),
		24.50, 2.00,
		at,
	)
	require.NoError(t, err)

	require.NoError(t, o.AdvanceTo(order.StatusConfirmed, order.RoleRestaurant, "", at.Add(time.Minute)))
	require.NoError(t, o.AdvanceTo(order.StatusPreparing, order.RoleRestaurant, "", at.Add(2*time.Minute)))
	require.NoError(t, o.AdvanceTo(order.StatusReadyForPickup, order.RoleRestaurant, "", at.Add(10*time.Minute)))
	return o
}

func TestNewOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid_order", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			mustLocation(t, 77.58, 12.90),
			mustLocation(t, 77.61, 12.93),
			24.50, 2.00,
			now,
		)

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.DeliveryStatusNotAssigned, o.DeliveryStatus())
		assert.Nil(t, o.Agent())
		assert.InDelta(t, 26.50, o.GrandTotal(), 1e-9)

		timeline := o.Timeline()
		require.Len(t, timeline, 1)
		assert.Equal(t, order.StatusPending, timeline[0].Status)
		assert.Equal(t, order.RoleSystem, timeline[0].Actor)
	})

	t.Run("negative_total_is_rejected", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			mustLocation(t, 77.58, 12.90),
			mustLocation(t, 77.61, 12.93),
			-1, 0,
			now,
		)

		require.Error(t, err)
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var o order.Order

		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Assign(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ready_order_is_assignable", func(t *testing.T) {
		o := newReadyOrder(t, now)
		agentID := kernel.NewUUID()
		agentLoc := mustLocation(t, 77.59, 12.91)

		require.NoError(t, o.Assign(agentID, &agentLoc, now.Add(11*time.Minute)))

		assert.Equal(t, order.StatusAssigned, o.Status())
		assert.Equal(t, order.DeliveryStatusAssigned, o.DeliveryStatus())
		require.NotNil(t, o.Agent())
		assert.True(t, o.Agent().IsEqual(agentID))
		assert.True(t, o.OwnedBy(agentID))
		require.NotNil(t, o.ClaimLocation())
		assert.True(t, o.ClaimLocation().IsEqual(agentLoc))
	})

	t.Run("pending_order_is_not_assignable", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			mustLocation(t, 77.58, 12.90),
			mustLocation(t, 77.61, 12.93),
			10, 1,
			now,
		)
		require.NoError(t, err)

		err = o.Assign(kernel.NewUUID(), nil, now)

		require.ErrorIs(t, err, order.ErrIllegalTransition)
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Nil(t, o.Agent())
		assert.Len(t, o.Timeline(), 1)
	})
}

func TestOrder_FullDeliveryRun(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := newReadyOrder(t, now)
	agentID := kernel.NewUUID()

	require.NoError(t, o.Assign(agentID, nil, now.Add(11*time.Minute)))
	require.NoError(t, o.ConfirmPickup(now.Add(20*time.Minute)))

	require.NotNil(t, o.PickedUpAt())
	assert.Equal(t, order.DeliveryStatusPickedUp, o.DeliveryStatus())

	earnings := order.EarningsBreakdown{BaseFee: 3, DistanceBonus: 2.33, TimeBonus: 1, Total: 6.33}
	require.NoError(t, o.ConfirmDelivery(earnings, "left at door", now.Add(40*time.Minute)))

	assert.Equal(t, order.StatusDelivered, o.Status())
	assert.Equal(t, order.DeliveryStatusDelivered, o.DeliveryStatus())
	require.NotNil(t, o.DeliveredAt())
	assert.Equal(t, earnings, o.Earnings())

	timeline := o.Timeline()
	assert.Equal(t, "left at door", timeline[len(timeline)-1].Note)

	// Delivered is terminal.
	require.ErrorIs(t, o.ConfirmPickup(now.Add(time.Hour)), order.ErrIllegalTransition)
	require.ErrorIs(t, o.Cancel(order.RoleSystem, "", now.Add(time.Hour)), order.ErrIllegalTransition)
}

func TestOrder_TimelineMonotonicity(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := newReadyOrder(t, now)

	require.NoError(t, o.Assign(kernel.NewUUID(), nil, now.Add(11*time.Minute)))
	// Clock steps backwards between transitions.
	require.NoError(t, o.ConfirmPickup(now.Add(5*time.Minute)))

	timeline := o.Timeline()
	assert.Len(t, timeline, 6) // pending + 3 restaurant steps + assigned + picked_up
	for i := 1; i < len(timeline); i++ {
		assert.False(t, timeline[i].Timestamp.Before(timeline[i-1].Timestamp),
			"timeline entry %d precedes entry %d", i, i-1)
	}
}

func TestOrder_IllegalTransitionLeavesOrderUntouched(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := newReadyOrder(t, now)

	before := o.Timeline()
	err := o.ConfirmDelivery(order.EarningsBreakdown{}, "", now)

	require.ErrorIs(t, err, order.ErrIllegalTransition)
	assert.Equal(t, order.StatusReadyForPickup, o.Status())
	assert.Equal(t, before, o.Timeline())
	assert.Nil(t, o.DeliveredAt())
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("cancel_before_claim", func(t *testing.T) {
		o := newReadyOrder(t, now)

		require.NoError(t, o.Cancel(order.RoleCustomer, "changed my mind", now.Add(time.Minute)))

		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, order.EarningsBreakdown{}, o.Earnings())
	})

	t.Run("cancel_after_claim_keeps_agent_reference", func(t *testing.T) {
		o := newReadyOrder(t, now)
		agentID := kernel.NewUUID()
		require.NoError(t, o.Assign(agentID, nil, now))

		require.NoError(t, o.Cancel(order.RoleRestaurant, "kitchen closed", now.Add(time.Minute)))

		assert.Equal(t, order.StatusCancelled, o.Status())
		require.NotNil(t, o.Agent())
	})

	t.Run("cancel_after_pickup_re_derives_sub_status", func(t *testing.T) {
		o := newReadyOrder(t, now)
		require.NoError(t, o.Assign(kernel.NewUUID(), nil, now))
		require.NoError(t, o.ConfirmPickup(now.Add(time.Minute)))

		require.NoError(t, o.Cancel(order.RoleCustomer, "", now.Add(2*time.Minute)))

		// The persisted sub-status must match what RestoreOrder derives for a
		// cancelled row, or the reloaded aggregate would disagree with it.
		assert.Equal(t, order.StatusCancelled.DeliverySubStatus(), o.DeliveryStatus())
	})
}

func TestOrder_AdvanceTo(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("dedicated_operations_are_rejected", func(t *testing.T) {
		o := newReadyOrder(t, now)

		for _, to := range []order.Status{
			order.StatusAssigned, order.StatusPickedUp,
			order.StatusDelivered, order.StatusCancelled,
		} {
			require.ErrorIs(t, o.AdvanceTo(to, order.RoleSystem, "", now), order.ErrIllegalTransition, to)
		}
	})

	t.Run("out_for_delivery_updates_sub_status", func(t *testing.T) {
		o := newReadyOrder(t, now)
		require.NoError(t, o.Assign(kernel.NewUUID(), nil, now))
		require.NoError(t, o.ConfirmPickup(now))

		require.NoError(t, o.AdvanceTo(order.StatusOutForDelivery, order.RoleDeliveryPartner, "", now))

		assert.Equal(t, order.DeliveryStatusHeadingToCustomer, o.DeliveryStatus())
	})
}

func TestOrder_AmendTip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	o := newReadyOrder(t, now)

	t.Run("rejected_before_delivery", func(t *testing.T) {
		_, err := o.AmendTip(5)

		require.ErrorIs(t, err, order.ErrTipBeforeDelivery)
	})

	require.NoError(t, o.Assign(kernel.NewUUID(), nil, now))
	require.NoError(t, o.ConfirmPickup(now))
	require.NoError(t, o.ConfirmDelivery(
		order.EarningsBreakdown{BaseFee: 3, DistanceBonus: 2.33, TimeBonus: 1, Total: 6.33}, "", now))

	t.Run("tip_adjusts_total_and_returns_delta", func(t *testing.T) {
		delta, err := o.AmendTip(2.50)

		require.NoError(t, err)
		assert.InDelta(t, 2.50, delta, 1e-9)
		assert.InDelta(t, 2.50, o.Earnings().Tip, 1e-9)
		assert.InDelta(t, 8.83, o.Earnings().Total, 1e-9)

		// Frozen components are untouched.
		assert.InDelta(t, 3, o.Earnings().BaseFee, 1e-9)
		assert.InDelta(t, 2.33, o.Earnings().DistanceBonus, 1e-9)
	})

	t.Run("lowering_the_tip_yields_negative_delta", func(t *testing.T) {
		delta, err := o.AmendTip(1.00)

		require.NoError(t, err)
		assert.InDelta(t, -1.50, delta, 1e-9)
	})

	t.Run("negative_tip_is_rejected", func(t *testing.T) {
		_, err := o.AmendTip(-1)

		require.Error(t, err)
	})
}

func TestRestoreOrder(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	agentID := kernel.NewUUID()

	base := func() order.RestoreOrderParams {
		return order.RestoreOrderParams{
			ID:              kernel.NewUUID(),
			CustomerID:      kernel.NewUUID(),
			RestaurantID:    kernel.NewUUID(),
			PickupLocation:  mustLocation(t, 77.58, 12.90),
			DropoffLocation: mustLocation(t, 77.61, 12.93),
			Status:          order.StatusReadyForPickup,
			OrderTotal:      24.50,
			DeliveryFee:     2.00,
			GrandTotal:      26.50,
			CreatedAt:       now,
		}
	}

	t.Run("restores_consistent_state", func(t *testing.T) {
		p := base()
		p.Status = order.StatusAssigned
		p.AgentID = &agentID

		o, err := order.RestoreOrder(p)

		require.NoError(t, err)
		assert.Equal(t, order.StatusAssigned, o.Status())
		assert.Equal(t, order.DeliveryStatusAssigned, o.DeliveryStatus())
	})

	t.Run("rejects_agent_on_unassigned_order", func(t *testing.T) {
		p := base()
		p.AgentID = &agentID

		_, err := order.RestoreOrder(p)

		require.Error(t, err)
	})

	t.Run("rejects_assigned_order_without_agent", func(t *testing.T) {
		p := base()
		p.Status = order.StatusPickedUp

		_, err := order.RestoreOrder(p)

		require.Error(t, err)
	})
}
