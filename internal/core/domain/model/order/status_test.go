package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.StatusPending,
		order.StatusConfirmed,
		order.StatusPreparing,
		order.StatusReadyForPickup,
		order.StatusAssigned,
		order.StatusPickedUp,
		order.StatusOutForDelivery,
		order.StatusDelivered,
		order.StatusCancelled,
		order.StatusRefunded,
	}
}

func TestStatus_Validate(t *testing.T) {
	for _, s := range allStatuses() {
		require.NoError(t, s.Validate(), s)
	}

	require.ErrorIs(t, order.StatusUnknown.Validate(), errs.ErrValueIsInvalid)
	require.ErrorIs(t, order.Status("shipped").Validate(), errs.ErrValueIsInvalid)
}

func TestStatus_TransitionTable(t *testing.T) {
	legal := map[order.Status][]order.Status{
		order.StatusPending:        {order.StatusConfirmed},
		order.StatusConfirmed:      {order.StatusPreparing},
		order.StatusPreparing:      {order.StatusReadyForPickup},
		order.StatusReadyForPickup: {order.StatusAssigned},
		order.StatusAssigned:       {order.StatusPickedUp},
		order.StatusPickedUp:       {order.StatusOutForDelivery, order.StatusDelivered},
		order.StatusOutForDelivery: {order.StatusDelivered},
	}

	isLegal := func(from, to order.Status) bool {
		if (to == order.StatusCancelled || to == order.StatusRefunded) && !from.IsTerminal() {
			return true
		}
		for _, next := range legal[from] {
			if next == to {
				return true
			}
		}
		return false
	}

	// Exhaustive sweep: every pair not in the table must be rejected and
	// every pair in the table accepted.
	for _, from := range allStatuses() {
		for _, to := range allStatuses() {
			got, err := from.TransitionTo(to)
			if isLegal(from, to) {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, got)
			} else {
				require.ErrorIs(t, err, order.ErrIllegalTransition, "%s -> %s", from, to)
				assert.Equal(t, order.StatusUnknown, got)
			}
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := map[order.Status]bool{
		order.StatusDelivered: true,
		order.StatusCancelled: true,
		order.StatusRefunded:  true,
	}

	for _, s := range allStatuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s)
	}
}

func TestStatus_DeliverySubStatus(t *testing.T) {
	cases := map[order.Status]order.DeliveryStatus{
		order.StatusPending:        order.DeliveryStatusNotAssigned,
		order.StatusReadyForPickup: order.DeliveryStatusNotAssigned,
		order.StatusAssigned:       order.DeliveryStatusAssigned,
		order.StatusPickedUp:       order.DeliveryStatusPickedUp,
		order.StatusOutForDelivery: order.DeliveryStatusHeadingToCustomer,
		order.StatusDelivered:      order.DeliveryStatusDelivered,
	}

	for status, want := range cases {
		assert.Equal(t, want, status.DeliverySubStatus(), status)
	}
}

func TestStatus_ValidateCanHaveAgent(t *testing.T) {
	t.Run("pre_assignment_statuses_reject_agent", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusPending, order.StatusConfirmed,
			order.StatusPreparing, order.StatusReadyForPickup,
		} {
			require.NoError(t, s.ValidateCanHaveAgent(false), s)
			require.Error(t, s.ValidateCanHaveAgent(true), s)
		}
	})

	t.Run("post_assignment_statuses_require_agent", func(t *testing.T) {
		for _, s := range []order.Status{
			order.StatusAssigned, order.StatusPickedUp,
			order.StatusOutForDelivery, order.StatusDelivered,
		} {
			require.NoError(t, s.ValidateCanHaveAgent(true), s)
			require.Error(t, s.ValidateCanHaveAgent(false), s)
		}
	})

	t.Run("cancellation_branch_allows_either", func(t *testing.T) {
		for _, s := range []order.Status{order.StatusCancelled, order.StatusRefunded} {
			require.NoError(t, s.ValidateCanHaveAgent(true), s)
			require.NoError(t, s.ValidateCanHaveAgent(false), s)
		}
	})
}

func TestActorRole_Validate(t *testing.T) {
	for _, r := range []order.ActorRole{
		order.RoleCustomer, order.RoleRestaurant, order.RoleDeliveryPartner, order.RoleSystem,
	} {
		require.NoError(t, r.Validate())
	}

	require.ErrorIs(t, order.ActorRole("admin").Validate(), errs.ErrValueIsInvalid)
}
