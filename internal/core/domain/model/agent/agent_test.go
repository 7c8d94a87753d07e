package agent_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/agent"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAgent(t *testing.T, at time.Time) *agent.Agent {
	t.Helper()
	a, err := agent.NewAgent(kernel.NewUUID(), at)
	require.NoError(t, err)
	return a
}

func TestNewAgent(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := newAgent(t, now)

	require.NoError(t, a.Validate())
	assert.False(t, a.IsAvailable())
	assert.Nil(t, a.Location())
	assert.Equal(t, now, a.LastActiveAt())
	assert.Zero(t, a.Ledger().Lifetime)

	var zero agent.Agent
	require.ErrorIs(t, zero.Validate(), agent.ErrAgentIsNotConstructed)
}

func TestAgent_ReportLocation(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("accepts_fresh_report", func(t *testing.T) {
		a := newAgent(t, now)
		loc, err := kernel.NewLocation(77.59, 12.91)
		require.NoError(t, err)

		applied, err := a.ReportLocation(loc, now.Add(time.Minute))

		require.NoError(t, err)
		assert.True(t, applied)
		require.NotNil(t, a.Location())
		assert.True(t, a.Location().IsEqual(loc))
		assert.Equal(t, now.Add(time.Minute), a.LastActiveAt())
	})

	t.Run("discards_stale_report", func(t *testing.T) {
		a := newAgent(t, now)
		fresh, err := kernel.NewLocation(77.59, 12.91)
		require.NoError(t, err)
		stale, err := kernel.NewLocation(70.00, 10.00)
		require.NoError(t, err)

		_, err = a.ReportLocation(fresh, now.Add(2*time.Minute))
		require.NoError(t, err)

		// A report delayed by the transport arrives with an older timestamp.
		applied, err := a.ReportLocation(stale, now.Add(time.Minute))

		require.NoError(t, err)
		assert.False(t, applied)
		assert.True(t, a.Location().IsEqual(fresh))
		assert.Equal(t, now.Add(2*time.Minute), a.LastActiveAt())
	})
}

func TestAgent_EarningsAndStats(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := newAgent(t, now)

	a.RecordClaim()
	require.NoError(t, a.RecordCompletion(6.33))

	assert.Equal(t, 1, a.Stats().TotalDeliveries)
	assert.Equal(t, 1, a.Stats().CompletedDeliveries)
	assert.InDelta(t, 6.33, a.Ledger().Lifetime, 1e-9)
	assert.InDelta(t, 6.33, a.Ledger().Day, 1e-9)
	assert.InDelta(t, 6.33, a.Ledger().Week, 1e-9)
	assert.InDelta(t, 6.33, a.Ledger().Month, 1e-9)

	t.Run("negative_completion_is_rejected", func(t *testing.T) {
		require.Error(t, a.RecordCompletion(-1))
	})

	t.Run("cancellation_counter", func(t *testing.T) {
		a.RecordCancellation()
		assert.Equal(t, 1, a.Stats().CancelledDeliveries)
	})

	t.Run("tip_delta_credits_ledger", func(t *testing.T) {
		a.CreditEarnings(2.50)
		assert.InDelta(t, 8.83, a.Ledger().Lifetime, 1e-9)
	})

	t.Run("ledger_clamps_at_zero", func(t *testing.T) {
		a.CreditEarnings(-100)
		assert.Zero(t, a.Ledger().Lifetime)
		assert.Zero(t, a.Ledger().Day)
	})
}

func TestAgent_Rating(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := newAgent(t, now)

	assert.Zero(t, a.AverageRating())

	require.NoError(t, a.AddRating(5))
	require.NoError(t, a.AddRating(4))

	assert.InDelta(t, 4.5, a.AverageRating(), 1e-9)
	assert.Equal(t, 2, a.Stats().RatingCount)

	require.Error(t, a.AddRating(0))
	require.Error(t, a.AddRating(6))
}

func TestAgent_SetAvailability(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	a := newAgent(t, now)

	a.SetAvailability(true, now.Add(time.Minute))

	assert.True(t, a.IsAvailable())
	assert.Equal(t, now.Add(time.Minute), a.LastActiveAt())

	a.SetAvailability(false, now) // older timestamp must not move lastActiveAt back
	assert.False(t, a.IsAvailable())
	assert.Equal(t, now.Add(time.Minute), a.LastActiveAt())
}

func TestRestoreAgent(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	loc, err := kernel.NewLocation(77.59, 12.91)
	require.NoError(t, err)

	a, err := agent.RestoreAgent(agent.RestoreAgentParams{
		ID:           kernel.NewUUID(),
		Available:    true,
		Location:     &loc,
		LastActiveAt: now,
		Ledger:       agent.EarningsLedger{Lifetime: 120.5, Day: 12.25, Week: 40, Month: 120.5},
		Stats:        agent.Stats{TotalDeliveries: 20, CompletedDeliveries: 18, CancelledDeliveries: 2, RatingSum: 81, RatingCount: 18},
	})

	require.NoError(t, err)
	assert.True(t, a.IsAvailable())
	assert.InDelta(t, 4.5, a.AverageRating(), 1e-9)

	t.Run("invalid_id_is_rejected", func(t *testing.T) {
		_, err := agent.RestoreAgent(agent.RestoreAgentParams{})
		require.Error(t, err)
	})
}
