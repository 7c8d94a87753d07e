package queries

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Offsets in degrees of latitude for test distances; one degree of latitude
// is ~111.195 km everywhere.
const degreesPerKm = 1.0 / 111.195

func candidateAt(t *testing.T, origin kernel.Location, kmNorth float64, createdAt time.Time) FindAvailableOrdersQueryResponse {
	t.Helper()

	pickup, err := kernel.NewLocation(origin.Longitude(), origin.Latitude()+kmNorth*degreesPerKm)
	require.NoError(t, err)

	return FindAvailableOrdersQueryResponse{
		ID:             kernel.NewUUID(),
		PickupLocation: pickup,
		DistanceMeters: origin.DistanceMeters(pickup),
		CreatedAt:      createdAt,
	}
}

func TestRankByProximity(t *testing.T) {
	origin, err := kernel.NewLocation(77.59, 12.91)
	require.NoError(t, err)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	near := candidateAt(t, origin, 0.5, now)
	mid := candidateAt(t, origin, 1.0, now)
	far := candidateAt(t, origin, 3.0, now)
	outside := candidateAt(t, origin, 9.0, now)

	// Deliberately shuffled input.
	ranked := rankByProximity(
		[]FindAvailableOrdersQueryResponse{far, outside, near, mid},
		5000,
	)

	require.Len(t, ranked, 3)
	assert.Equal(t, near.ID, ranked[0].ID)
	assert.Equal(t, mid.ID, ranked[1].ID)
	assert.Equal(t, far.ID, ranked[2].ID)

	t.Run("created_at_breaks_distance_ties", func(t *testing.T) {
		older := candidateAt(t, origin, 2.0, now.Add(-time.Hour))
		newer := candidateAt(t, origin, 2.0, now)

		ranked := rankByProximity(
			[]FindAvailableOrdersQueryResponse{newer, older},
			5000,
		)

		require.Len(t, ranked, 2)
		assert.Equal(t, older.ID, ranked[0].ID)
		assert.Equal(t, newer.ID, ranked[1].ID)
	})
}

func TestBoundingBox(t *testing.T) {
	origin, err := kernel.NewLocation(77.59, 12.91)
	require.NoError(t, err)

	box := boundingBox(origin, 5000)

	// ~0.045 degrees of latitude either side.
	assert.InDelta(t, 12.865, box.minLat, 0.001)
	assert.InDelta(t, 12.955, box.maxLat, 0.001)
	// Longitude span is wider than latitude span away from the equator.
	assert.Greater(t, box.maxLng-box.minLng, box.maxLat-box.minLat)

	t.Run("clamped_at_the_antimeridian", func(t *testing.T) {
		edge, err := kernel.NewLocation(179.99, 0)
		require.NoError(t, err)

		box := boundingBox(edge, 50000)

		assert.LessOrEqual(t, box.maxLng, 180.0)
		assert.GreaterOrEqual(t, box.minLng, -180.0)
	})
}
