package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-dispatch/internal/domain/vehicle"
)

func TestResolveForDriver(t *testing.T) {
	ctx := context.Background()
	driverID := uuid.New()
	teamID := uuid.New()

	homeTruck := func(lastTrailerID *uuid.UUID) *vehicle.Vehicle {
		return &vehicle.Vehicle{
			ID:               uuid.New(),
			Type:             vehicle.TypeTruck,
			UnitNumber:       "T-51",
			Status:           vehicle.StatusActive,
			CurrentDriverID:  &driverID,
			CurrentDriver2ID: &teamID,
			LastTrailerID:    lastTrailerID,
		}
	}

	t.Run("resolves truck, trailer and team partner", func(t *testing.T) {
		trailer := &vehicle.Vehicle{
			ID:         uuid.New(),
			Type:       vehicle.TypeTrailer,
			UnitNumber: "TR-9",
			Status:     vehicle.StatusActive,
		}
		truck := homeTruck(&trailer.ID)
		resolver := NewAffinityResolver(newFakeVehicleRepo(truck, trailer))

		affinity, err := resolver.ResolveForDriver(ctx, driverID)
		require.NoError(t, err)
		require.NotNil(t, affinity.Truck)
		assert.Equal(t, truck.ID, affinity.Truck.ID)
		require.NotNil(t, affinity.SuggestedTrailer)
		assert.Equal(t, trailer.ID, affinity.SuggestedTrailer.ID)
		require.NotNil(t, affinity.TeamDriverID)
		assert.Equal(t, teamID, *affinity.TeamDriverID)
	})

	t.Run("no home truck yields no suggestions", func(t *testing.T) {
		resolver := NewAffinityResolver(newFakeVehicleRepo())

		affinity, err := resolver.ResolveForDriver(ctx, driverID)
		require.NoError(t, err)
		assert.Nil(t, affinity.Truck)
		assert.Nil(t, affinity.SuggestedTrailer)
		assert.Nil(t, affinity.TeamDriverID)
	})

	t.Run("dangling trailer reference drops only the trailer", func(t *testing.T) {
		missing := uuid.New()
		truck := homeTruck(&missing)
		resolver := NewAffinityResolver(newFakeVehicleRepo(truck))

		affinity, err := resolver.ResolveForDriver(ctx, driverID)
		require.NoError(t, err)
		require.NotNil(t, affinity.Truck)
		assert.Nil(t, affinity.SuggestedTrailer)
	})

	t.Run("trailer lookup failure propagates", func(t *testing.T) {
		trailerID := uuid.New()
		truck := homeTruck(&trailerID)
		repo := newFakeVehicleRepo(truck)
		repo.getErr = errors.New("connection reset")
		resolver := NewAffinityResolver(repo)

		_, err := resolver.ResolveForDriver(ctx, driverID)
		require.Error(t, err)
		assert.ErrorContains(t, err, "connection reset")
	})
}
