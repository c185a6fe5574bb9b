package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"freight-dispatch/internal/domain/vehicle"
)

// AffinityResolver proposes the vehicles and team partner conventionally
// associated with a driver, for auto-filling empty assignment fields.
type AffinityResolver struct {
	vehicleRepo vehicle.Repository
}

func NewAffinityResolver(vehicleRepo vehicle.Repository) *AffinityResolver {
	return &AffinityResolver{vehicleRepo: vehicleRepo}
}

// ResolveForDriver looks up the truck whose home seat is the driver, the
// trailer that truck last ran with, and the truck's second seat as a team
// partner suggestion. All three are advisory only.
func (r *AffinityResolver) ResolveForDriver(ctx context.Context, driverID uuid.UUID) (*DriverAffinity, error) {
	affinity := &DriverAffinity{}

	truck, err := r.vehicleRepo.GetTruckByCurrentDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home truck for driver %s: %w", driverID, err)
	}
	if truck == nil || !truck.Assignable() {
		return affinity, nil
	}

	affinity.Truck = &VehicleRef{ID: truck.ID, CarrierID: truck.CarrierID}

	if truck.LastTrailerID != nil {
		trailer, err := r.vehicleRepo.GetByID(ctx, *truck.LastTrailerID)
		switch {
		case errors.Is(err, vehicle.ErrVehicleNotFound):
			// A dangling last-trailer reference just means no suggestion.
		case err != nil:
			return nil, fmt.Errorf("failed to resolve last trailer for truck %s: %w", truck.ID, err)
		case trailer != nil && trailer.Type == vehicle.TypeTrailer && trailer.Assignable():
			affinity.SuggestedTrailer = &VehicleRef{ID: trailer.ID, CarrierID: trailer.CarrierID}
		}
	}

	if truck.CurrentDriver2ID != nil && *truck.CurrentDriver2ID != driverID {
		teamID := *truck.CurrentDriver2ID
		affinity.TeamDriverID = &teamID
	}

	return affinity, nil
}
