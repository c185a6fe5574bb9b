package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for vehicle lookups used by dispatch.
type Repository interface {
	GetByID(ctx context.Context, vehicleID uuid.UUID) (*Vehicle, error)

	// GetTruckByCurrentDriver returns the truck whose home seat is the given
	// driver, or nil when the driver has none.
	GetTruckByCurrentDriver(ctx context.Context, driverID uuid.UUID) (*Vehicle, error)

	// ListAssignable returns active vehicles of the given type in the given
	// carrier pool. A nil carrierID selects the own fleet.
	ListAssignable(ctx context.Context, vtype VehicleType, carrierID *uuid.UUID) ([]*Vehicle, error)
}
