package driver

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for driver lookups used by dispatch.
type Repository interface {
	GetByID(ctx context.Context, driverID uuid.UUID) (*Driver, error)

	// ListAssignable returns active drivers in the given carrier pool.
	// A nil carrierID selects the own fleet (drivers with no carrier).
	ListAssignable(ctx context.Context, carrierID *uuid.UUID) ([]*Driver, error)
}
