package carrier

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrCarrierNotFound = errors.New("carrier not found")

// Repository defines the interface for carrier lookups.
type Repository interface {
	GetByID(ctx context.Context, carrierID uuid.UUID) (*Carrier, error)
	List(ctx context.Context) ([]*Carrier, error)
}
