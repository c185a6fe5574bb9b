package vehicle

import (
	"time"

	"github.com/google/uuid"
)

// VehicleType distinguishes power units from trailers
type VehicleType string

const (
	TypeTruck   VehicleType = "truck"
	TypeTrailer VehicleType = "trailer"
)

// VehicleStatus represents the operational status of a vehicle
type VehicleStatus string

const (
	StatusActive       VehicleStatus = "active"
	StatusOutOfService VehicleStatus = "out_of_service"
)

// Vehicle represents a truck or trailer. CurrentDriverID/CurrentDriver2ID
// are the vehicle's "home" seat assignments, distinct from any particular
// load's truck_id/trailer_id; the affinity resolver reads them to auto-fill
// assignments. LastTrailerID tracks the trailer a truck last ran with.
type Vehicle struct {
	ID         uuid.UUID
	Type       VehicleType
	UnitNumber string
	Status     VehicleStatus
	CarrierID  *uuid.UUID

	CurrentDriverID  *uuid.UUID
	CurrentDriver2ID *uuid.UUID
	LastTrailerID    *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignable reports whether the vehicle may be offered as a candidate.
func (v *Vehicle) Assignable() bool {
	return v.Status == StatusActive
}
