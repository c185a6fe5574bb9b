package driver

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus represents the operational status of a driver
type DriverStatus string

const (
	StatusActive       DriverStatus = "active"
	StatusOutOfService DriverStatus = "out_of_service"
)

// Driver represents a driver entity in the domain. A nil CarrierID means the
// driver belongs to the company's own fleet; otherwise the driver may only
// run loads brokered to that carrier.
type Driver struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Phone     *string
	Status    DriverStatus
	CarrierID *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assignable reports whether the driver may be offered as an assignment
// candidate at all.
func (d *Driver) Assignable() bool {
	return d.Status == StatusActive
}

func (d *Driver) FullName() string {
	return d.FirstName + " " + d.LastName
}
