package dispatch

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"freight-dispatch/internal/domain/load"
)

// ConflictingLoad carries enough of an overlapping load to render the
// conflict to a dispatcher.
type ConflictingLoad struct {
	LoadID          uuid.UUID       `json:"load_id"`
	ReferenceNumber string          `json:"reference_number"`
	Status          load.LoadStatus `json:"status"`
	PickupSummary   string          `json:"pickup_summary"`
	DeliverySummary string          `json:"delivery_summary"`
	RangeStart      time.Time       `json:"range_start"`
	RangeEnd        time.Time       `json:"range_end"`
}

// ConflictError reports availability overlap for an assignment candidate.
// It is advisory and recoverable: the dispatcher may override, unlike a
// validation error.
type ConflictError struct {
	Kind       load.ResourceKind
	ResourceID uuid.UUID
	Conflicts  []ConflictingLoad
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s is already committed to %d overlapping load(s)",
		e.Kind, e.ResourceID, len(e.Conflicts))
}

// AssignmentResult reports a committed assignment: the refreshed load, the
// field the caller explicitly set, and any fields auto-filled from the
// candidate's conventional associations.
type AssignmentResult struct {
	Load       *load.Load
	Assigned   string
	AutoFilled []string
	NoOp       bool
}

// DriverAffinity holds the advisory suggestions for a driver: the home
// truck, the trailer that truck last ran with, and the team partner seated
// with it. None of these is ever written over a populated load field.
type DriverAffinity struct {
	Truck            *VehicleRef
	SuggestedTrailer *VehicleRef
	TeamDriverID     *uuid.UUID
}

// VehicleRef is the slice of a vehicle the assignment merge needs.
type VehicleRef struct {
	ID        uuid.UUID
	CarrierID *uuid.UUID
}
