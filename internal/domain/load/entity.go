package load

import (
	"time"

	"github.com/google/uuid"
)

// LoadStatus represents where a load sits in its dispatch lifecycle
type LoadStatus string

const (
	StatusOpen         LoadStatus = "open"           // Newly created, nothing committed
	StatusScheduled    LoadStatus = "scheduled"      // Driver/equipment booked
	StatusInPickupYard LoadStatus = "in_pickup_yard" // Truck waiting at shipper
	StatusInTransit    LoadStatus = "in_transit"     // Rolling
	StatusCompleted    LoadStatus = "completed"      // Delivered, awaiting invoicing
	StatusTonu         LoadStatus = "tonu"           // Truck ordered, not used
	StatusCancelled    LoadStatus = "cancelled"      // Cancelled before execution
	StatusInvoiced     LoadStatus = "invoiced"       // Set by the invoicing collaborator
	StatusBrokered     LoadStatus = "brokered"       // Subcontracted to an outside carrier
)

// RateType describes how the customer rate is quoted
type RateType string

const (
	RateFlat    RateType = "flat"
	RatePerMile RateType = "per_mile"
)

// StopType distinguishes pickup and delivery waypoints
type StopType string

const (
	StopPickup   StopType = "pickup"
	StopDelivery StopType = "delivery"
)

// ResourceKind identifies which assignment slot a resource occupies on a load
type ResourceKind string

const (
	KindDriver  ResourceKind = "driver"
	KindTruck   ResourceKind = "truck"
	KindTrailer ResourceKind = "trailer"
)

// Stop is a pickup or delivery waypoint belonging to exactly one load.
// Appointment bounds are nullable: a booked load may have no firm schedule yet.
type Stop struct {
	ID       uuid.UUID
	LoadID   uuid.UUID
	Sequence int
	StopType StopType

	AppointmentStart *time.Time
	AppointmentEnd   *time.Time

	LocationName string
	Address      string
	City         string
	State        string
	PostalCode   string
	Notes        *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Load represents a single freight movement in the domain
type Load struct {
	ID              uuid.UUID
	ReferenceNumber string
	CustomerID      uuid.UUID

	Status LoadStatus

	// Assignment slots. All nullable shared references; a load never owns
	// its driver or equipment.
	DriverID  *uuid.UUID
	Driver2ID *uuid.UUID
	TruckID   *uuid.UUID
	TrailerID *uuid.UUID

	// Present only when brokered to an outside carrier.
	CarrierID   *uuid.UUID
	CarrierRate *float64

	RateAmount *float64
	RateType   RateType

	// Attached by the invoicing/settlement collaborators; read here only to
	// decide whether manual transitions remain permitted.
	InvoiceID    *uuid.UUID
	SettlementID *uuid.UUID

	// Ordered by Sequence, first stop conventionally the pickup window
	// start, last stop the delivery window end.
	Stops []Stop

	// Optimistic concurrency token bumped on every committed write.
	Version int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBrokered reports whether the load is subcontracted to an outside carrier.
func (l *Load) IsBrokered() bool {
	return l.CarrierID != nil
}

// LockedByInvoice reports whether the invoicing collaborator has attached an
// invoice; locked loads accept no manual status transitions.
func (l *Load) LockedByInvoice() bool {
	return l.InvoiceID != nil
}

// FirstStop returns the first stop in sequence order, or nil.
func (l *Load) FirstStop() *Stop {
	if len(l.Stops) == 0 {
		return nil
	}
	return &l.Stops[0]
}

// LastStop returns the last stop in sequence order, or nil.
func (l *Load) LastStop() *Stop {
	if len(l.Stops) == 0 {
		return nil
	}
	return &l.Stops[len(l.Stops)-1]
}

// EffectiveRange returns the load's availability window: the first stop's
// appointment start through the last stop's appointment end. Either bound
// may be nil; callers skip availability checking when one is missing.
func (l *Load) EffectiveRange() (start, end *time.Time) {
	first := l.FirstStop()
	last := l.LastStop()
	if first == nil || last == nil {
		return nil, nil
	}
	return first.AppointmentStart, last.AppointmentEnd
}

// HasCompleteRange reports whether both availability bounds are present.
func (l *Load) HasCompleteRange() bool {
	start, end := l.EffectiveRange()
	return start != nil && end != nil
}

// RangesOverlap reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) overlap. Touching endpoints do not overlap.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// References reports whether the given resource occupies the matching
// assignment slot on this load. Drivers match either seat.
func (l *Load) References(kind ResourceKind, resourceID uuid.UUID) bool {
	eq := func(ref *uuid.UUID) bool { return ref != nil && *ref == resourceID }
	switch kind {
	case KindDriver:
		return eq(l.DriverID) || eq(l.Driver2ID)
	case KindTruck:
		return eq(l.TruckID)
	case KindTrailer:
		return eq(l.TrailerID)
	}
	return false
}
