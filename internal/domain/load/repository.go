package load

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AssignmentGuard re-validates driver availability inside the commit's
// serialization boundary. The caller's availability check runs on a
// snapshot; a rival booking can land between that check and the write, so
// the repository locks the driver rows and re-checks overlap against every
// load referencing them before applying the update.
type AssignmentGuard struct {
	DriverIDs  []uuid.UUID
	RangeStart time.Time
	RangeEnd   time.Time
}

// Blocks reports whether the load occupies the guard window. Loads without
// a complete window cannot be checked and never block.
func (g *AssignmentGuard) Blocks(l *Load) bool {
	start, end := l.EffectiveRange()
	if start == nil || end == nil {
		return false
	}
	return RangesOverlap(*start, *end, g.RangeStart, g.RangeEnd)
}

// Repository defines the interface for load persistence.
//
// CommitAssignment and CommitTransition are the atomicity boundaries the
// dispatch engine relies on: each applies its whole field set in a single
// transaction guarded by the load's version. When a guard is given,
// CommitAssignment locks the driver rows themselves and re-checks their
// availability inside the same transaction, so a rival booking that landed
// after the caller's check fails the commit with ErrStaleLoad instead of
// double-booking the driver. A version mismatch also surfaces as
// ErrStaleLoad.
type Repository interface {
	Create(ctx context.Context, l *Load) error
	GetByID(ctx context.Context, loadID uuid.UUID) (*Load, error)
	List(ctx context.Context, filter *Filter) ([]*Load, int64, error)
	CountByStatus(ctx context.Context) (map[LoadStatus]int64, error)

	// ListActiveByResource returns all non-cancelled loads whose matching
	// assignment slot references the resource, stops included, optionally
	// excluding one load id.
	ListActiveByResource(ctx context.Context, kind ResourceKind, resourceID uuid.UUID, excludeLoadID *uuid.UUID) ([]*Load, error)

	CommitAssignment(ctx context.Context, loadID uuid.UUID, version int, updates map[string]interface{}, guard *AssignmentGuard) error
	CommitTransition(ctx context.Context, loadID uuid.UUID, version int, status LoadStatus, updates map[string]interface{}) error

	AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) error
	AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) error
}

// Filter represents filtering options for listing loads on the board
type Filter struct {
	Status     *LoadStatus
	CustomerID *uuid.UUID
	DriverID   *uuid.UUID
	CarrierID  *uuid.UUID

	// Date window on the first stop's appointment start
	PickupAfter  *time.Time
	PickupBefore *time.Time

	Search string

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
