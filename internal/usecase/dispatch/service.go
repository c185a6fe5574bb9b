package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"freight-dispatch/internal/domain/carrier"
	"freight-dispatch/internal/domain/driver"
	"freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/domain/vehicle"
	"freight-dispatch/internal/logger"
	appErrors "freight-dispatch/pkg/errors"
)

// Storage conflicts are transient; retry the whole operation from the
// re-read before surfacing.
const maxCommitRetries = 3

// Service implements the dispatch assignment use cases. Both entry
// sequences, driver-first and truck-first, converge on one merge-and-commit
// primitive: the authoritative field is always written, advisory fields are
// filled only when the load's existing value is empty, and the whole field
// set commits atomically or not at all.
type Service struct {
	loadRepo    load.Repository
	driverRepo  driver.Repository
	vehicleRepo vehicle.Repository
	carrierRepo carrier.Repository
	conflicts   *ConflictDetector
	affinity    *AffinityResolver
}

func NewService(
	loadRepo load.Repository,
	driverRepo driver.Repository,
	vehicleRepo vehicle.Repository,
	carrierRepo carrier.Repository,
) *Service {
	return &Service{
		loadRepo:    loadRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		carrierRepo: carrierRepo,
		conflicts:   NewConflictDetector(loadRepo),
		affinity:    NewAffinityResolver(vehicleRepo),
	}
}

// AssignDriverFirst assigns (or clears) the primary driver on a load,
// checking availability and auto-filling truck, trailer and team driver
// from the candidate's conventional associations.
func (s *Service) AssignDriverFirst(ctx context.Context, loadID uuid.UUID, driverID *uuid.UUID) (*AssignmentResult, error) {
	return s.withRetry(ctx, func(ctx context.Context) (*AssignmentResult, error) {
		return s.assignDriver(ctx, loadID, driverID)
	})
}

func (s *Service) assignDriver(ctx context.Context, loadID uuid.UUID, driverID *uuid.UUID) (*AssignmentResult, error) {
	l, err := s.getLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}

	// Unassign: clear the driver field only, no conflict check.
	if driverID == nil {
		if l.DriverID == nil {
			return &AssignmentResult{Load: l, Assigned: "driver_id", NoOp: true}, nil
		}
		return s.commit(ctx, l, "driver_id", map[string]interface{}{"driver_id": nil}, nil, nil)
	}

	// Assigning the driver already on the load is a no-op: no conflict
	// check, no write.
	if l.DriverID != nil && *l.DriverID == *driverID {
		return &AssignmentResult{Load: l, Assigned: "driver_id", NoOp: true}, nil
	}

	if l.Driver2ID != nil && *l.Driver2ID == *driverID {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"driver already occupies the team seat on this load", nil)
	}

	d, err := s.driverRepo.GetByID(ctx, *driverID)
	if err != nil {
		if errors.Is(err, driver.ErrDriverNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "driver not found", err)
		}
		return nil, fmt.Errorf("failed to load driver: %w", err)
	}
	if !d.Assignable() {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"driver is out of service", driver.ErrDriverOutOfService)
	}
	if !poolMatches(d.CarrierID, l.CarrierID) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"driver does not belong to the load's carrier pool", nil)
	}

	// Availability is best-effort: loads without a complete window skip the
	// check entirely. This check runs on a snapshot; the commit re-checks
	// inside the storage serialization boundary.
	start, end := l.EffectiveRange()
	scheduled := start != nil && end != nil

	if scheduled {
		conflicts, err := s.conflicts.FindConflicts(ctx, load.KindDriver, *driverID, *start, *end, &l.ID)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			return nil, &ConflictError{Kind: load.KindDriver, ResourceID: *driverID, Conflicts: conflicts}
		}
	}

	affinity, err := s.affinity.ResolveForDriver(ctx, *driverID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"driver_id": *driverID}
	var autoFilled []string

	if l.TruckID == nil && affinity.Truck != nil && poolMatches(affinity.Truck.CarrierID, l.CarrierID) {
		updates["truck_id"] = affinity.Truck.ID
		autoFilled = append(autoFilled, "truck_id")
	}
	if l.TrailerID == nil && affinity.SuggestedTrailer != nil && poolMatches(affinity.SuggestedTrailer.CarrierID, l.CarrierID) {
		updates["trailer_id"] = affinity.SuggestedTrailer.ID
		autoFilled = append(autoFilled, "trailer_id")
	}
	if l.Driver2ID == nil && affinity.TeamDriverID != nil && *affinity.TeamDriverID != *driverID {
		// The team seat is advisory: a busy partner drops the suggestion
		// instead of failing the assignment.
		seatPartner := true
		if scheduled {
			partnerConflicts, err := s.conflicts.FindConflicts(ctx, load.KindDriver, *affinity.TeamDriverID, *start, *end, &l.ID)
			if err != nil {
				return nil, err
			}
			seatPartner = len(partnerConflicts) == 0
		}
		if seatPartner {
			updates["driver2_id"] = *affinity.TeamDriverID
			autoFilled = append(autoFilled, "driver2_id")
		}
	}

	var guard *load.AssignmentGuard
	if scheduled {
		guard = &load.AssignmentGuard{
			DriverIDs:  []uuid.UUID{*driverID},
			RangeStart: *start,
			RangeEnd:   *end,
		}
		if teamID, ok := updates["driver2_id"].(uuid.UUID); ok {
			guard.DriverIDs = append(guard.DriverIDs, teamID)
		}
	}

	return s.commit(ctx, l, "driver_id", updates, autoFilled, guard)
}

// AssignTruckFirst assigns (or clears) the truck on a load and auto-fills
// the driver seats from the truck's home assignments. No conflict check is
// performed in this path; availability is rechecked only when a driver
// field changes downstream.
func (s *Service) AssignTruckFirst(ctx context.Context, loadID uuid.UUID, truckID *uuid.UUID) (*AssignmentResult, error) {
	return s.withRetry(ctx, func(ctx context.Context) (*AssignmentResult, error) {
		return s.assignTruck(ctx, loadID, truckID)
	})
}

func (s *Service) assignTruck(ctx context.Context, loadID uuid.UUID, truckID *uuid.UUID) (*AssignmentResult, error) {
	l, err := s.getLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}

	if truckID == nil {
		if l.TruckID == nil {
			return &AssignmentResult{Load: l, Assigned: "truck_id", NoOp: true}, nil
		}
		return s.commit(ctx, l, "truck_id", map[string]interface{}{"truck_id": nil}, nil, nil)
	}

	if l.TruckID != nil && *l.TruckID == *truckID {
		return &AssignmentResult{Load: l, Assigned: "truck_id", NoOp: true}, nil
	}

	truck, err := s.getVehicle(ctx, *truckID, vehicle.TypeTruck)
	if err != nil {
		return nil, err
	}
	if !poolMatches(truck.CarrierID, l.CarrierID) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"truck does not belong to the load's carrier pool", nil)
	}

	updates := map[string]interface{}{"truck_id": truck.ID}
	var autoFilled []string

	if l.DriverID == nil && truck.CurrentDriverID != nil {
		updates["driver_id"] = *truck.CurrentDriverID
		autoFilled = append(autoFilled, "driver_id")
	}
	if l.Driver2ID == nil && truck.CurrentDriver2ID != nil {
		// Never seat the same driver twice.
		primary := l.DriverID
		if id, ok := updates["driver_id"].(uuid.UUID); ok {
			primary = &id
		}
		if primary == nil || *primary != *truck.CurrentDriver2ID {
			updates["driver2_id"] = *truck.CurrentDriver2ID
			autoFilled = append(autoFilled, "driver2_id")
		}
	}

	return s.commit(ctx, l, "truck_id", updates, autoFilled, nil)
}

// AssignTrailer assigns (or clears) the trailer on a load.
func (s *Service) AssignTrailer(ctx context.Context, loadID uuid.UUID, trailerID *uuid.UUID) (*AssignmentResult, error) {
	return s.withRetry(ctx, func(ctx context.Context) (*AssignmentResult, error) {
		l, err := s.getLoad(ctx, loadID)
		if err != nil {
			return nil, err
		}

		if trailerID == nil {
			if l.TrailerID == nil {
				return &AssignmentResult{Load: l, Assigned: "trailer_id", NoOp: true}, nil
			}
			return s.commit(ctx, l, "trailer_id", map[string]interface{}{"trailer_id": nil}, nil, nil)
		}

		if l.TrailerID != nil && *l.TrailerID == *trailerID {
			return &AssignmentResult{Load: l, Assigned: "trailer_id", NoOp: true}, nil
		}

		trailer, err := s.getVehicle(ctx, *trailerID, vehicle.TypeTrailer)
		if err != nil {
			return nil, err
		}
		if !poolMatches(trailer.CarrierID, l.CarrierID) {
			return nil, appErrors.NewAppError(appErrors.CodeValidation,
				"trailer does not belong to the load's carrier pool", nil)
		}

		return s.commit(ctx, l, "trailer_id", map[string]interface{}{"trailer_id": trailer.ID}, nil, nil)
	})
}

// ChangeCarrier rebrokers a load to a different carrier (or back to the own
// fleet with a nil id). Stale assignments from the previous pool are never
// allowed to persist, so all four assignment fields clear in the same
// atomic write.
func (s *Service) ChangeCarrier(ctx context.Context, loadID uuid.UUID, carrierID *uuid.UUID) (*AssignmentResult, error) {
	return s.withRetry(ctx, func(ctx context.Context) (*AssignmentResult, error) {
		l, err := s.getLoad(ctx, loadID)
		if err != nil {
			return nil, err
		}

		if equalRef(l.CarrierID, carrierID) {
			return &AssignmentResult{Load: l, Assigned: "carrier_id", NoOp: true}, nil
		}

		if carrierID != nil {
			if _, err := s.carrierRepo.GetByID(ctx, *carrierID); err != nil {
				if errors.Is(err, carrier.ErrCarrierNotFound) {
					return nil, appErrors.NewAppError(appErrors.CodeNotFound, "carrier not found", err)
				}
				return nil, fmt.Errorf("failed to load carrier: %w", err)
			}
		}

		updates := map[string]interface{}{
			"carrier_id": carrierID,
			"driver_id":  nil,
			"driver2_id": nil,
			"truck_id":   nil,
			"trailer_id": nil,
		}
		if carrierID == nil {
			updates["carrier_rate"] = nil
		}

		return s.commit(ctx, l, "carrier_id", updates, nil, nil)
	})
}

// FindConflicts previews availability for a candidate resource over an
// explicit window, for the UI's conflict warning.
func (s *Service) FindConflicts(
	ctx context.Context,
	kind load.ResourceKind,
	resourceID uuid.UUID,
	rangeStart, rangeEnd time.Time,
	excludeLoadID *uuid.UUID,
) ([]ConflictingLoad, error) {
	if !rangeStart.Before(rangeEnd) {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"range start must precede range end", nil)
	}
	switch kind {
	case load.KindDriver, load.KindTruck, load.KindTrailer:
	default:
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			fmt.Sprintf("unknown resource kind: %s", kind), nil)
	}
	return s.conflicts.FindConflicts(ctx, kind, resourceID, rangeStart, rangeEnd, excludeLoadID)
}

func (s *Service) getLoad(ctx context.Context, loadID uuid.UUID) (*load.Load, error) {
	l, err := s.loadRepo.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, load.ErrLoadNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "load not found", err)
		}
		return nil, fmt.Errorf("failed to load load %s: %w", loadID, err)
	}
	return l, nil
}

func (s *Service) getVehicle(ctx context.Context, vehicleID uuid.UUID, want vehicle.VehicleType) (*vehicle.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, vehicle.ErrVehicleNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "vehicle not found", err)
		}
		return nil, fmt.Errorf("failed to load vehicle: %w", err)
	}
	if v.Type != want {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			fmt.Sprintf("vehicle %s is a %s, expected %s", vehicleID, v.Type, want),
			vehicle.ErrWrongVehicleType)
	}
	if !v.Assignable() {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"vehicle is out of service", vehicle.ErrVehicleOutOfService)
	}
	return v, nil
}

// commit writes the merged field set atomically against the load's version
// and re-reads the result. A stale version, or a rival booking caught by
// the guard inside the storage boundary, surfaces as STORAGE_CONFLICT for
// the retry wrapper; the retried pass re-reads and re-checks availability,
// so the loser of a race gets the conflict with its details.
func (s *Service) commit(
	ctx context.Context,
	l *load.Load,
	assigned string,
	updates map[string]interface{},
	autoFilled []string,
	guard *load.AssignmentGuard,
) (*AssignmentResult, error) {
	if err := s.loadRepo.CommitAssignment(ctx, l.ID, l.Version, updates, guard); err != nil {
		if errors.Is(err, load.ErrStaleLoad) {
			return nil, appErrors.NewAppError(appErrors.CodeStorageConflict,
				"load changed concurrently", err)
		}
		return nil, fmt.Errorf("failed to commit assignment: %w", err)
	}

	updated, err := s.loadRepo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload load after commit: %w", err)
	}

	logger.Info("Assignment committed",
		zap.String("load_id", l.ID.String()),
		zap.String("assigned_field", assigned),
		zap.Strings("auto_filled", autoFilled),
		zap.String("event", "assignment_committed"),
	)

	return &AssignmentResult{Load: updated, Assigned: assigned, AutoFilled: autoFilled}, nil
}

// withRetry reruns the whole operation from its initial read when the
// storage layer reports a concurrent write.
func (s *Service) withRetry(ctx context.Context, op func(context.Context) (*AssignmentResult, error)) (*AssignmentResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		if !appErrors.IsCode(err, appErrors.CodeStorageConflict) {
			return nil, err
		}
		lastErr = err
		logger.Warn("Retrying assignment after storage conflict",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return nil, lastErr
}

// poolMatches reports whether a resource's carrier pool matches the load's:
// both own fleet, or both the same carrier.
func poolMatches(resourceCarrier, loadCarrier *uuid.UUID) bool {
	return equalRef(resourceCarrier, loadCarrier)
}

func equalRef(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
