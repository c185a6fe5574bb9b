package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"freight-dispatch/internal/domain/carrier"
	"freight-dispatch/internal/domain/driver"
	"freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/domain/vehicle"
)

// In-memory fakes honouring the same contracts as the postgres
// repositories, including the version compare-and-swap.

type fakeLoadRepo struct {
	loads map[uuid.UUID]*load.Load

	// staleCommits makes the next n commits fail with ErrStaleLoad to
	// exercise the retry path.
	staleCommits int

	// beforeCommit runs once at the start of the next CommitAssignment,
	// simulating a rival write landing between the availability check and
	// the commit.
	beforeCommit func()
}

func newFakeLoadRepo(loads ...*load.Load) *fakeLoadRepo {
	r := &fakeLoadRepo{loads: make(map[uuid.UUID]*load.Load)}
	for _, l := range loads {
		r.loads[l.ID] = l
	}
	return r
}

func copyLoad(l *load.Load) *load.Load {
	cp := *l
	cp.Stops = append([]load.Stop(nil), l.Stops...)
	return &cp
}

func (r *fakeLoadRepo) Create(ctx context.Context, l *load.Load) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.loads[l.ID] = copyLoad(l)
	return nil
}

func (r *fakeLoadRepo) GetByID(ctx context.Context, loadID uuid.UUID) (*load.Load, error) {
	l, ok := r.loads[loadID]
	if !ok {
		return nil, load.ErrLoadNotFound
	}
	return copyLoad(l), nil
}

func (r *fakeLoadRepo) List(ctx context.Context, filter *load.Filter) ([]*load.Load, int64, error) {
	var out []*load.Load
	for _, l := range r.loads {
		out = append(out, copyLoad(l))
	}
	return out, int64(len(out)), nil
}

func (r *fakeLoadRepo) CountByStatus(ctx context.Context) (map[load.LoadStatus]int64, error) {
	counts := make(map[load.LoadStatus]int64)
	for _, l := range r.loads {
		counts[l.Status]++
	}
	return counts, nil
}

func (r *fakeLoadRepo) ListActiveByResource(ctx context.Context, kind load.ResourceKind, resourceID uuid.UUID, excludeLoadID *uuid.UUID) ([]*load.Load, error) {
	var out []*load.Load
	for _, l := range r.loads {
		if l.Status == load.StatusCancelled {
			continue
		}
		if excludeLoadID != nil && l.ID == *excludeLoadID {
			continue
		}
		if l.References(kind, resourceID) {
			out = append(out, copyLoad(l))
		}
	}
	return out, nil
}

func (r *fakeLoadRepo) CommitAssignment(ctx context.Context, loadID uuid.UUID, version int, updates map[string]interface{}, guard *load.AssignmentGuard) error {
	if r.beforeCommit != nil {
		hook := r.beforeCommit
		r.beforeCommit = nil
		hook()
	}
	if guard != nil {
		for _, l := range r.loads {
			if l.ID == loadID || l.Status == load.StatusCancelled {
				continue
			}
			for _, driverID := range guard.DriverIDs {
				if l.References(load.KindDriver, driverID) && guard.Blocks(l) {
					return load.ErrStaleLoad
				}
			}
		}
	}
	return r.apply(loadID, version, updates)
}

func (r *fakeLoadRepo) CommitTransition(ctx context.Context, loadID uuid.UUID, version int, status load.LoadStatus, updates map[string]interface{}) error {
	merged := map[string]interface{}{"status": status}
	for k, v := range updates {
		merged[k] = v
	}
	return r.apply(loadID, version, merged)
}

func (r *fakeLoadRepo) apply(loadID uuid.UUID, version int, updates map[string]interface{}) error {
	if r.staleCommits > 0 {
		r.staleCommits--
		return load.ErrStaleLoad
	}

	l, ok := r.loads[loadID]
	if !ok {
		return load.ErrLoadNotFound
	}
	if l.Version != version {
		return load.ErrStaleLoad
	}

	for field, value := range updates {
		switch field {
		case "driver_id":
			l.DriverID = refOf(value)
		case "driver2_id":
			l.Driver2ID = refOf(value)
		case "truck_id":
			l.TruckID = refOf(value)
		case "trailer_id":
			l.TrailerID = refOf(value)
		case "carrier_id":
			l.CarrierID = refOf(value)
		case "carrier_rate":
			l.CarrierRate = rateOf(value)
		case "status":
			l.Status = value.(load.LoadStatus)
		}
	}
	l.Version++
	l.UpdatedAt = time.Now()
	return nil
}

func refOf(value interface{}) *uuid.UUID {
	switch v := value.(type) {
	case uuid.UUID:
		id := v
		return &id
	case *uuid.UUID:
		if v == nil {
			return nil
		}
		id := *v
		return &id
	}
	return nil
}

func rateOf(value interface{}) *float64 {
	switch v := value.(type) {
	case float64:
		f := v
		return &f
	case *float64:
		if v == nil {
			return nil
		}
		f := *v
		return &f
	}
	return nil
}

func (r *fakeLoadRepo) AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) error {
	l, ok := r.loads[loadID]
	if !ok {
		return load.ErrLoadNotFound
	}
	if l.InvoiceID != nil {
		return load.ErrStaleLoad
	}
	l.InvoiceID = &invoiceID
	l.Status = load.StatusInvoiced
	l.Version++
	return nil
}

func (r *fakeLoadRepo) AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) error {
	l, ok := r.loads[loadID]
	if !ok {
		return load.ErrLoadNotFound
	}
	if l.SettlementID != nil {
		return load.ErrStaleLoad
	}
	l.SettlementID = &settlementID
	l.Version++
	return nil
}

type fakeDriverRepo struct {
	drivers map[uuid.UUID]*driver.Driver
}

func newFakeDriverRepo(drivers ...*driver.Driver) *fakeDriverRepo {
	r := &fakeDriverRepo{drivers: make(map[uuid.UUID]*driver.Driver)}
	for _, d := range drivers {
		r.drivers[d.ID] = d
	}
	return r
}

func (r *fakeDriverRepo) GetByID(ctx context.Context, driverID uuid.UUID) (*driver.Driver, error) {
	d, ok := r.drivers[driverID]
	if !ok {
		return nil, driver.ErrDriverNotFound
	}
	return d, nil
}

func (r *fakeDriverRepo) ListAssignable(ctx context.Context, carrierID *uuid.UUID) ([]*driver.Driver, error) {
	var out []*driver.Driver
	for _, d := range r.drivers {
		if d.Assignable() && equalRef(d.CarrierID, carrierID) {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles map[uuid.UUID]*vehicle.Vehicle

	// getErr makes GetByID fail, exercising lookup error paths.
	getErr error
}

func newFakeVehicleRepo(vehicles ...*vehicle.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*vehicle.Vehicle)}
	for _, v := range vehicles {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *fakeVehicleRepo) GetByID(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, vehicle.ErrVehicleNotFound
	}
	return v, nil
}

func (r *fakeVehicleRepo) GetTruckByCurrentDriver(ctx context.Context, driverID uuid.UUID) (*vehicle.Vehicle, error) {
	for _, v := range r.vehicles {
		if v.Type != vehicle.TypeTruck {
			continue
		}
		if (v.CurrentDriverID != nil && *v.CurrentDriverID == driverID) ||
			(v.CurrentDriver2ID != nil && *v.CurrentDriver2ID == driverID) {
			return v, nil
		}
	}
	return nil, nil
}

func (r *fakeVehicleRepo) ListAssignable(ctx context.Context, vtype vehicle.VehicleType, carrierID *uuid.UUID) ([]*vehicle.Vehicle, error) {
	var out []*vehicle.Vehicle
	for _, v := range r.vehicles {
		if v.Type == vtype && v.Assignable() && equalRef(v.CarrierID, carrierID) {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeCarrierRepo struct {
	carriers map[uuid.UUID]*carrier.Carrier
}

func newFakeCarrierRepo(carriers ...*carrier.Carrier) *fakeCarrierRepo {
	r := &fakeCarrierRepo{carriers: make(map[uuid.UUID]*carrier.Carrier)}
	for _, c := range carriers {
		r.carriers[c.ID] = c
	}
	return r
}

func (r *fakeCarrierRepo) GetByID(ctx context.Context, carrierID uuid.UUID) (*carrier.Carrier, error) {
	c, ok := r.carriers[carrierID]
	if !ok {
		return nil, carrier.ErrCarrierNotFound
	}
	return c, nil
}

func (r *fakeCarrierRepo) List(ctx context.Context) ([]*carrier.Carrier, error) {
	var out []*carrier.Carrier
	for _, c := range r.carriers {
		out = append(out, c)
	}
	return out, nil
}
