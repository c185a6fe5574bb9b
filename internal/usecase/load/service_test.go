package load

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-dispatch/internal/domain/carrier"
	domainLoad "freight-dispatch/internal/domain/load"
	appErrors "freight-dispatch/pkg/errors"
)

// Minimal in-memory repositories mirroring the postgres contracts.

type stubLoadRepo struct {
	loads map[uuid.UUID]*domainLoad.Load
}

func newStubLoadRepo(loads ...*domainLoad.Load) *stubLoadRepo {
	r := &stubLoadRepo{loads: make(map[uuid.UUID]*domainLoad.Load)}
	for _, l := range loads {
		r.loads[l.ID] = l
	}
	return r
}

func (r *stubLoadRepo) Create(ctx context.Context, l *domainLoad.Load) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	for i := range l.Stops {
		l.Stops[i].LoadID = l.ID
	}
	cp := *l
	cp.Stops = append([]domainLoad.Stop(nil), l.Stops...)
	r.loads[l.ID] = &cp
	return nil
}

func (r *stubLoadRepo) GetByID(ctx context.Context, loadID uuid.UUID) (*domainLoad.Load, error) {
	l, ok := r.loads[loadID]
	if !ok {
		return nil, domainLoad.ErrLoadNotFound
	}
	cp := *l
	cp.Stops = append([]domainLoad.Stop(nil), l.Stops...)
	return &cp, nil
}

func (r *stubLoadRepo) List(ctx context.Context, filter *domainLoad.Filter) ([]*domainLoad.Load, int64, error) {
	var out []*domainLoad.Load
	for _, l := range r.loads {
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

func (r *stubLoadRepo) CountByStatus(ctx context.Context) (map[domainLoad.LoadStatus]int64, error) {
	counts := make(map[domainLoad.LoadStatus]int64)
	for _, l := range r.loads {
		counts[l.Status]++
	}
	return counts, nil
}

func (r *stubLoadRepo) ListActiveByResource(ctx context.Context, kind domainLoad.ResourceKind, resourceID uuid.UUID, excludeLoadID *uuid.UUID) ([]*domainLoad.Load, error) {
	return nil, nil
}

func (r *stubLoadRepo) CommitAssignment(ctx context.Context, loadID uuid.UUID, version int, updates map[string]interface{}, guard *domainLoad.AssignmentGuard) error {
	return nil
}

func (r *stubLoadRepo) CommitTransition(ctx context.Context, loadID uuid.UUID, version int, status domainLoad.LoadStatus, updates map[string]interface{}) error {
	l, ok := r.loads[loadID]
	if !ok {
		return domainLoad.ErrLoadNotFound
	}
	if l.Version != version {
		return domainLoad.ErrStaleLoad
	}
	l.Status = status
	if v, ok := updates["carrier_id"]; ok {
		id := v.(uuid.UUID)
		l.CarrierID = &id
	}
	if v, ok := updates["carrier_rate"]; ok {
		rate := v.(float64)
		l.CarrierRate = &rate
	}
	if _, ok := updates["driver_id"]; ok {
		l.DriverID = nil
	}
	if _, ok := updates["driver2_id"]; ok {
		l.Driver2ID = nil
	}
	if _, ok := updates["truck_id"]; ok {
		l.TruckID = nil
	}
	if _, ok := updates["trailer_id"]; ok {
		l.TrailerID = nil
	}
	l.Version++
	return nil
}

func (r *stubLoadRepo) AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) error {
	l, ok := r.loads[loadID]
	if !ok {
		return domainLoad.ErrLoadNotFound
	}
	l.InvoiceID = &invoiceID
	l.Status = domainLoad.StatusInvoiced
	l.Version++
	return nil
}

func (r *stubLoadRepo) AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) error {
	l, ok := r.loads[loadID]
	if !ok {
		return domainLoad.ErrLoadNotFound
	}
	l.SettlementID = &settlementID
	l.Version++
	return nil
}

type stubCarrierRepo struct {
	carriers map[uuid.UUID]*carrier.Carrier
}

func newStubCarrierRepo(carriers ...*carrier.Carrier) *stubCarrierRepo {
	r := &stubCarrierRepo{carriers: make(map[uuid.UUID]*carrier.Carrier)}
	for _, c := range carriers {
		r.carriers[c.ID] = c
	}
	return r
}

func (r *stubCarrierRepo) GetByID(ctx context.Context, carrierID uuid.UUID) (*carrier.Carrier, error) {
	c, ok := r.carriers[carrierID]
	if !ok {
		return nil, carrier.ErrCarrierNotFound
	}
	return c, nil
}

func (r *stubCarrierRepo) List(ctx context.Context) ([]*carrier.Carrier, error) {
	return nil, nil
}

func validCreateRequest() *CreateLoadRequest {
	start := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)
	end := start.Add(4 * time.Hour)
	return &CreateLoadRequest{
		ReferenceNumber: "L-5001",
		CustomerID:      uuid.New(),
		Stops: []CreateStopRequest{
			{
				StopType:         "pickup",
				AppointmentStart: &start,
				AppointmentEnd:   &end,
				Address:          "100 Dock St",
				City:             "Chicago",
				State:            "IL",
			},
			{
				StopType: "delivery",
				Address:  "200 Yard Rd",
				City:     "Dallas",
				State:    "TX",
			},
		},
	}
}

func TestCreateLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("creates in open with sequenced stops", func(t *testing.T) {
		svc := NewService(newStubLoadRepo(), newStubCarrierRepo())

		res, err := svc.CreateLoad(ctx, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, string(domainLoad.StatusOpen), res.Status)
		assert.Equal(t, "flat", res.RateType)
		require.Len(t, res.Stops, 2)
		assert.Equal(t, 1, res.Stops[0].Sequence)
		assert.Equal(t, 2, res.Stops[1].Sequence)
	})

	t.Run("rejects fewer than two stops", func(t *testing.T) {
		svc := NewService(newStubLoadRepo(), newStubCarrierRepo())

		req := validCreateRequest()
		req.Stops = req.Stops[:1]

		_, err := svc.CreateLoad(ctx, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})

	t.Run("rejects a delivery first", func(t *testing.T) {
		svc := NewService(newStubLoadRepo(), newStubCarrierRepo())

		req := validCreateRequest()
		req.Stops[0].StopType = "delivery"
		req.Stops[1].StopType = "pickup"

		_, err := svc.CreateLoad(ctx, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})

	t.Run("rejects a malformed appointment window", func(t *testing.T) {
		svc := NewService(newStubLoadRepo(), newStubCarrierRepo())

		req := validCreateRequest()
		req.Stops[0].AppointmentStart, req.Stops[0].AppointmentEnd =
			req.Stops[0].AppointmentEnd, req.Stops[0].AppointmentStart

		_, err := svc.CreateLoad(ctx, req)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})
}

func openLoad() *domainLoad.Load {
	return &domainLoad.Load{
		ID:              uuid.New(),
		ReferenceNumber: "L-6001",
		CustomerID:      uuid.New(),
		Status:          domainLoad.StatusOpen,
		RateType:        domainLoad.RateFlat,
	}
}

func TestTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("open to scheduled", func(t *testing.T) {
		l := openLoad()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		res, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "scheduled"})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", res.Status)
	})

	t.Run("illegal transition is rejected", func(t *testing.T) {
		l := openLoad()
		l.Status = domainLoad.StatusCompleted
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "in_transit"})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.Code(err))
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		l := openLoad()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "teleported"})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})

	t.Run("manual invoiced is rejected", func(t *testing.T) {
		l := openLoad()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "invoiced"})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.Code(err))
	})

	t.Run("brokered requires a carrier", func(t *testing.T) {
		l := openLoad()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "brokered"})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeMissingRequiredPayload, appErrors.Code(err))
	})

	t.Run("brokered stores carrier and rate atomically", func(t *testing.T) {
		l := openLoad()
		cr := &carrier.Carrier{ID: uuid.New(), Name: "Wide Haul LLC"}
		rate := 2100.0
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo(cr))

		res, err := svc.Transition(ctx, l.ID, &TransitionRequest{
			Status:      "brokered",
			CarrierID:   &cr.ID,
			CarrierRate: &rate,
		})
		require.NoError(t, err)
		assert.Equal(t, "brokered", res.Status)
		require.NotNil(t, res.CarrierID)
		assert.Equal(t, cr.ID, *res.CarrierID)
		require.NotNil(t, res.CarrierRate)
		assert.Equal(t, rate, *res.CarrierRate)
	})

	t.Run("brokering clears own fleet assignments in the same write", func(t *testing.T) {
		l := openLoad()
		driverID, driver2ID, truckID, trailerID := uuid.New(), uuid.New(), uuid.New(), uuid.New()
		l.DriverID = &driverID
		l.Driver2ID = &driver2ID
		l.TruckID = &truckID
		l.TrailerID = &trailerID

		cr := &carrier.Carrier{ID: uuid.New(), Name: "Wide Haul LLC"}
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo(cr))

		res, err := svc.Transition(ctx, l.ID, &TransitionRequest{
			Status:    "brokered",
			CarrierID: &cr.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, "brokered", res.Status)
		assert.Nil(t, res.DriverID)
		assert.Nil(t, res.Driver2ID)
		assert.Nil(t, res.TruckID)
		assert.Nil(t, res.TrailerID)
	})

	t.Run("brokered with an unknown carrier is rejected", func(t *testing.T) {
		l := openLoad()
		missing := uuid.New()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.Transition(ctx, l.ID, &TransitionRequest{
			Status:    "brokered",
			CarrierID: &missing,
		})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeNotFound, appErrors.Code(err))
	})

	t.Run("leaving brokered keeps carrier fields", func(t *testing.T) {
		l := openLoad()
		carrierID := uuid.New()
		rate := 900.0
		l.Status = domainLoad.StatusBrokered
		l.CarrierID = &carrierID
		l.CarrierRate = &rate
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		res, err := svc.Transition(ctx, l.ID, &TransitionRequest{Status: "completed"})
		require.NoError(t, err)
		assert.Equal(t, "completed", res.Status)
		require.NotNil(t, res.CarrierID)
		require.NotNil(t, res.CarrierRate)
	})
}

func TestAttachInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("only completed loads can be invoiced", func(t *testing.T) {
		l := openLoad()
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		_, err := svc.AttachInvoice(ctx, l.ID, uuid.New())
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeInvalidTransition, appErrors.Code(err))
	})

	t.Run("invoicing locks the load", func(t *testing.T) {
		l := openLoad()
		l.Status = domainLoad.StatusCompleted
		svc := NewService(newStubLoadRepo(l), newStubCarrierRepo())

		res, err := svc.AttachInvoice(ctx, l.ID, uuid.New())
		require.NoError(t, err)
		assert.Equal(t, string(domainLoad.StatusInvoiced), res.Status)
		assert.True(t, res.LockedByInvoice)

		transitions, err := svc.AvailableTransitions(ctx, l.ID)
		require.NoError(t, err)
		assert.Empty(t, transitions.Available)
		assert.True(t, transitions.LockedByInvoice)
	})
}

func TestBoard(t *testing.T) {
	ctx := context.Background()

	a := openLoad()
	b := openLoad()
	b.Status = domainLoad.StatusInTransit
	svc := NewService(newStubLoadRepo(a, b), newStubCarrierRepo())

	res, err := svc.Board(ctx, &LoadFilterRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Counts[string(domainLoad.StatusOpen)])
	assert.Equal(t, int64(1), res.Counts[string(domainLoad.StatusInTransit)])
	assert.Equal(t, int64(2), res.Total)
}
