package draft

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-dispatch/internal/domain/carrier"
	domainDraft "freight-dispatch/internal/domain/draft"
	domainLoad "freight-dispatch/internal/domain/load"
	loadUsecase "freight-dispatch/internal/usecase/load"
	appErrors "freight-dispatch/pkg/errors"
)

type stubDraftRepo struct {
	drafts map[uuid.UUID]*domainDraft.Draft
}

func newStubDraftRepo(drafts ...*domainDraft.Draft) *stubDraftRepo {
	r := &stubDraftRepo{drafts: make(map[uuid.UUID]*domainDraft.Draft)}
	for _, d := range drafts {
		r.drafts[d.ID] = d
	}
	return r
}

func (r *stubDraftRepo) Create(ctx context.Context, d *domainDraft.Draft) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.drafts[d.ID] = d
	return nil
}

func (r *stubDraftRepo) GetByID(ctx context.Context, draftID uuid.UUID) (*domainDraft.Draft, error) {
	d, ok := r.drafts[draftID]
	if !ok {
		return nil, domainDraft.ErrDraftNotFound
	}
	return d, nil
}

func (r *stubDraftRepo) ListPending(ctx context.Context, page, pageSize int) ([]*domainDraft.Draft, int64, error) {
	var out []*domainDraft.Draft
	for _, d := range r.drafts {
		if d.Status == domainDraft.StatusPending {
			out = append(out, d)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubDraftRepo) SetStatus(ctx context.Context, draftID uuid.UUID, status domainDraft.DraftStatus, approvedLoadID *uuid.UUID) error {
	d, ok := r.drafts[draftID]
	if !ok {
		return domainDraft.ErrDraftNotFound
	}
	d.Status = status
	d.ApprovedLoadID = approvedLoadID
	return nil
}

func (r *stubDraftRepo) PurgeStale(ctx context.Context, olderThan time.Time) (int64, error) {
	var purged int64
	for id, d := range r.drafts {
		if d.Status == domainDraft.StatusPending && d.CreatedAt.Before(olderThan) {
			delete(r.drafts, id)
			purged++
		}
	}
	return purged, nil
}

type stubLoadRepo struct {
	loads map[uuid.UUID]*domainLoad.Load
}

func newStubLoadRepo() *stubLoadRepo {
	return &stubLoadRepo{loads: make(map[uuid.UUID]*domainLoad.Load)}
}

func (r *stubLoadRepo) Create(ctx context.Context, l *domainLoad.Load) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.loads[l.ID] = l
	return nil
}

func (r *stubLoadRepo) GetByID(ctx context.Context, loadID uuid.UUID) (*domainLoad.Load, error) {
	l, ok := r.loads[loadID]
	if !ok {
		return nil, domainLoad.ErrLoadNotFound
	}
	return l, nil
}

func (r *stubLoadRepo) List(ctx context.Context, filter *domainLoad.Filter) ([]*domainLoad.Load, int64, error) {
	return nil, 0, nil
}

func (r *stubLoadRepo) CountByStatus(ctx context.Context) (map[domainLoad.LoadStatus]int64, error) {
	return nil, nil
}

func (r *stubLoadRepo) ListActiveByResource(ctx context.Context, kind domainLoad.ResourceKind, resourceID uuid.UUID, excludeLoadID *uuid.UUID) ([]*domainLoad.Load, error) {
	return nil, nil
}

func (r *stubLoadRepo) CommitAssignment(ctx context.Context, loadID uuid.UUID, version int, updates map[string]interface{}, guard *domainLoad.AssignmentGuard) error {
	return nil
}

func (r *stubLoadRepo) CommitTransition(ctx context.Context, loadID uuid.UUID, version int, status domainLoad.LoadStatus, updates map[string]interface{}) error {
	return nil
}

func (r *stubLoadRepo) AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) error {
	return nil
}

func (r *stubLoadRepo) AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) error {
	return nil
}

type stubCarrierRepo struct{}

func (stubCarrierRepo) GetByID(ctx context.Context, carrierID uuid.UUID) (*carrier.Carrier, error) {
	return nil, carrier.ErrCarrierNotFound
}

func (stubCarrierRepo) List(ctx context.Context) ([]*carrier.Carrier, error) {
	return nil, nil
}

func pendingDraft() *domainDraft.Draft {
	customerID := uuid.New()
	return &domainDraft.Draft{
		ID:         uuid.New(),
		Source:     "email-extraction",
		SourceRef:  "msg-42",
		Confidence: 0.92,
		Status:     domainDraft.StatusPending,
		Payload: domainDraft.Payload{
			CustomerID:      &customerID,
			CustomerName:    "Acme Foods",
			ReferenceNumber: "RC-77",
			Stops: []domainDraft.DraftStop{
				{StopType: "pickup", Address: "1 Dock St", City: "Chicago", State: "IL"},
				{StopType: "delivery", Address: "2 Yard Rd", City: "Dallas", State: "TX"},
			},
		},
		CreatedAt: time.Now(),
	}
}

func newTestService(repo *stubDraftRepo) *Service {
	loadService := loadUsecase.NewService(newStubLoadRepo(), stubCarrierRepo{})
	return NewService(repo, loadService)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("approving creates an open load", func(t *testing.T) {
		d := pendingDraft()
		repo := newStubDraftRepo(d)
		svc := newTestService(repo)

		created, err := svc.Approve(ctx, d.ID, &ApproveDraftRequest{})
		require.NoError(t, err)
		assert.Equal(t, string(domainLoad.StatusOpen), created.Status)
		assert.Equal(t, "RC-77", created.ReferenceNumber)
		require.Len(t, created.Stops, 2)

		assert.Equal(t, domainDraft.StatusApproved, d.Status)
		require.NotNil(t, d.ApprovedLoadID)
		assert.Equal(t, created.ID, *d.ApprovedLoadID)
	})

	t.Run("request customer overrides the payload", func(t *testing.T) {
		d := pendingDraft()
		override := uuid.New()
		svc := newTestService(newStubDraftRepo(d))

		created, err := svc.Approve(ctx, d.ID, &ApproveDraftRequest{CustomerID: &override})
		require.NoError(t, err)
		assert.Equal(t, override, created.CustomerID)
	})

	t.Run("draft without a customer needs one supplied", func(t *testing.T) {
		d := pendingDraft()
		d.Payload.CustomerID = nil
		svc := newTestService(newStubDraftRepo(d))

		_, err := svc.Approve(ctx, d.ID, &ApproveDraftRequest{})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})

	t.Run("already reviewed drafts are rejected", func(t *testing.T) {
		d := pendingDraft()
		d.Status = domainDraft.StatusRejected
		svc := newTestService(newStubDraftRepo(d))

		_, err := svc.Approve(ctx, d.ID, &ApproveDraftRequest{})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})

	t.Run("unknown draft", func(t *testing.T) {
		svc := newTestService(newStubDraftRepo())

		_, err := svc.Approve(ctx, uuid.New(), &ApproveDraftRequest{})
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeNotFound, appErrors.Code(err))
	})
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	d := pendingDraft()
	svc := newTestService(newStubDraftRepo(d))

	res, err := svc.Reject(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domainDraft.StatusRejected), res.Status)

	_, err = svc.Reject(ctx, d.ID)
	require.Error(t, err, "a draft is rejected once")
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newStubDraftRepo())

	t.Run("stores a pending draft", func(t *testing.T) {
		d := pendingDraft()
		d.ID = uuid.Nil
		d.Status = ""

		res, err := svc.Submit(ctx, d)
		require.NoError(t, err)
		assert.Equal(t, string(domainDraft.StatusPending), res.Status)
	})

	t.Run("rejects a draft without stops", func(t *testing.T) {
		d := pendingDraft()
		d.Payload.Stops = nil

		_, err := svc.Submit(ctx, d)
		require.Error(t, err)
		assert.Equal(t, appErrors.CodeValidation, appErrors.Code(err))
	})
}

func TestPurgeStale(t *testing.T) {
	ctx := context.Background()

	stale := pendingDraft()
	stale.CreatedAt = time.Now().Add(-100 * time.Hour)
	fresh := pendingDraft()

	repo := newStubDraftRepo(stale, fresh)
	svc := newTestService(repo)

	svc.PurgeStale(ctx, 72*time.Hour)

	_, err := repo.GetByID(ctx, stale.ID)
	assert.ErrorIs(t, err, domainDraft.ErrDraftNotFound)
	_, err = repo.GetByID(ctx, fresh.ID)
	assert.NoError(t, err)
}
