package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainDraft "freight-dispatch/internal/domain/draft"
	"freight-dispatch/internal/logger"
	loadUsecase "freight-dispatch/internal/usecase/load"
	appErrors "freight-dispatch/pkg/errors"
	"freight-dispatch/pkg/utils"
)

// Service implements draft review use cases. A draft is just a proposal:
// approving one creates a real load in OPEN through the same path as a
// manually entered load.
type Service struct {
	draftRepo   domainDraft.Repository
	loadService *loadUsecase.Service
}

func NewService(draftRepo domainDraft.Repository, loadService *loadUsecase.Service) *Service {
	return &Service{
		draftRepo:   draftRepo,
		loadService: loadService,
	}
}

// Submit stores a proposal from the extraction pipeline for human review.
func (s *Service) Submit(ctx context.Context, d *domainDraft.Draft) (*DraftResponse, error) {
	if len(d.Payload.Stops) == 0 {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"draft has no stops", nil)
	}
	d.Status = domainDraft.StatusPending

	if err := s.draftRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to store draft: %w", err)
	}

	logger.Info("Draft load received",
		zap.String("draft_id", d.ID.String()),
		zap.String("source", d.Source),
		zap.Float64("confidence", d.Confidence),
		zap.String("event", "draft_received"),
	)

	return ToDraftResponse(d), nil
}

// ListPending returns drafts awaiting review, newest first.
func (s *Service) ListPending(ctx context.Context, page, pageSize int) (*DraftListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	drafts, total, err := s.draftRepo.ListPending(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]DraftResponse, len(drafts))
	for i, d := range drafts {
		responses[i] = *ToDraftResponse(d)
	}

	return &DraftListResponse{
		Drafts:   responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Approve turns a pending draft into a real load in OPEN.
func (s *Service) Approve(ctx context.Context, draftID uuid.UUID, req *ApproveDraftRequest) (*loadUsecase.LoadResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "invalid input", err)
	}

	d, err := s.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status != domainDraft.StatusPending {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			fmt.Sprintf("draft is already %s", d.Status), nil)
	}

	customerID := d.Payload.CustomerID
	if req.CustomerID != nil {
		customerID = req.CustomerID
	}
	if customerID == nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			"draft has no customer; supply one to approve", nil)
	}

	createReq := &loadUsecase.CreateLoadRequest{
		ReferenceNumber: d.Payload.ReferenceNumber,
		CustomerID:      *customerID,
		RateAmount:      d.Payload.RateAmount,
		RateType:        d.Payload.RateType,
	}
	for _, st := range d.Payload.Stops {
		createReq.Stops = append(createReq.Stops, loadUsecase.CreateStopRequest{
			StopType:         st.StopType,
			AppointmentStart: st.AppointmentStart,
			AppointmentEnd:   st.AppointmentEnd,
			LocationName:     st.LocationName,
			Address:          st.Address,
			City:             st.City,
			State:            st.State,
			PostalCode:       st.PostalCode,
		})
	}

	created, err := s.loadService.CreateLoad(ctx, createReq)
	if err != nil {
		return nil, err
	}

	if err := s.draftRepo.SetStatus(ctx, draftID, domainDraft.StatusApproved, &created.ID); err != nil {
		return nil, fmt.Errorf("failed to mark draft approved: %w", err)
	}

	logger.Info("Draft approved",
		zap.String("draft_id", draftID.String()),
		zap.String("load_id", created.ID.String()),
		zap.String("event", "draft_approved"),
	)

	return created, nil
}

// Reject discards a pending draft.
func (s *Service) Reject(ctx context.Context, draftID uuid.UUID) (*DraftResponse, error) {
	d, err := s.getDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status != domainDraft.StatusPending {
		return nil, appErrors.NewAppError(appErrors.CodeValidation,
			fmt.Sprintf("draft is already %s", d.Status), nil)
	}

	if err := s.draftRepo.SetStatus(ctx, draftID, domainDraft.StatusRejected, nil); err != nil {
		return nil, fmt.Errorf("failed to reject draft: %w", err)
	}

	logger.Info("Draft rejected",
		zap.String("draft_id", draftID.String()),
		zap.String("event", "draft_rejected"),
	)

	d.Status = domainDraft.StatusRejected
	return ToDraftResponse(d), nil
}

// PurgeStale removes pending drafts older than maxAge. Run on a schedule.
func (s *Service) PurgeStale(ctx context.Context, maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)
	purged, err := s.draftRepo.PurgeStale(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to purge stale drafts", zap.Error(err))
		return
	}
	if purged > 0 {
		logger.Info("Stale drafts purged",
			zap.Int64("count", purged),
			zap.Time("cutoff", cutoff),
		)
	}
}

func (s *Service) getDraft(ctx context.Context, draftID uuid.UUID) (*domainDraft.Draft, error) {
	d, err := s.draftRepo.GetByID(ctx, draftID)
	if err != nil {
		if errors.Is(err, domainDraft.ErrDraftNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "draft not found", err)
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	return d, nil
}
