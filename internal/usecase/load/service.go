package load

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"

	"freight-dispatch/internal/domain/carrier"
	domainLoad "freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/logger"
	appErrors "freight-dispatch/pkg/errors"
	"freight-dispatch/pkg/utils"
)

const maxTransitionRetries = 3

// Service implements load lifecycle use cases
type Service struct {
	loadRepo    domainLoad.Repository
	carrierRepo carrier.Repository
}

// NewService creates a new load service
func NewService(loadRepo domainLoad.Repository, carrierRepo carrier.Repository) *Service {
	return &Service{
		loadRepo:    loadRepo,
		carrierRepo: carrierRepo,
	}
}

// CreateLoad creates a load in OPEN, the initial status for every load,
// whether entered by hand or approved from a draft.
func (s *Service) CreateLoad(ctx context.Context, req *CreateLoadRequest) (*LoadResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "invalid input", err)
	}
	if err := ValidateStops(req.Stops); err != nil {
		return nil, err
	}

	rateType := domainLoad.RateType(req.RateType)
	if req.RateType == "" {
		rateType = domainLoad.RateFlat
	}

	l := &domainLoad.Load{
		ReferenceNumber: req.ReferenceNumber,
		CustomerID:      req.CustomerID,
		Status:          domainLoad.StatusOpen,
		RateAmount:      req.RateAmount,
		RateType:        rateType,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	for i, st := range req.Stops {
		l.Stops = append(l.Stops, domainLoad.Stop{
			Sequence:         i + 1,
			StopType:         domainLoad.StopType(st.StopType),
			AppointmentStart: st.AppointmentStart,
			AppointmentEnd:   st.AppointmentEnd,
			LocationName:     st.LocationName,
			Address:          st.Address,
			City:             st.City,
			State:            st.State,
			PostalCode:       st.PostalCode,
			Notes:            st.Notes,
		})
	}

	if err := s.loadRepo.Create(ctx, l); err != nil {
		return nil, err
	}

	created, err := s.loadRepo.GetByID(ctx, l.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Load created",
		zap.String("load_id", created.ID.String()),
		zap.String("reference_number", created.ReferenceNumber),
		zap.Int("stops", len(created.Stops)),
		zap.String("event", "load_created"),
	)

	return ToLoadResponse(created), nil
}

// GetLoad returns a single load with its stops.
func (s *Service) GetLoad(ctx context.Context, loadID uuid.UUID) (*LoadResponse, error) {
	l, err := s.getLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	return ToLoadResponse(l), nil
}

// AvailableTransitions returns the statuses a dispatcher may move the load
// to, plus the invoice lock flag the UI gates its actions on.
func (s *Service) AvailableTransitions(ctx context.Context, loadID uuid.UUID) (*TransitionsResponse, error) {
	l, err := s.getLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}

	available := domainLoad.AvailableTransitions(l)
	statuses := make([]string, len(available))
	for i, st := range available {
		statuses[i] = string(st)
	}

	return &TransitionsResponse{
		Current:         string(l.Status),
		Available:       statuses,
		LockedByInvoice: l.LockedByInvoice(),
	}, nil
}

// Transition moves a load to a new status. BROKERED is the only transition
// carrying payload: it requires a carrier and stores the carrier rate in the
// same atomic write as the status change. A carrier change clears all four
// assignment fields in that write; stale assignments from the previous pool
// never survive. Leaving BROKERED never clears carrier fields; that is an
// explicit assignment operation.
func (s *Service) Transition(ctx context.Context, loadID uuid.UUID, req *TransitionRequest) (*LoadResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "invalid input", err)
	}

	target, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if target == domainLoad.StatusInvoiced {
		// Owned by the invoicing collaborator, never dispatcher-initiated.
		return nil, appErrors.NewAppError(appErrors.CodeInvalidTransition,
			"invoiced is set by the invoicing system, not manually", nil)
	}

	payload := domainLoad.TransitionPayload{
		CarrierID:   req.CarrierID,
		CarrierRate: req.CarrierRate,
	}

	var lastErr error
	for attempt := 0; attempt < maxTransitionRetries; attempt++ {
		l, err := s.getLoad(ctx, loadID)
		if err != nil {
			return nil, err
		}

		if err := domainLoad.ValidateTransition(l, target); err != nil {
			return nil, err
		}
		if err := domainLoad.ValidateTransitionPayload(target, payload); err != nil {
			return nil, err
		}

		updates := map[string]interface{}{}
		if target == domainLoad.StatusBrokered {
			if _, err := s.carrierRepo.GetByID(ctx, *payload.CarrierID); err != nil {
				if errors.Is(err, carrier.ErrCarrierNotFound) {
					return nil, appErrors.NewAppError(appErrors.CodeNotFound, "carrier not found", err)
				}
				return nil, fmt.Errorf("failed to load carrier: %w", err)
			}
			updates["carrier_id"] = *payload.CarrierID
			if payload.CarrierRate != nil {
				updates["carrier_rate"] = *payload.CarrierRate
			}
			if l.CarrierID == nil || *l.CarrierID != *payload.CarrierID {
				updates["driver_id"] = nil
				updates["driver2_id"] = nil
				updates["truck_id"] = nil
				updates["trailer_id"] = nil
			}
		}

		err = s.loadRepo.CommitTransition(ctx, l.ID, l.Version, target, updates)
		if err == nil {
			updated, err := s.loadRepo.GetByID(ctx, loadID)
			if err != nil {
				return nil, err
			}

			logger.Info("Load status changed",
				zap.String("load_id", loadID.String()),
				zap.String("from", string(l.Status)),
				zap.String("to", string(target)),
				zap.String("event", "load_transitioned"),
			)

			return ToLoadResponse(updated), nil
		}
		if !errors.Is(err, domainLoad.ErrStaleLoad) {
			return nil, fmt.Errorf("failed to commit transition: %w", err)
		}
		lastErr = appErrors.NewAppError(appErrors.CodeStorageConflict,
			"load changed concurrently", err)
	}
	return nil, lastErr
}

// AttachInvoice is the invoicing collaborator's hook: it attaches the
// invoice id and moves the load to INVOICED in one write, locking it for
// manual transitions.
func (s *Service) AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) (*LoadResponse, error) {
	l, err := s.getLoad(ctx, loadID)
	if err != nil {
		return nil, err
	}
	if l.Status != domainLoad.StatusCompleted {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidTransition,
			"only completed loads can be invoiced", nil)
	}

	if err := s.loadRepo.AttachInvoice(ctx, loadID, invoiceID); err != nil {
		return nil, err
	}

	updated, err := s.loadRepo.GetByID(ctx, loadID)
	if err != nil {
		return nil, err
	}

	logger.Info("Invoice attached",
		zap.String("load_id", loadID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.String("event", "invoice_attached"),
	)

	return ToLoadResponse(updated), nil
}

// AttachSettlement records the settlement id from the settlement collaborator.
func (s *Service) AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) (*LoadResponse, error) {
	if _, err := s.getLoad(ctx, loadID); err != nil {
		return nil, err
	}

	if err := s.loadRepo.AttachSettlement(ctx, loadID, settlementID); err != nil {
		return nil, err
	}

	updated, err := s.loadRepo.GetByID(ctx, loadID)
	if err != nil {
		return nil, err
	}

	logger.Info("Settlement attached",
		zap.String("load_id", loadID.String()),
		zap.String("settlement_id", settlementID.String()),
		zap.String("event", "settlement_attached"),
	)

	return ToLoadResponse(updated), nil
}

// ListLoads returns a filtered page of loads for the dispatch board.
func (s *Service) ListLoads(ctx context.Context, filter *LoadFilterRequest) (*LoadListResponse, error) {
	if err := utils.ValidateStruct(filter); err != nil {
		return nil, appErrors.NewAppError(appErrors.CodeValidation, "invalid filter", err)
	}

	domainFilter, err := s.toDomainFilter(filter)
	if err != nil {
		return nil, err
	}

	loads, total, err := s.loadRepo.List(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]LoadResponse, len(loads))
	for i, l := range loads {
		responses[i] = *ToLoadResponse(l)
	}

	totalPages := int(total) / domainFilter.PageSize
	if int(total)%domainFilter.PageSize > 0 {
		totalPages++
	}

	return &LoadListResponse{
		Loads:      responses,
		Total:      total,
		Page:       domainFilter.Page,
		PageSize:   domainFilter.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Board returns status counts plus the loads matching the filter, the
// grouped view dispatchers work from.
func (s *Service) Board(ctx context.Context, filter *LoadFilterRequest) (*BoardResponse, error) {
	counts, err := s.loadRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.ListLoads(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(counts))
	for status, count := range counts {
		byStatus[string(status)] = count
	}

	return &BoardResponse{
		Counts: byStatus,
		Loads:  list.Loads,
		Total:  list.Total,
	}, nil
}

func (s *Service) toDomainFilter(filter *LoadFilterRequest) (*domainLoad.Filter, error) {
	domainFilter := &domainLoad.Filter{
		DriverID:  filter.DriverID,
		CarrierID: filter.CarrierID,
		Search:    filter.Search,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if domainFilter.PageSize > 100 {
		domainFilter.PageSize = 100
	}

	if filter.Status != "" {
		status, err := ParseStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		domainFilter.Status = &status
	}

	switch filter.Window {
	case "today":
		start := now.BeginningOfDay()
		end := now.EndOfDay()
		domainFilter.PickupAfter = &start
		domainFilter.PickupBefore = &end
	case "week":
		start := now.BeginningOfWeek()
		end := now.EndOfWeek()
		domainFilter.PickupAfter = &start
		domainFilter.PickupBefore = &end
	}

	return domainFilter, nil
}

func (s *Service) getLoad(ctx context.Context, loadID uuid.UUID) (*domainLoad.Load, error) {
	l, err := s.loadRepo.GetByID(ctx, loadID)
	if err != nil {
		if errors.Is(err, domainLoad.ErrLoadNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeNotFound, "load not found", err)
		}
		return nil, fmt.Errorf("failed to load load %s: %w", loadID, err)
	}
	return l, nil
}
