package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"freight-dispatch/internal/domain/load"
	"freight-dispatch/internal/infrastructure/database/postgres/models"
)

type LoadRepository struct {
	db *DB
}

func NewLoadRepository(db *DB) *LoadRepository {
	return &LoadRepository{db: db}
}

func (r *LoadRepository) Create(ctx context.Context, l *load.Load) error {
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()
	if l.Status == "" {
		l.Status = load.StatusOpen
	}

	dbModel := toLoadModel(l)
	for i := range dbModel.Stops {
		dbModel.Stops[i].ID = uuid.New()
		dbModel.Stops[i].LoadID = l.ID
		dbModel.Stops[i].CreatedAt = l.CreatedAt
		dbModel.Stops[i].UpdatedAt = l.UpdatedAt
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create load: %w", err)
	}

	l.ID = dbModel.ID
	l.CreatedAt = dbModel.CreatedAt
	l.UpdatedAt = dbModel.UpdatedAt
	for i := range dbModel.Stops {
		l.Stops[i].ID = dbModel.Stops[i].ID
		l.Stops[i].LoadID = dbModel.Stops[i].LoadID
	}

	return nil
}

func (r *LoadRepository) GetByID(ctx context.Context, loadID uuid.UUID) (*load.Load, error) {
	var dbModel models.LoadModel
	err := r.db.DB.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("id = ?", loadID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, load.ErrLoadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get load: %w", err)
	}

	return toLoadEntity(&dbModel), nil
}

func (r *LoadRepository) List(ctx context.Context, filter *load.Filter) ([]*load.Load, int64, error) {
	var dbModels []models.LoadModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.LoadModel{}).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		})

	// Apply filters
	if filter.Status != nil {
		db = db.Where("status = ?", string(*filter.Status))
	}
	if filter.CustomerID != nil {
		db = db.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.DriverID != nil {
		db = db.Where("driver_id = ? OR driver2_id = ?", *filter.DriverID, *filter.DriverID)
	}
	if filter.CarrierID != nil {
		db = db.Where("carrier_id = ?", *filter.CarrierID)
	}
	if filter.PickupAfter != nil || filter.PickupBefore != nil {
		// Window filters match on the first stop's appointment start.
		sub := r.db.DB.Model(&models.StopModel{}).
			Select("load_id").
			Where("sequence = 1")
		if filter.PickupAfter != nil {
			sub = sub.Where("appointment_start >= ?", filter.PickupAfter)
		}
		if filter.PickupBefore != nil {
			sub = sub.Where("appointment_start <= ?", filter.PickupBefore)
		}
		db = db.Where("id IN (?)", sub)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		db = db.Where("reference_number ILIKE ?", search)
	}

	// Count total
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count loads: %w", err)
	}

	// Apply sorting
	sortBy := "created_at"
	if filter.SortBy != "" {
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	// Apply pagination
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order(fmt.Sprintf("%s %s", sortBy, sortOrder)).
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error

	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loads: %w", err)
	}

	loads := make([]*load.Load, len(dbModels))
	for i := range dbModels {
		loads[i] = toLoadEntity(&dbModels[i])
	}

	return loads, total, nil
}

func (r *LoadRepository) CountByStatus(ctx context.Context) (map[load.LoadStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := r.db.DB.WithContext(ctx).
		Model(&models.LoadModel{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count loads by status: %w", err)
	}

	counts := make(map[load.LoadStatus]int64, len(rows))
	for _, row := range rows {
		counts[load.LoadStatus(row.Status)] = row.Count
	}

	return counts, nil
}

func (r *LoadRepository) ListActiveByResource(ctx context.Context, kind load.ResourceKind, resourceID uuid.UUID, excludeLoadID *uuid.UUID) ([]*load.Load, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.LoadModel{}).
		Preload("Stops", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC")
		}).
		Where("status <> ?", string(load.StatusCancelled))

	switch kind {
	case load.KindDriver:
		db = db.Where("driver_id = ? OR driver2_id = ?", resourceID, resourceID)
	case load.KindTruck:
		db = db.Where("truck_id = ?", resourceID)
	case load.KindTrailer:
		db = db.Where("trailer_id = ?", resourceID)
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}

	if excludeLoadID != nil {
		db = db.Where("id <> ?", *excludeLoadID)
	}

	var dbModels []models.LoadModel
	if err := db.Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list loads by resource: %w", err)
	}

	loads := make([]*load.Load, len(dbModels))
	for i := range dbModels {
		loads[i] = toLoadEntity(&dbModels[i])
	}

	return loads, nil
}

// CommitAssignment applies an assignment field set in one transaction.
// When a guard is given it first takes FOR UPDATE locks on the driver rows,
// so two dispatchers racing to book the same driver serialize here even
// when neither load references the driver yet, then re-checks the drivers'
// availability against every active load referencing them. A rival booking
// that landed since the caller's availability check, or a lost version
// compare-and-swap, returns load.ErrStaleLoad so the caller re-reads.
func (r *LoadRepository) CommitAssignment(ctx context.Context, loadID uuid.UUID, version int, updates map[string]interface{}, guard *load.AssignmentGuard) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if guard != nil && len(guard.DriverIDs) > 0 {
			var drivers []models.DriverModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("id IN ?", guard.DriverIDs).
				Find(&drivers).Error
			if err != nil {
				return fmt.Errorf("failed to lock drivers: %w", err)
			}

			var rivals []models.LoadModel
			err = tx.Preload("Stops", func(db *gorm.DB) *gorm.DB {
				return db.Order("sequence ASC")
			}).
				Where("status <> ?", string(load.StatusCancelled)).
				Where("driver_id IN ? OR driver2_id IN ?", guard.DriverIDs, guard.DriverIDs).
				Where("id <> ?", loadID).
				Find(&rivals).Error
			if err != nil {
				return fmt.Errorf("failed to re-check driver loads: %w", err)
			}
			for i := range rivals {
				if guard.Blocks(toLoadEntity(&rivals[i])) {
					return load.ErrStaleLoad
				}
			}
		}

		return casUpdate(tx, loadID, version, updates)
	})
}

// CommitTransition moves the load to the target status, applying any extra
// fields in the same guarded write.
func (r *LoadRepository) CommitTransition(ctx context.Context, loadID uuid.UUID, version int, status load.LoadStatus, updates map[string]interface{}) error {
	merged := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		merged[k] = v
	}
	merged["status"] = string(status)

	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return casUpdate(tx, loadID, version, merged)
	})
}

func casUpdate(tx *gorm.DB, loadID uuid.UUID, version int, updates map[string]interface{}) error {
	fields := make(map[string]interface{}, len(updates)+2)
	for k, v := range updates {
		fields[k] = v
	}
	fields["version"] = gorm.Expr("version + 1")
	fields["updated_at"] = time.Now()

	result := tx.Model(&models.LoadModel{}).
		Where("id = ? AND version = ?", loadID, version).
		Updates(fields)

	if result.Error != nil {
		return fmt.Errorf("failed to commit load update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&models.LoadModel{}).Where("id = ?", loadID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check load existence: %w", err)
		}
		if count == 0 {
			return load.ErrLoadNotFound
		}
		return load.ErrStaleLoad
	}

	return nil
}

func (r *LoadRepository) AttachInvoice(ctx context.Context, loadID, invoiceID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.LoadModel{}).
		Where("id = ? AND invoice_id IS NULL", loadID).
		Updates(map[string]interface{}{
			"invoice_id": invoiceID,
			"status":     string(load.StatusInvoiced),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to attach invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return load.ErrStaleLoad
	}

	return nil
}

func (r *LoadRepository) AttachSettlement(ctx context.Context, loadID, settlementID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).
		Model(&models.LoadModel{}).
		Where("id = ? AND settlement_id IS NULL", loadID).
		Updates(map[string]interface{}{
			"settlement_id": settlementID,
			"version":       gorm.Expr("version + 1"),
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to attach settlement: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return load.ErrStaleLoad
	}

	return nil
}

// Helper functions to convert between domain entities and database models
func toLoadModel(l *load.Load) *models.LoadModel {
	stops := make([]models.StopModel, len(l.Stops))
	for i, s := range l.Stops {
		stops[i] = toStopModel(&s)
	}

	return &models.LoadModel{
		ID:              l.ID,
		ReferenceNumber: l.ReferenceNumber,
		CustomerID:      l.CustomerID,
		Status:          string(l.Status),
		DriverID:        l.DriverID,
		Driver2ID:       l.Driver2ID,
		TruckID:         l.TruckID,
		TrailerID:       l.TrailerID,
		CarrierID:       l.CarrierID,
		CarrierRate:     l.CarrierRate,
		RateAmount:      l.RateAmount,
		RateType:        string(l.RateType),
		InvoiceID:       l.InvoiceID,
		SettlementID:    l.SettlementID,
		Version:         l.Version,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
		Stops:           stops,
	}
}

func toLoadEntity(m *models.LoadModel) *load.Load {
	stops := make([]load.Stop, len(m.Stops))
	for i := range m.Stops {
		stops[i] = toStopEntity(&m.Stops[i])
	}

	return &load.Load{
		ID:              m.ID,
		ReferenceNumber: m.ReferenceNumber,
		CustomerID:      m.CustomerID,
		Status:          load.LoadStatus(m.Status),
		DriverID:        m.DriverID,
		Driver2ID:       m.Driver2ID,
		TruckID:         m.TruckID,
		TrailerID:       m.TrailerID,
		CarrierID:       m.CarrierID,
		CarrierRate:     m.CarrierRate,
		RateAmount:      m.RateAmount,
		RateType:        load.RateType(m.RateType),
		InvoiceID:       m.InvoiceID,
		SettlementID:    m.SettlementID,
		Version:         m.Version,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
		Stops:           stops,
	}
}

func toStopModel(s *load.Stop) models.StopModel {
	return models.StopModel{
		ID:               s.ID,
		LoadID:           s.LoadID,
		Sequence:         s.Sequence,
		StopType:         string(s.StopType),
		AppointmentStart: s.AppointmentStart,
		AppointmentEnd:   s.AppointmentEnd,
		LocationName:     s.LocationName,
		Address:          s.Address,
		City:             s.City,
		State:            s.State,
		PostalCode:       s.PostalCode,
		Notes:            s.Notes,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

func toStopEntity(m *models.StopModel) load.Stop {
	return load.Stop{
		ID:               m.ID,
		LoadID:           m.LoadID,
		Sequence:         m.Sequence,
		StopType:         load.StopType(m.StopType),
		AppointmentStart: m.AppointmentStart,
		AppointmentEnd:   m.AppointmentEnd,
		LocationName:     m.LocationName,
		Address:          m.Address,
		City:             m.City,
		State:            m.State,
		PostalCode:       m.PostalCode,
		Notes:            m.Notes,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
