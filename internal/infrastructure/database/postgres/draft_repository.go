package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-dispatch/internal/domain/draft"
	"freight-dispatch/internal/infrastructure/database/postgres/models"
)

type DraftRepository struct {
	db *DB
}

func NewDraftRepository(db *DB) *DraftRepository {
	return &DraftRepository{db: db}
}

func (r *DraftRepository) Create(ctx context.Context, d *draft.Draft) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	if d.Status == "" {
		d.Status = draft.StatusPending
	}

	dbModel, err := toDraftModel(d)
	if err != nil {
		return err
	}

	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create draft: %w", err)
	}

	d.ID = dbModel.ID
	d.CreatedAt = dbModel.CreatedAt
	d.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *DraftRepository) GetByID(ctx context.Context, draftID uuid.UUID) (*draft.Draft, error) {
	var dbModel models.DraftModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", draftID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, draft.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return toDraftEntity(&dbModel)
}

func (r *DraftRepository) ListPending(ctx context.Context, page, pageSize int) ([]*draft.Draft, int64, error) {
	var dbModels []models.DraftModel
	var total int64

	db := r.db.DB.WithContext(ctx).Model(&models.DraftModel{}).
		Where("status = ?", string(draft.StatusPending))

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count drafts: %w", err)
	}

	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	err := db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list drafts: %w", err)
	}

	drafts := make([]*draft.Draft, len(dbModels))
	for i := range dbModels {
		entity, err := toDraftEntity(&dbModels[i])
		if err != nil {
			return nil, 0, err
		}
		drafts[i] = entity
	}

	return drafts, total, nil
}

func (r *DraftRepository) SetStatus(ctx context.Context, draftID uuid.UUID, status draft.DraftStatus, approvedLoadID *uuid.UUID) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}
	if approvedLoadID != nil {
		updates["approved_load_id"] = *approvedLoadID
	}

	result := r.db.DB.WithContext(ctx).
		Model(&models.DraftModel{}).
		Where("id = ?", draftID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update draft status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return draft.ErrDraftNotFound
	}

	return nil
}

func (r *DraftRepository) PurgeStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(draft.StatusPending), olderThan).
		Delete(&models.DraftModel{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge stale drafts: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func toDraftModel(d *draft.Draft) (*models.DraftModel, error) {
	payload, err := json.Marshal(d.Payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal draft payload: %w", err)
	}

	return &models.DraftModel{
		ID:             d.ID,
		Source:         d.Source,
		SourceRef:      d.SourceRef,
		Confidence:     d.Confidence,
		Status:         string(d.Status),
		Payload:        payload,
		ApprovedLoadID: d.ApprovedLoadID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}, nil
}

func toDraftEntity(m *models.DraftModel) (*draft.Draft, error) {
	var payload draft.Payload
	if err := json.Unmarshal(m.Payload, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft payload: %w", err)
	}

	return &draft.Draft{
		ID:             m.ID,
		Source:         m.Source,
		SourceRef:      m.SourceRef,
		Confidence:     m.Confidence,
		Status:         draft.DraftStatus(m.Status),
		Payload:        payload,
		ApprovedLoadID: m.ApprovedLoadID,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}, nil
}
