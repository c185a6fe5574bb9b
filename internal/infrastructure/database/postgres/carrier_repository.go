package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-dispatch/internal/domain/carrier"
	"freight-dispatch/internal/infrastructure/database/postgres/models"
)

type CarrierRepository struct {
	db *DB
}

func NewCarrierRepository(db *DB) *CarrierRepository {
	return &CarrierRepository{db: db}
}

func (r *CarrierRepository) GetByID(ctx context.Context, carrierID uuid.UUID) (*carrier.Carrier, error) {
	var dbModel models.CarrierModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", carrierID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, carrier.ErrCarrierNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get carrier: %w", err)
	}

	return toCarrierEntity(&dbModel), nil
}

func (r *CarrierRepository) List(ctx context.Context) ([]*carrier.Carrier, error) {
	var dbModels []models.CarrierModel
	err := r.db.DB.WithContext(ctx).
		Order("name ASC").
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list carriers: %w", err)
	}

	carriers := make([]*carrier.Carrier, len(dbModels))
	for i := range dbModels {
		carriers[i] = toCarrierEntity(&dbModels[i])
	}

	return carriers, nil
}

func toCarrierEntity(m *models.CarrierModel) *carrier.Carrier {
	return &carrier.Carrier{
		ID:        m.ID,
		Name:      m.Name,
		MCNumber:  m.MCNumber,
		Phone:     m.Phone,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
