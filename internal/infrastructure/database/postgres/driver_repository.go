package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-dispatch/internal/domain/driver"
	"freight-dispatch/internal/infrastructure/database/postgres/models"
)

type DriverRepository struct {
	db *DB
}

func NewDriverRepository(db *DB) *DriverRepository {
	return &DriverRepository{db: db}
}

func (r *DriverRepository) GetByID(ctx context.Context, driverID uuid.UUID) (*driver.Driver, error) {
	var dbModel models.DriverModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", driverID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, driver.ErrDriverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return toDriverEntity(&dbModel), nil
}

func (r *DriverRepository) ListAssignable(ctx context.Context, carrierID *uuid.UUID) ([]*driver.Driver, error) {
	db := r.db.DB.WithContext(ctx).
		Where("status = ?", string(driver.StatusActive))

	if carrierID != nil {
		db = db.Where("carrier_id = ?", *carrierID)
	} else {
		db = db.Where("carrier_id IS NULL")
	}

	var dbModels []models.DriverModel
	if err := db.Order("last_name ASC, first_name ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignable drivers: %w", err)
	}

	drivers := make([]*driver.Driver, len(dbModels))
	for i := range dbModels {
		drivers[i] = toDriverEntity(&dbModels[i])
	}

	return drivers, nil
}

func toDriverEntity(m *models.DriverModel) *driver.Driver {
	return &driver.Driver{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Phone:     m.Phone,
		Status:    driver.DriverStatus(m.Status),
		CarrierID: m.CarrierID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
