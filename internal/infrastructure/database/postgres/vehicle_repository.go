package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"freight-dispatch/internal/domain/vehicle"
	"freight-dispatch/internal/infrastructure/database/postgres/models"
)

type VehicleRepository struct {
	db *DB
}

func NewVehicleRepository(db *DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

func (r *VehicleRepository) GetByID(ctx context.Context, vehicleID uuid.UUID) (*vehicle.Vehicle, error) {
	var dbModel models.VehicleModel
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", vehicleID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, vehicle.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return toVehicleEntity(&dbModel), nil
}

func (r *VehicleRepository) GetTruckByCurrentDriver(ctx context.Context, driverID uuid.UUID) (*vehicle.Vehicle, error) {
	var dbModel models.VehicleModel
	err := r.db.DB.WithContext(ctx).
		Where("type = ?", string(vehicle.TypeTruck)).
		Where("current_driver_id = ? OR current_driver2_id = ?", driverID, driverID).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil // no home truck is a normal condition
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get truck by current driver: %w", err)
	}

	return toVehicleEntity(&dbModel), nil
}

func (r *VehicleRepository) ListAssignable(ctx context.Context, vtype vehicle.VehicleType, carrierID *uuid.UUID) ([]*vehicle.Vehicle, error) {
	db := r.db.DB.WithContext(ctx).
		Where("type = ?", string(vtype)).
		Where("status = ?", string(vehicle.StatusActive))

	if carrierID != nil {
		db = db.Where("carrier_id = ?", *carrierID)
	} else {
		db = db.Where("carrier_id IS NULL")
	}

	var dbModels []models.VehicleModel
	if err := db.Order("unit_number ASC").Find(&dbModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignable vehicles: %w", err)
	}

	vehicles := make([]*vehicle.Vehicle, len(dbModels))
	for i := range dbModels {
		vehicles[i] = toVehicleEntity(&dbModels[i])
	}

	return vehicles, nil
}

func toVehicleEntity(m *models.VehicleModel) *vehicle.Vehicle {
	return &vehicle.Vehicle{
		ID:               m.ID,
		Type:             vehicle.VehicleType(m.Type),
		UnitNumber:       m.UnitNumber,
		Status:           vehicle.VehicleStatus(m.Status),
		CarrierID:        m.CarrierID,
		CurrentDriverID:  m.CurrentDriverID,
		CurrentDriver2ID: m.CurrentDriver2ID,
		LastTrailerID:    m.LastTrailerID,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
