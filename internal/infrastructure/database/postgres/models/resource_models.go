package models

import (
	"time"

	"github.com/google/uuid"
)

// DriverModel represents the database model for Drivers
type DriverModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName string     `gorm:"type:varchar(100);not null"`
	LastName  string     `gorm:"type:varchar(100);not null"`
	Phone     *string    `gorm:"type:varchar(50)"`
	Status    string     `gorm:"type:varchar(30);not null;default:'active';index"`
	CarrierID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

// VehicleModel represents the database model for trucks and trailers
type VehicleModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Type             string     `gorm:"type:varchar(20);not null;index"`
	UnitNumber       string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Status           string     `gorm:"type:varchar(30);not null;default:'active'"`
	CarrierID        *uuid.UUID `gorm:"type:uuid;index"`
	CurrentDriverID  *uuid.UUID `gorm:"type:uuid;index"`
	CurrentDriver2ID *uuid.UUID `gorm:"type:uuid"`
	LastTrailerID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

func (VehicleModel) TableName() string {
	return "vehicles"
}

// CarrierModel represents the database model for outside carriers
type CarrierModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	MCNumber  *string   `gorm:"type:varchar(50);uniqueIndex"`
	Phone     *string   `gorm:"type:varchar(50)"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (CarrierModel) TableName() string {
	return "carriers"
}
