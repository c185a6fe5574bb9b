package models

import (
	"time"

	"github.com/google/uuid"
)

// LoadModel represents the database model for Loads
type LoadModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ReferenceNumber string     `gorm:"type:varchar(100);not null;index"`
	CustomerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status          string     `gorm:"type:varchar(30);not null;default:'open';index"`
	DriverID        *uuid.UUID `gorm:"type:uuid;index"`
	Driver2ID       *uuid.UUID `gorm:"type:uuid;index"`
	TruckID         *uuid.UUID `gorm:"type:uuid;index"`
	TrailerID       *uuid.UUID `gorm:"type:uuid;index"`
	CarrierID       *uuid.UUID `gorm:"type:uuid;index"`
	CarrierRate     *float64   `gorm:"type:decimal(12,2)"`
	RateAmount      *float64   `gorm:"type:decimal(12,2)"`
	RateType        string     `gorm:"type:varchar(20);not null;default:'flat'"`
	InvoiceID       *uuid.UUID `gorm:"type:uuid"`
	SettlementID    *uuid.UUID `gorm:"type:uuid"`
	Version         int        `gorm:"not null;default:0"`
	CreatedAt       time.Time  `gorm:"not null;index"`
	UpdatedAt       time.Time  `gorm:"not null"`

	// Relations
	Stops   []StopModel   `gorm:"foreignKey:LoadID;constraint:OnDelete:CASCADE"`
	Carrier *CarrierModel `gorm:"foreignKey:CarrierID"`
	Driver  *DriverModel  `gorm:"foreignKey:DriverID"`
	Truck   *VehicleModel `gorm:"foreignKey:TruckID"`
	Trailer *VehicleModel `gorm:"foreignKey:TrailerID"`
}

func (LoadModel) TableName() string {
	return "loads"
}

// StopModel represents the database model for Stops
type StopModel struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	LoadID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	Sequence         int        `gorm:"type:integer;not null"`
	StopType         string     `gorm:"type:varchar(20);not null"`
	AppointmentStart *time.Time `gorm:"type:timestamptz"`
	AppointmentEnd   *time.Time `gorm:"type:timestamptz"`
	LocationName     string     `gorm:"type:varchar(255)"`
	Address          string     `gorm:"type:text;not null"`
	City             string     `gorm:"type:varchar(100);not null"`
	State            string     `gorm:"type:varchar(50);not null"`
	PostalCode       string     `gorm:"type:varchar(20)"`
	Notes            *string    `gorm:"type:text"`
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

func (StopModel) TableName() string {
	return "stops"
}
