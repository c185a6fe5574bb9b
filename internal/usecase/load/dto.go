package load

import (
	"time"

	"github.com/google/uuid"

	domainLoad "freight-dispatch/internal/domain/load"
)

// Request DTOs

type CreateStopRequest struct {
	StopType         string     `json:"stop_type" validate:"required,oneof=pickup delivery"`
	AppointmentStart *time.Time `json:"appointment_start" validate:"omitempty"`
	AppointmentEnd   *time.Time `json:"appointment_end" validate:"omitempty"`
	LocationName     string     `json:"location_name" validate:"omitempty,max=255"`
	Address          string     `json:"address" validate:"required,max=255"`
	City             string     `json:"city" validate:"required,max=100"`
	State            string     `json:"state" validate:"required,max=50"`
	PostalCode       string     `json:"postal_code" validate:"omitempty,max=20"`
	Notes            *string    `json:"notes" validate:"omitempty,max=500"`
}

type CreateLoadRequest struct {
	ReferenceNumber string              `json:"reference_number" validate:"required,max=100"`
	CustomerID      uuid.UUID           `json:"customer_id" validate:"required,uuid"`
	RateAmount      *float64            `json:"rate_amount" validate:"omitempty,min=0"`
	RateType        string              `json:"rate_type" validate:"omitempty,oneof=flat per_mile"`
	Stops           []CreateStopRequest `json:"stops" validate:"required,min=2,dive"`
}

type TransitionRequest struct {
	Status      string     `json:"status" validate:"required"`
	CarrierID   *uuid.UUID `json:"carrier_id" validate:"omitempty,uuid"`
	CarrierRate *float64   `json:"carrier_rate" validate:"omitempty"`
}

type LoadFilterRequest struct {
	Status    string     `form:"status" validate:"omitempty"`
	DriverID  *uuid.UUID `form:"driver_id" validate:"omitempty,uuid"`
	CarrierID *uuid.UUID `form:"carrier_id" validate:"omitempty,uuid"`
	// Pickup window preset for the board: today, week, or all
	Window    string `form:"window" validate:"omitempty,oneof=today week all"`
	Search    string `form:"search" validate:"omitempty,max=100"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=100"`
	SortBy    string `form:"sort_by" validate:"omitempty,oneof=created_at reference_number status"`
	SortOrder string `form:"sort_order" validate:"omitempty,oneof=asc desc"`
}

// Response DTOs

type StopResponse struct {
	ID               uuid.UUID  `json:"id"`
	Sequence         int        `json:"sequence"`
	StopType         string     `json:"stop_type"`
	AppointmentStart *time.Time `json:"appointment_start,omitempty"`
	AppointmentEnd   *time.Time `json:"appointment_end,omitempty"`
	LocationName     string     `json:"location_name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	PostalCode       string     `json:"postal_code"`
	Notes            *string    `json:"notes,omitempty"`
}

type LoadResponse struct {
	ID              uuid.UUID      `json:"id"`
	ReferenceNumber string         `json:"reference_number"`
	CustomerID      uuid.UUID      `json:"customer_id"`
	Status          string         `json:"status"`
	DriverID        *uuid.UUID     `json:"driver_id,omitempty"`
	Driver2ID       *uuid.UUID     `json:"driver2_id,omitempty"`
	TruckID         *uuid.UUID     `json:"truck_id,omitempty"`
	TrailerID       *uuid.UUID     `json:"trailer_id,omitempty"`
	CarrierID       *uuid.UUID     `json:"carrier_id,omitempty"`
	CarrierRate     *float64       `json:"carrier_rate,omitempty"`
	RateAmount      *float64       `json:"rate_amount,omitempty"`
	RateType        string         `json:"rate_type,omitempty"`
	InvoiceID       *uuid.UUID     `json:"invoice_id,omitempty"`
	SettlementID    *uuid.UUID     `json:"settlement_id,omitempty"`
	LockedByInvoice bool           `json:"locked_by_invoice"`
	Stops           []StopResponse `json:"stops"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

type LoadListResponse struct {
	Loads      []LoadResponse `json:"loads"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type TransitionsResponse struct {
	Current         string   `json:"current"`
	Available       []string `json:"available"`
	LockedByInvoice bool     `json:"locked_by_invoice"`
}

type BoardResponse struct {
	Counts map[string]int64 `json:"counts"`
	Loads  []LoadResponse   `json:"loads"`
	Total  int64            `json:"total"`
}

func ToLoadResponse(l *domainLoad.Load) *LoadResponse {
	stops := make([]StopResponse, len(l.Stops))
	for i, s := range l.Stops {
		stops[i] = StopResponse{
			ID:               s.ID,
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
		}
	}

	return &LoadResponse{
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
		LockedByInvoice: l.LockedByInvoice(),
		Stops:           stops,
		CreatedAt:       l.CreatedAt,
		UpdatedAt:       l.UpdatedAt,
	}
}
