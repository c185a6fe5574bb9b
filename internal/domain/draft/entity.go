package draft

import (
	"time"

	"github.com/google/uuid"
)

// DraftStatus tracks a proposal through human review
type DraftStatus string

const (
	StatusPending  DraftStatus = "pending"
	StatusApproved DraftStatus = "approved"
	StatusRejected DraftStatus = "rejected"
)

// DraftStop is a proposed waypoint extracted from a rate confirmation.
type DraftStop struct {
	StopType         string     `json:"stop_type"`
	AppointmentStart *time.Time `json:"appointment_start,omitempty"`
	AppointmentEnd   *time.Time `json:"appointment_end,omitempty"`
	LocationName     string     `json:"location_name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	PostalCode       string     `json:"postal_code"`
}

// Payload is the load-shaped body of a draft, exactly as the extraction
// pipeline proposed it.
type Payload struct {
	CustomerID      *uuid.UUID  `json:"customer_id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	ReferenceNumber string      `json:"reference_number"`
	RateAmount      *float64    `json:"rate_amount,omitempty"`
	RateType        string      `json:"rate_type,omitempty"`
	Stops           []DraftStop `json:"stops"`
}

// Draft represents a proposed load produced by the upstream email/LLM
// extraction pipeline, pending human approval before it becomes real.
type Draft struct {
	ID         uuid.UUID
	Source     string  // e.g. "email-extraction"
	SourceRef  string  // message id of the originating email
	Confidence float64 // extraction confidence, 0..1
	Status     DraftStatus
	Payload    Payload

	ApprovedLoadID *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}
