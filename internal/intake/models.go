package intake

import (
	"time"

	"github.com/google/uuid"
)

// draftMessage is the wire shape the rate-confirmation extraction pipeline
// publishes. Field names match the pipeline's JSON contract.
type draftMessage struct {
	Source     string       `json:"source"`
	SourceRef  string       `json:"source_ref"`
	Confidence float64      `json:"confidence"`
	Load       draftPayload `json:"load"`
}

type draftPayload struct {
	CustomerID      *uuid.UUID  `json:"customer_id,omitempty"`
	CustomerName    string      `json:"customer_name"`
	ReferenceNumber string      `json:"reference_number"`
	RateAmount      *float64    `json:"rate_amount,omitempty"`
	RateType        string      `json:"rate_type,omitempty"`
	Stops           []draftStop `json:"stops"`
}

type draftStop struct {
	StopType         string     `json:"stop_type"`
	AppointmentStart *time.Time `json:"appointment_start,omitempty"`
	AppointmentEnd   *time.Time `json:"appointment_end,omitempty"`
	LocationName     string     `json:"location_name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	State            string     `json:"state"`
	PostalCode       string     `json:"postal_code"`
}
