package draft

import (
	"time"

	"github.com/google/uuid"

	domainDraft "freight-dispatch/internal/domain/draft"
)

type ApproveDraftRequest struct {
	// The extraction pipeline rarely knows internal customer ids; the
	// approving dispatcher supplies one when the payload lacks it.
	CustomerID *uuid.UUID `json:"customer_id" validate:"omitempty,uuid"`
}

type DraftResponse struct {
	ID             uuid.UUID           `json:"id"`
	Source         string              `json:"source"`
	SourceRef      string              `json:"source_ref"`
	Confidence     float64             `json:"confidence"`
	Status         string              `json:"status"`
	Payload        domainDraft.Payload `json:"payload"`
	ApprovedLoadID *uuid.UUID          `json:"approved_load_id,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

type DraftListResponse struct {
	Drafts   []DraftResponse `json:"drafts"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

func ToDraftResponse(d *domainDraft.Draft) *DraftResponse {
	return &DraftResponse{
		ID:             d.ID,
		Source:         d.Source,
		SourceRef:      d.SourceRef,
		Confidence:     d.Confidence,
		Status:         string(d.Status),
		Payload:        d.Payload,
		ApprovedLoadID: d.ApprovedLoadID,
		CreatedAt:      d.CreatedAt,
	}
}
