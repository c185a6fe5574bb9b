package intake

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	domainDraft "freight-dispatch/internal/domain/draft"
	"freight-dispatch/internal/logger"
	draftUsecase "freight-dispatch/internal/usecase/draft"
)

// Processor turns raw extraction-pipeline messages into stored drafts. Bad
// messages are logged and dropped; the pipeline retries on its own.
type Processor struct {
	drafts *draftUsecase.Service
}

func NewProcessor(drafts *draftUsecase.Service) *Processor {
	return &Processor{drafts: drafts}
}

// ProcessDraftMessage decodes and stores one published draft proposal.
func (p *Processor) ProcessDraftMessage(ctx context.Context, payload []byte) error {
	var msg draftMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("malformed draft message: %w", err)
	}
	if len(msg.Load.Stops) == 0 {
		return fmt.Errorf("draft message has no stops (source_ref=%s)", msg.SourceRef)
	}

	d := &domainDraft.Draft{
		Source:     msg.Source,
		SourceRef:  msg.SourceRef,
		Confidence: msg.Confidence,
		Payload: domainDraft.Payload{
			CustomerID:      msg.Load.CustomerID,
			CustomerName:    msg.Load.CustomerName,
			ReferenceNumber: msg.Load.ReferenceNumber,
			RateAmount:      msg.Load.RateAmount,
			RateType:        msg.Load.RateType,
		},
	}
	for _, st := range msg.Load.Stops {
		d.Payload.Stops = append(d.Payload.Stops, domainDraft.DraftStop{
			StopType:         st.StopType,
			AppointmentStart: st.AppointmentStart,
			AppointmentEnd:   st.AppointmentEnd,
			LocationName:     st.LocationName,
			Address:          st.Address,
			City:             st.City,
			State:            st.State,
			PostalCode:       st.PostalCode,
		})
	}

	if _, err := p.drafts.Submit(ctx, d); err != nil {
		return fmt.Errorf("failed to store draft (source_ref=%s): %w", msg.SourceRef, err)
	}

	logger.Debug("Draft message processed",
		zap.String("source_ref", msg.SourceRef),
		zap.String("reference_number", msg.Load.ReferenceNumber),
	)
	return nil
}
