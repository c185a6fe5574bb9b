package intake

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainDraft "freight-dispatch/internal/domain/draft"
	draftUsecase "freight-dispatch/internal/usecase/draft"
)

type memDraftRepo struct {
	drafts []*domainDraft.Draft
}

func (r *memDraftRepo) Create(ctx context.Context, d *domainDraft.Draft) error {
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	r.drafts = append(r.drafts, d)
	return nil
}

func (r *memDraftRepo) GetByID(ctx context.Context, draftID uuid.UUID) (*domainDraft.Draft, error) {
	for _, d := range r.drafts {
		if d.ID == draftID {
			return d, nil
		}
	}
	return nil, domainDraft.ErrDraftNotFound
}

func (r *memDraftRepo) ListPending(ctx context.Context, page, pageSize int) ([]*domainDraft.Draft, int64, error) {
	return r.drafts, int64(len(r.drafts)), nil
}

func (r *memDraftRepo) SetStatus(ctx context.Context, draftID uuid.UUID, status domainDraft.DraftStatus, approvedLoadID *uuid.UUID) error {
	return nil
}

func (r *memDraftRepo) PurgeStale(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

func TestProcessDraftMessage(t *testing.T) {
	ctx := context.Background()

	newProcessor := func() (*Processor, *memDraftRepo) {
		repo := &memDraftRepo{}
		return NewProcessor(draftUsecase.NewService(repo, nil)), repo
	}

	t.Run("stores a well formed message", func(t *testing.T) {
		p, repo := newProcessor()

		payload := []byte(`{
			"source": "email-extraction",
			"source_ref": "msg-99",
			"confidence": 0.87,
			"load": {
				"customer_name": "Acme Foods",
				"reference_number": "RC-310",
				"rate_amount": 2450,
				"stops": [
					{"stop_type": "pickup", "address": "1 Dock St", "city": "Chicago", "state": "IL"},
					{"stop_type": "delivery", "address": "2 Yard Rd", "city": "Dallas", "state": "TX"}
				]
			}
		}`)

		require.NoError(t, p.ProcessDraftMessage(ctx, payload))
		require.Len(t, repo.drafts, 1)

		d := repo.drafts[0]
		assert.Equal(t, "msg-99", d.SourceRef)
		assert.Equal(t, domainDraft.StatusPending, d.Status)
		assert.Equal(t, "RC-310", d.Payload.ReferenceNumber)
		assert.Len(t, d.Payload.Stops, 2)
	})

	t.Run("drops malformed json", func(t *testing.T) {
		p, repo := newProcessor()

		err := p.ProcessDraftMessage(ctx, []byte(`{"source": `))
		require.Error(t, err)
		assert.Empty(t, repo.drafts)
	})

	t.Run("drops a message without stops", func(t *testing.T) {
		p, repo := newProcessor()

		err := p.ProcessDraftMessage(ctx, []byte(`{
			"source": "email-extraction",
			"source_ref": "msg-100",
			"load": {"reference_number": "RC-311", "stops": []}
		}`))
		require.Error(t, err)
		assert.Empty(t, repo.drafts)
	})
}
