package draft

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrDraftNotFound = errors.New("draft not found")

// Repository defines the interface for draft persistence.
type Repository interface {
	Create(ctx context.Context, d *Draft) error
	GetByID(ctx context.Context, draftID uuid.UUID) (*Draft, error)
	ListPending(ctx context.Context, page, pageSize int) ([]*Draft, int64, error)
	SetStatus(ctx context.Context, draftID uuid.UUID, status DraftStatus, approvedLoadID *uuid.UUID) error

	// PurgeStale deletes pending drafts older than the cutoff and returns
	// how many were removed.
	PurgeStale(ctx context.Context, olderThan time.Time) (int64, error)
}
