package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"freight-dispatch/internal/domain/load"
)

// ConflictDetector answers "what trips is this resource already committed
// to inside a window?" against the load store. It is advisory, not a hard
// block: loads without a complete appointment window cannot be checked and
// are skipped, so a load with no firm schedule never conflicts.
type ConflictDetector struct {
	loadRepo load.Repository
}

func NewConflictDetector(loadRepo load.Repository) *ConflictDetector {
	return &ConflictDetector{loadRepo: loadRepo}
}

// FindConflicts returns every non-cancelled load referencing the resource
// whose effective date range overlaps [rangeStart, rangeEnd). Overlap is
// half-open: [a,b) and [c,d) overlap iff a < d && c < b.
func (d *ConflictDetector) FindConflicts(
	ctx context.Context,
	kind load.ResourceKind,
	resourceID uuid.UUID,
	rangeStart, rangeEnd time.Time,
	excludeLoadID *uuid.UUID,
) ([]ConflictingLoad, error) {
	candidates, err := d.loadRepo.ListActiveByResource(ctx, kind, resourceID, excludeLoadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loads for %s %s: %w", kind, resourceID, err)
	}

	var conflicts []ConflictingLoad
	for _, l := range candidates {
		start, end := l.EffectiveRange()
		if start == nil || end == nil {
			// No firm schedule, cannot be checked
			continue
		}
		if !load.RangesOverlap(rangeStart, rangeEnd, *start, *end) {
			continue
		}
		conflicts = append(conflicts, ConflictingLoad{
			LoadID:          l.ID,
			ReferenceNumber: l.ReferenceNumber,
			Status:          l.Status,
			PickupSummary:   stopSummary(l.FirstStop()),
			DeliverySummary: stopSummary(l.LastStop()),
			RangeStart:      *start,
			RangeEnd:        *end,
		})
	}

	return conflicts, nil
}

func stopSummary(s *load.Stop) string {
	if s == nil {
		return ""
	}
	if s.City == "" && s.State == "" {
		return s.LocationName
	}
	return fmt.Sprintf("%s, %s", s.City, s.State)
}
