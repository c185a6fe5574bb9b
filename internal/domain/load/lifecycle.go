package load

import (
	"fmt"

	"github.com/google/uuid"

	appErrors "freight-dispatch/pkg/errors"
)

// State machine for load status transitions, as driven by dispatchers.
// COMPLETED leaves only through the external invoicing collaborator, so it
// carries no manual targets. TONU and CANCELLED are sinks. A brokered load
// still moves through the physical execution states.
var validTransitions = map[LoadStatus][]LoadStatus{
	StatusOpen: {
		StatusScheduled,
		StatusInPickupYard,
		StatusInTransit,
		StatusCompleted,
		StatusTonu,
		StatusCancelled,
		StatusBrokered,
	},
	StatusScheduled: {
		StatusInPickupYard,
		StatusInTransit,
		StatusCompleted,
		StatusTonu,
		StatusCancelled,
		StatusBrokered,
	},
	StatusInPickupYard: {
		StatusInTransit,
		StatusCompleted,
		StatusTonu,
		StatusCancelled,
		StatusBrokered,
	},
	StatusInTransit: {
		StatusCompleted,
		StatusTonu,
		StatusCancelled,
		StatusBrokered,
	},
	StatusCompleted: {
		// Only invoicing, which is external
	},
	StatusTonu: {
		// Terminal
	},
	StatusCancelled: {
		// Terminal
	},
	StatusInvoiced: {
		// Owned by the invoicing collaborator
	},
	StatusBrokered: {
		StatusInTransit,
		StatusCompleted,
		StatusTonu,
		StatusCancelled,
	},
}

// AvailableTransitions returns the statuses legally reachable from the
// load's current status by a dispatcher. Invoiced loads are locked: once an
// invoice id is attached no manual transition remains, whatever the status.
func AvailableTransitions(l *Load) []LoadStatus {
	if l.LockedByInvoice() {
		return nil
	}
	targets := validTransitions[l.Status]
	out := make([]LoadStatus, len(targets))
	copy(out, targets)
	return out
}

// ValidateTransition checks whether the requested status is reachable from
// the load's current state.
func ValidateTransition(l *Load, target LoadStatus) error {
	if l.LockedByInvoice() {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			"load is locked by an attached invoice",
			nil,
		)
	}

	allowed, exists := validTransitions[l.Status]
	if !exists {
		return appErrors.NewAppError(
			appErrors.CodeInvalidTransition,
			fmt.Sprintf("unknown current status: %s", l.Status),
			nil,
		)
	}

	for _, s := range allowed {
		if s == target {
			return nil
		}
	}

	return appErrors.NewAppError(
		appErrors.CodeInvalidTransition,
		fmt.Sprintf("cannot transition from %s to %s", l.Status, target),
		nil,
	)
}

// TransitionPayload carries the side-effect fields of a status change.
// Only the BROKERED transition uses it.
type TransitionPayload struct {
	CarrierID   *uuid.UUID
	CarrierRate *float64
}

// ValidateTransitionPayload enforces the per-target payload rules: BROKERED
// requires a carrier, and a carrier rate (when given) must be non-negative.
// Note that leaving BROKERED never clears carrier fields here; clearing them
// is an explicit assignment operation, so carrier data survives status churn.
func ValidateTransitionPayload(target LoadStatus, payload TransitionPayload) error {
	if target != StatusBrokered {
		return nil
	}
	if payload.CarrierID == nil {
		return appErrors.NewAppError(
			appErrors.CodeMissingRequiredPayload,
			"brokering a load requires a carrier",
			nil,
		)
	}
	if payload.CarrierRate != nil && *payload.CarrierRate < 0 {
		return appErrors.NewAppError(
			appErrors.CodeValidation,
			"carrier rate must be non-negative",
			nil,
		)
	}
	return nil
}
