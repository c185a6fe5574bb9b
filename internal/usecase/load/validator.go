package load

import (
	"fmt"

	domainLoad "freight-dispatch/internal/domain/load"
	appErrors "freight-dispatch/pkg/errors"
)

var knownStatuses = map[string]domainLoad.LoadStatus{
	string(domainLoad.StatusOpen):         domainLoad.StatusOpen,
	string(domainLoad.StatusScheduled):    domainLoad.StatusScheduled,
	string(domainLoad.StatusInPickupYard): domainLoad.StatusInPickupYard,
	string(domainLoad.StatusInTransit):    domainLoad.StatusInTransit,
	string(domainLoad.StatusCompleted):    domainLoad.StatusCompleted,
	string(domainLoad.StatusTonu):         domainLoad.StatusTonu,
	string(domainLoad.StatusCancelled):    domainLoad.StatusCancelled,
	string(domainLoad.StatusInvoiced):     domainLoad.StatusInvoiced,
	string(domainLoad.StatusBrokered):     domainLoad.StatusBrokered,
}

// ParseStatus maps a request value to a load status.
func ParseStatus(s string) (domainLoad.LoadStatus, error) {
	status, ok := knownStatuses[s]
	if !ok {
		return "", appErrors.NewAppError(appErrors.CodeValidation,
			fmt.Sprintf("unknown load status: %s", s), nil)
	}
	return status, nil
}

// ValidateStops enforces the structural load rules: at least two stops, a
// pickup first and a delivery last, and well-formed appointment windows.
func ValidateStops(stops []CreateStopRequest) error {
	if len(stops) < 2 {
		return appErrors.NewAppError(appErrors.CodeValidation,
			"a load requires at least two stops", domainLoad.ErrStopsRequired)
	}
	if stops[0].StopType != string(domainLoad.StopPickup) {
		return appErrors.NewAppError(appErrors.CodeValidation,
			"the first stop must be a pickup", nil)
	}
	if stops[len(stops)-1].StopType != string(domainLoad.StopDelivery) {
		return appErrors.NewAppError(appErrors.CodeValidation,
			"the last stop must be a delivery", nil)
	}
	for i, s := range stops {
		if s.AppointmentStart != nil && s.AppointmentEnd != nil &&
			!s.AppointmentStart.Before(*s.AppointmentEnd) {
			return appErrors.NewAppError(appErrors.CodeValidation,
				fmt.Sprintf("stop %d has a malformed appointment window", i+1), nil)
		}
	}
	return nil
}
