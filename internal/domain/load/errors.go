package load

import "errors"

var (
	ErrLoadNotFound  = errors.New("load not found")
	ErrStaleLoad     = errors.New("load was changed by a concurrent write")
	ErrStopsRequired = errors.New("load requires at least two stops")
	ErrTeamDriver    = errors.New("team driver must differ from primary driver")
)
