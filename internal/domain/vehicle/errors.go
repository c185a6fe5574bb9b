package vehicle

import "errors"

var (
	ErrVehicleNotFound     = errors.New("vehicle not found")
	ErrVehicleOutOfService = errors.New("vehicle is out of service")
	ErrWrongVehicleType    = errors.New("vehicle is not of the expected type")
)
