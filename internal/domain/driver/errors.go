package driver

import "errors"

var (
	ErrDriverNotFound     = errors.New("driver not found")
	ErrDriverOutOfService = errors.New("driver is out of service")
)
