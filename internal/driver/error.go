package driver

import "errors"

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrUnavailable    = errors.New("driver is not available")
	ErrInvalidStatus  = errors.New("invalid driver status")
)
