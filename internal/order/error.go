package order

import "errors"

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAlreadyAssigned     = errors.New("order already assigned to another driver")
	ErrNotAssignedToDriver = errors.New("order is not assigned to this driver")
)
