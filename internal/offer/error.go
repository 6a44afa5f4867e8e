package offer

import "errors"

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrCodeTaken     = errors.New("offer code already in use")
	ErrInvalidWindow = errors.New("offer validity window is invalid")
	ErrInvalidCode   = errors.New("offer code is empty")
)
