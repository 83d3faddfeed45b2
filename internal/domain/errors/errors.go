package errors

import "errors"

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrValidation         = errors.New("invalid order input")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrPaymentRequired    = errors.New("payment required")
)
