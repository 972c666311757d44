package services

import "errors"

// Service errors. Engine and repository errors pass through wrapped.
var (
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrBettingDisabled    = errors.New("betting is disabled")
	ErrBalanceConflict    = errors.New("balance changed during the operation, retry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidTopup       = errors.New("invalid top-up amount")
	ErrInvalidInput       = errors.New("invalid input")
)
