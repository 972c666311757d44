package engine

import "errors"

// Engine errors. All of them are raised before a new balance is computed.
var (
	ErrNotFound          = errors.New("box not found")
	ErrInvalidBox        = errors.New("box has no rewards")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidBet        = errors.New("invalid bet amount")
	ErrAttemptState      = errors.New("invalid open attempt transition")
)
