package domain

import "errors"

// Broker and engine error taxonomy. ErrInvalidOrder is a caller error and is
// fatal to the offending order only. ErrInsufficientFunds is expected during
// normal operation; the engine treats it as a dropped signal.
var (
	ErrInvalidOrder      = errors.New("invalid order")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidPosition   = errors.New("invalid position")
)
