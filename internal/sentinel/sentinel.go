package sentinel

import "errors"

// Sentinel dependency errors. Stores and the ledger substrate return these
// (optionally wrapped) so services can translate them into domain errors
// exactly once.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrFrozen            = errors.New("account frozen")
	ErrInvalidState      = errors.New("invalid state")
)
