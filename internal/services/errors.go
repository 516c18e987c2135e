package services

import "errors"

// Ledger failure taxonomy. Every operation either commits fully or
// fails with one of these (or auth.ErrUnauthorized) and commits
// nothing. None of them are transient, so callers should not retry
// blindly.
var (
	ErrEscrowNotFound        = errors.New("escrow not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrDuplicateEscrow       = errors.New("escrow already exists for this client-server pair")
	ErrInsufficientBalance   = errors.New("insufficient escrow balance")
	ErrPaymentAlreadySettled = errors.New("payment already settled")
)
