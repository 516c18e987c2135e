package dto

import "github.com/x402pay/escrow-backend/internal/models"

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type SuccessResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
	Party string `json:"party"`
}

type OpenEscrowResponse struct {
	EscrowID uint64 `json:"escrow_id"`
}

type EscrowResponse struct {
	models.Escrow
	State string `json:"state"`
}

type BalanceResponse struct {
	EscrowID uint64 `json:"escrow_id"`
	Balance  int64  `json:"balance"`
}

type FindEscrowResponse struct {
	EscrowID *uint64 `json:"escrow_id"`
}

type CreatePaymentResponse struct {
	PaymentID uint64 `json:"payment_id"`
}

type SettleResponse struct {
	Settled bool `json:"settled"`
}

// CloseResponse reports one step of the two-party closure protocol.
// Remaining is set only on the step that completed the closure.
type CloseResponse struct {
	Closed    bool   `json:"closed"`
	Remaining *int64 `json:"remaining,omitempty"`
}
