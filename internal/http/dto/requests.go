package dto

type TokenRequest struct {
	Party string `json:"party"`
	Proof string `json:"proof"` // hex HMAC-SHA256(party) under the shared auth secret
}

type OpenEscrowRequest struct {
	Client string `json:"client,omitempty"` // defaults to the authenticated party
	Server string `json:"server"`
	Amount int64  `json:"amount"`
}

type DepositRequest struct {
	Amount int64 `json:"amount"`
}

type CreatePaymentRequest struct {
	EscrowID uint64 `json:"escrow_id"`
	Amount   int64  `json:"amount"`
}
