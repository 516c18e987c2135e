package models

import "time"

// Payment is a settlement intent drawn against one escrow. Creating it
// does not touch the escrow balance; the debit happens at settlement.
type Payment struct {
	ID        uint64    `json:"id"`
	EscrowID  uint64    `json:"escrow_id"`
	Amount    int64     `json:"amount"`
	Settled   bool      `json:"settled"`
	Timestamp time.Time `json:"timestamp"`
}
