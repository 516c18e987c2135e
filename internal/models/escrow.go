package models

import "time"

// Closure states derived from the two consent flags. There is no
// stored state field: the escrow record is deleted the moment both
// flags are true, so "closed" never appears on a live record.
const (
	EscrowStateOpen          = "open"
	EscrowStateClientPending = "client_pending"
	EscrowStateServerPending = "server_pending"
)

// Escrow is the funding buffer between exactly one client and one
// server. Balance is an accounting number: deposits add to it and
// settled payments subtract from it; actual value transfer happens
// outside this service.
type Escrow struct {
	ID           uint64    `json:"id"`
	Client       string    `json:"client"`
	Server       string    `json:"server"`
	Balance      int64     `json:"balance"`
	ClientClosed bool      `json:"client_closed"`
	ServerClosed bool      `json:"server_closed"`
	CreatedAt    time.Time `json:"created_at"`
}

// ClosureState reports where the escrow sits in the two-party consent
// protocol. Both flags true is never observable on a stored record.
func (e *Escrow) ClosureState() string {
	switch {
	case e.ClientClosed && !e.ServerClosed:
		return EscrowStateClientPending
	case e.ServerClosed && !e.ClientClosed:
		return EscrowStateServerPending
	default:
		return EscrowStateOpen
	}
}
