package events

import "context"

// StreamLedger carries every ledger state-change notification.
const StreamLedger = "events:ledger"

// Event types
const (
	EventEscrowOpened    = "escrow_opened"
	EventEscrowDeposited = "escrow_deposited"
	EventPaymentCreated  = "payment_created"
	EventPaymentSettled  = "payment_settled"
	EventEscrowClosed    = "escrow_closed"
)

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Publisher is fire-and-forget from the ledger's point of view:
// delivery and ordering are the bus's concern.
type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
