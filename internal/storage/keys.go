package storage

import "fmt"

// Key builders. Each record kind has its own prefix so the four kinds
// can never collide inside one keyspace.

const (
	EscrowCounterKey  = "counter:escrow"
	PaymentCounterKey = "counter:payment"
)

func EscrowKey(id uint64) string {
	return fmt.Sprintf("escrow:%d", id)
}

func PaymentKey(id uint64) string {
	return fmt.Sprintf("payment:%d", id)
}

// PairKey addresses the pairing-index entry for an ordered
// (client, server) pair. The pair is ordered: (a, b) and (b, a) are
// distinct escrows.
func PairKey(client, server string) string {
	return fmt.Sprintf("pair:%s:%s", client, server)
}
