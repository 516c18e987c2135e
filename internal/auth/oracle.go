package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when the caller cannot be authenticated
// as the party an operation requires.
var ErrUnauthorized = errors.New("caller is not authorized as required party")

// Oracle answers one question for the ledger: is the current caller
// authorized to act as the given party? The ledger decides which party
// each operation requires; how identity is established (JWT, mTLS,
// on-chain signatures) is the oracle's concern.
type Oracle interface {
	RequireAuthorized(ctx context.Context, party string) error
}

type partyKey struct{}

// WithParty records the authenticated party on the context. The auth
// middleware calls this after validating the bearer token.
func WithParty(ctx context.Context, party string) context.Context {
	return context.WithValue(ctx, partyKey{}, party)
}

// PartyFromContext returns the authenticated party, if any.
func PartyFromContext(ctx context.Context) (string, bool) {
	party, ok := ctx.Value(partyKey{}).(string)
	return party, ok && party != ""
}

// ContextOracle authorizes a party iff it matches the authenticated
// party carried on the request context.
type ContextOracle struct{}

func (ContextOracle) RequireAuthorized(ctx context.Context, party string) error {
	actor, ok := PartyFromContext(ctx)
	if !ok || actor != party {
		return ErrUnauthorized
	}
	return nil
}
