package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/clock"
	"github.com/x402pay/escrow-backend/internal/events"
	"github.com/x402pay/escrow-backend/internal/repositories"
	"github.com/x402pay/escrow-backend/internal/storage"
	"go.uber.org/zap"
)

const (
	testClient = "GCLIENT"
	testServer = "api.example"
)

var testNow = time.Unix(1700000000, 0).UTC()

type capturePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *capturePublisher) Publish(_ context.Context, _ string, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *capturePublisher) last() (events.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return events.Event{}, false
	}
	return p.events[len(p.events)-1], true
}

func newTestLedger(t *testing.T) (*Ledger, *capturePublisher) {
	t.Helper()
	kv := storage.NewMemory()
	pub := &capturePublisher{}
	ledger := NewLedger(
		repositories.NewEscrowRepo(kv),
		repositories.NewPaymentRepo(kv),
		repositories.NewPairIndexRepo(kv),
		auth.ContextOracle{},
		pub,
		clock.Fixed{T: testNow},
		zap.NewNop(),
	)
	return ledger, pub
}

// asParty returns a context authenticated as the given party, the way
// the auth middleware would build it.
func asParty(party string) context.Context {
	return auth.WithParty(context.Background(), party)
}
