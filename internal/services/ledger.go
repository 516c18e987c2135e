package services

import (
	"context"
	"errors"
	"sync"

	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/clock"
	"github.com/x402pay/escrow-backend/internal/events"
	"github.com/x402pay/escrow-backend/internal/models"
	"github.com/x402pay/escrow-backend/internal/repositories"
	"github.com/x402pay/escrow-backend/internal/storage"
	"go.uber.org/zap"
)

// Ledger is the escrow-and-settlement core. It owns the escrow
// registry, the payment registry and the pairing index, and runs every
// mutating operation under one mutex so the ledger only ever moves
// between consistent states.
//
// Every mutation performs all of its checks (authorization, lookups,
// balance) before its first write; a failed check leaves no trace.
type Ledger struct {
	mu        sync.Mutex
	escrows   *repositories.EscrowRepo
	payments  *repositories.PaymentRepo
	pairs     *repositories.PairIndexRepo
	oracle    auth.Oracle
	publisher events.Publisher
	clock     clock.Clock
	log       *zap.Logger
}

func NewLedger(
	escrows *repositories.EscrowRepo,
	payments *repositories.PaymentRepo,
	pairs *repositories.PairIndexRepo,
	oracle auth.Oracle,
	publisher events.Publisher,
	clk clock.Clock,
	log *zap.Logger,
) *Ledger {
	return &Ledger{
		escrows:   escrows,
		payments:  payments,
		pairs:     pairs,
		oracle:    oracle,
		publisher: publisher,
		clock:     clk,
		log:       log,
	}
}

func (l *Ledger) getEscrow(ctx context.Context, id uint64) (*models.Escrow, error) {
	e, err := l.escrows.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrEscrowNotFound
	}
	return e, err
}

func (l *Ledger) getPayment(ctx context.Context, id uint64) (*models.Payment, error) {
	p, err := l.payments.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

func (l *Ledger) publish(ctx context.Context, event events.Event) {
	if err := l.publisher.Publish(ctx, events.StreamLedger, event); err != nil {
		l.log.Warn("event publish failed", zap.String("type", event.Type), zap.Error(err))
	}
}
