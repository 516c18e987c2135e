package services

import (
	"context"

	"github.com/x402pay/escrow-backend/internal/events"
	"github.com/x402pay/escrow-backend/internal/models"
	"go.uber.org/zap"
)

// CreatePayment records a settlement intent against the escrow and
// returns its id without debiting the balance. The balance check here
// is advisory: it looks at the balance as of now, so several payments
// can be created against the same funds before any of them settles.
// That trade-off is what buys the server an instant response.
// Requires authorization as the escrow's server.
func (l *Ledger) CreatePayment(ctx context.Context, escrowID uint64, amount int64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	escrow, err := l.getEscrow(ctx, escrowID)
	if err != nil {
		return 0, err
	}
	if err := l.oracle.RequireAuthorized(ctx, escrow.Server); err != nil {
		return 0, err
	}
	if escrow.Balance < amount {
		return 0, ErrInsufficientBalance
	}

	id, err := l.payments.NextID(ctx)
	if err != nil {
		return 0, err
	}

	payment := &models.Payment{
		ID:        id,
		EscrowID:  escrowID,
		Amount:    amount,
		Settled:   false,
		Timestamp: l.clock.Now(),
	}
	if err := l.payments.Put(ctx, payment); err != nil {
		return 0, err
	}

	l.publish(ctx, events.Event{
		Type: events.EventPaymentCreated,
		Payload: map[string]any{
			"payment_id": id,
			"escrow_id":  escrowID,
			"amount":     amount,
			"client":     escrow.Client,
			"server":     escrow.Server,
		},
	})
	l.log.Info("payment created",
		zap.Uint64("payment_id", id),
		zap.Uint64("escrow_id", escrowID),
		zap.Int64("amount", amount),
	)
	return id, nil
}

// SettlePayment performs the authoritative debit: the escrow balance
// is reduced by the payment amount and the payment marked settled,
// exactly once. The debit is not re-guarded against the balance, so it
// can drive the balance negative when intents were stacked up against
// the same funds; that mirrors the advisory check in CreatePayment and
// must not be tightened here. A second settlement attempt always fails.
// Requires authorization as the owning escrow's server.
func (l *Ledger) SettlePayment(ctx context.Context, paymentID uint64) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	payment, err := l.getPayment(ctx, paymentID)
	if err != nil {
		return false, err
	}
	if payment.Settled {
		return false, ErrPaymentAlreadySettled
	}

	escrow, err := l.getEscrow(ctx, payment.EscrowID)
	if err != nil {
		return false, err
	}
	if err := l.oracle.RequireAuthorized(ctx, escrow.Server); err != nil {
		return false, err
	}

	escrow.Balance -= payment.Amount
	payment.Settled = true

	if err := l.escrows.Put(ctx, escrow); err != nil {
		return false, err
	}
	if err := l.payments.Put(ctx, payment); err != nil {
		return false, err
	}

	l.publish(ctx, events.Event{
		Type: events.EventPaymentSettled,
		Payload: map[string]any{
			"payment_id": paymentID,
			"escrow_id":  payment.EscrowID,
			"amount":     payment.Amount,
			"client":     escrow.Client,
			"server":     escrow.Server,
		},
	})
	l.log.Info("payment settled",
		zap.Uint64("payment_id", paymentID),
		zap.Int64("amount", payment.Amount),
		zap.Int64("balance_after", escrow.Balance),
	)
	return true, nil
}

// GetPayment returns the payment record. No authorization: reads are
// public.
func (l *Ledger) GetPayment(ctx context.Context, paymentID uint64) (*models.Payment, error) {
	return l.getPayment(ctx, paymentID)
}
