package services

import (
	"context"

	"github.com/x402pay/escrow-backend/internal/events"
	"github.com/x402pay/escrow-backend/internal/models"
	"go.uber.org/zap"
)

// Open creates the escrow for a client-server pair and funds it with
// the initial balance. At most one live escrow may exist per ordered
// pair; (client, server) and (server, client) are distinct pairs.
// Requires authorization as the client.
func (l *Ledger) Open(ctx context.Context, client, server string, amount int64) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.oracle.RequireAuthorized(ctx, client); err != nil {
		return 0, err
	}

	exists, err := l.pairs.Exists(ctx, client, server)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicateEscrow
	}

	id, err := l.escrows.NextID(ctx)
	if err != nil {
		return 0, err
	}

	escrow := &models.Escrow{
		ID:        id,
		Client:    client,
		Server:    server,
		Balance:   amount,
		CreatedAt: l.clock.Now(),
	}
	if err := l.escrows.Put(ctx, escrow); err != nil {
		return 0, err
	}
	if err := l.pairs.Put(ctx, client, server, id); err != nil {
		return 0, err
	}

	l.publish(ctx, events.Event{
		Type: events.EventEscrowOpened,
		Payload: map[string]any{
			"escrow_id": id,
			"client":    client,
			"server":    server,
		},
	})
	l.log.Info("escrow opened",
		zap.Uint64("escrow_id", id),
		zap.String("client", client),
		zap.String("server", server),
		zap.Int64("balance", amount),
	)
	return id, nil
}

// Deposit replenishes the escrow buffer. Requires authorization as the
// escrow's client. The amount is not range-checked here; gating
// deposits is the caller layer's concern.
func (l *Ledger) Deposit(ctx context.Context, escrowID uint64, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	escrow, err := l.getEscrow(ctx, escrowID)
	if err != nil {
		return err
	}
	if err := l.oracle.RequireAuthorized(ctx, escrow.Client); err != nil {
		return err
	}

	escrow.Balance += amount
	if err := l.escrows.Put(ctx, escrow); err != nil {
		return err
	}

	l.publish(ctx, events.Event{
		Type: events.EventEscrowDeposited,
		Payload: map[string]any{
			"escrow_id": escrowID,
			"amount":    amount,
			"client":    escrow.Client,
			"server":    escrow.Server,
		},
	})
	return nil
}

// ClientClose records the client's consent to tear the escrow down.
// When the server has already consented the escrow is deleted and the
// remaining balance returned; otherwise the consent is stored and nil
// returned. Consent is one-way: there is no cancel-close.
func (l *Ledger) ClientClose(ctx context.Context, escrowID uint64) (*int64, error) {
	return l.closeSide(ctx, escrowID, true)
}

// ServerClose is the server-side mirror of ClientClose.
func (l *Ledger) ServerClose(ctx context.Context, escrowID uint64) (*int64, error) {
	return l.closeSide(ctx, escrowID, false)
}

func (l *Ledger) closeSide(ctx context.Context, escrowID uint64, byClient bool) (*int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	escrow, err := l.getEscrow(ctx, escrowID)
	if err != nil {
		return nil, err
	}

	party := escrow.Server
	if byClient {
		party = escrow.Client
	}
	if err := l.oracle.RequireAuthorized(ctx, party); err != nil {
		return nil, err
	}

	if byClient {
		escrow.ClientClosed = true
	} else {
		escrow.ServerClosed = true
	}

	if !(escrow.ClientClosed && escrow.ServerClosed) {
		// Re-closing the same side lands here too: the flag is already
		// true and storing it again is a no-op from the state's view.
		if err := l.escrows.Put(ctx, escrow); err != nil {
			return nil, err
		}
		return nil, nil
	}

	remaining := escrow.Balance
	if err := l.escrows.Delete(ctx, escrowID); err != nil {
		return nil, err
	}
	if err := l.pairs.Delete(ctx, escrow.Client, escrow.Server); err != nil {
		return nil, err
	}

	l.publish(ctx, events.Event{
		Type: events.EventEscrowClosed,
		Payload: map[string]any{
			"escrow_id": escrowID,
			"remaining": remaining,
			"client":    escrow.Client,
			"server":    escrow.Server,
		},
	})
	l.log.Info("escrow closed",
		zap.Uint64("escrow_id", escrowID),
		zap.Int64("remaining", remaining),
	)
	return &remaining, nil
}

// GetEscrow returns the escrow record. No authorization: reads are
// public.
func (l *Ledger) GetEscrow(ctx context.Context, escrowID uint64) (*models.Escrow, error) {
	return l.getEscrow(ctx, escrowID)
}

// GetBalance returns the unspent buffer available for settlement.
func (l *Ledger) GetBalance(ctx context.Context, escrowID uint64) (int64, error) {
	escrow, err := l.getEscrow(ctx, escrowID)
	if err != nil {
		return 0, err
	}
	return escrow.Balance, nil
}

// FindEscrow resolves the ordered (client, server) pair to its live
// escrow id, if one exists.
func (l *Ledger) FindEscrow(ctx context.Context, client, server string) (uint64, bool, error) {
	return l.pairs.Lookup(ctx, client, server)
}
