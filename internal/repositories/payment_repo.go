package repositories

import (
	"context"
	"encoding/json"

	"github.com/x402pay/escrow-backend/internal/models"
	"github.com/x402pay/escrow-backend/internal/storage"
)

// PaymentRepo stores payment records and the payment-id counter.
// Payments are never deleted: they remain as the settlement history
// even after their escrow is closed.
type PaymentRepo struct {
	kv storage.KV
}

func NewPaymentRepo(kv storage.KV) *PaymentRepo {
	return &PaymentRepo{kv: kv}
}

func (r *PaymentRepo) Get(ctx context.Context, id uint64) (*models.Payment, error) {
	data, err := r.kv.Get(ctx, storage.PaymentKey(id))
	if err != nil {
		return nil, err
	}
	var p models.Payment
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Put(ctx context.Context, p *models.Payment) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, storage.PaymentKey(p.ID), data)
}

func (r *PaymentRepo) NextID(ctx context.Context) (uint64, error) {
	return nextCounter(ctx, r.kv, storage.PaymentCounterKey)
}
