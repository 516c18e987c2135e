package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/x402pay/escrow-backend/internal/models"
	"github.com/x402pay/escrow-backend/internal/storage"
)

// EscrowRepo stores escrow records and the escrow-id counter in the KV
// store. Records are JSON-encoded under escrow:{id}.
type EscrowRepo struct {
	kv storage.KV
}

func NewEscrowRepo(kv storage.KV) *EscrowRepo {
	return &EscrowRepo{kv: kv}
}

func (r *EscrowRepo) Get(ctx context.Context, id uint64) (*models.Escrow, error) {
	data, err := r.kv.Get(ctx, storage.EscrowKey(id))
	if err != nil {
		return nil, err
	}
	var e models.Escrow
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EscrowRepo) Put(ctx context.Context, e *models.Escrow) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, storage.EscrowKey(e.ID), data)
}

func (r *EscrowRepo) Delete(ctx context.Context, id uint64) error {
	return r.kv.Remove(ctx, storage.EscrowKey(id))
}

// NextID allocates the next escrow id. The counter is seeded at zero,
// advances by one per allocation and is never reused, even after the
// escrow it numbered is deleted.
func (r *EscrowRepo) NextID(ctx context.Context) (uint64, error) {
	return nextCounter(ctx, r.kv, storage.EscrowCounterKey)
}

func nextCounter(ctx context.Context, kv storage.KV, key string) (uint64, error) {
	var current uint64
	data, err := kv.Get(ctx, key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		current = 0
	case err != nil:
		return 0, err
	default:
		current, err = strconv.ParseUint(string(data), 10, 64)
		if err != nil {
			return 0, err
		}
	}

	if err := kv.Set(ctx, key, []byte(strconv.FormatUint(current+1, 10))); err != nil {
		return 0, err
	}
	return current, nil
}
