package repositories

import (
	"context"
	"errors"
	"strconv"

	"github.com/x402pay/escrow-backend/internal/storage"
)

// PairIndexRepo maintains the derived (client, server) → escrow-id
// mapping. An entry exists iff a live escrow exists for that ordered
// pair; it is the registry's job to keep the two in sync.
type PairIndexRepo struct {
	kv storage.KV
}

func NewPairIndexRepo(kv storage.KV) *PairIndexRepo {
	return &PairIndexRepo{kv: kv}
}

// Lookup returns the escrow id for the pair, or ok=false when no live
// escrow exists.
func (r *PairIndexRepo) Lookup(ctx context.Context, client, server string) (uint64, bool, error) {
	data, err := r.kv.Get(ctx, storage.PairKey(client, server))
	if errors.Is(err, storage.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (r *PairIndexRepo) Exists(ctx context.Context, client, server string) (bool, error) {
	return r.kv.Has(ctx, storage.PairKey(client, server))
}

func (r *PairIndexRepo) Put(ctx context.Context, client, server string, escrowID uint64) error {
	return r.kv.Set(ctx, storage.PairKey(client, server), []byte(strconv.FormatUint(escrowID, 10)))
}

func (r *PairIndexRepo) Delete(ctx context.Context, client, server string) error {
	return r.kv.Remove(ctx, storage.PairKey(client, server))
}
