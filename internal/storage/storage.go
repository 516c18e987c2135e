package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("key not found")

// KV is the durable keyed store the ledger keeps its records in. All
// backends must return ErrNotFound for missing keys so callers can
// distinguish absence from transport failures.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
}
