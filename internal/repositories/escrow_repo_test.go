package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/x402pay/escrow-backend/internal/models"
	"github.com/x402pay/escrow-backend/internal/storage"
)

func TestEscrowRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewEscrowRepo(storage.NewMemory())

	e := &models.Escrow{
		ID:        3,
		Client:    "alice",
		Server:    "api.example",
		Balance:   5_000_000,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
	if err := repo.Put(ctx, e); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Get(ctx, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != *e {
		t.Errorf("Get = %+v, want %+v", got, e)
	}

	if err := repo.Delete(ctx, 3); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, 3); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestEscrowRepoNextID(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	repo := NewEscrowRepo(kv)

	for want := uint64(0); want < 5; want++ {
		id, err := repo.NextID(ctx)
		if err != nil {
			t.Fatalf("NextID: %v", err)
		}
		if id != want {
			t.Errorf("NextID = %d, want %d", id, want)
		}
	}

	// Escrow and payment counters are independent.
	payments := NewPaymentRepo(kv)
	id, err := payments.NextID(ctx)
	if err != nil {
		t.Fatalf("payment NextID: %v", err)
	}
	if id != 0 {
		t.Errorf("payment NextID = %d, want 0", id)
	}
}

func TestPairIndexRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewPairIndexRepo(storage.NewMemory())

	if _, ok, err := repo.Lookup(ctx, "alice", "api.example"); err != nil || ok {
		t.Fatalf("Lookup on empty index = ok=%v, err=%v", ok, err)
	}

	if err := repo.Put(ctx, "alice", "api.example", 7); err != nil {
		t.Fatalf("Put: %v", err)
	}

	id, ok, err := repo.Lookup(ctx, "alice", "api.example")
	if err != nil || !ok || id != 7 {
		t.Errorf("Lookup = (%d, %v, %v), want (7, true, nil)", id, ok, err)
	}

	// The pair is ordered: the reverse direction is a different escrow.
	if _, ok, _ := repo.Lookup(ctx, "api.example", "alice"); ok {
		t.Error("reversed pair should not resolve")
	}

	if err := repo.Delete(ctx, "alice", "api.example"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := repo.Lookup(ctx, "alice", "api.example"); ok {
		t.Error("Lookup after Delete should miss")
	}
}

func TestPaymentRepoRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewPaymentRepo(storage.NewMemory())

	p := &models.Payment{
		ID:        0,
		EscrowID:  4,
		Amount:    1_000_000,
		Settled:   false,
		Timestamp: time.Unix(1700000100, 0).UTC(),
	}
	if err := repo.Put(ctx, p); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := repo.Get(ctx, 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != *p {
		t.Errorf("Get = %+v, want %+v", got, p)
	}
}
