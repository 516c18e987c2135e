package services

import (
	"context"
	"errors"
	"testing"

	"github.com/x402pay/escrow-backend/internal/auth"
	"github.com/x402pay/escrow-backend/internal/events"
	"github.com/x402pay/escrow-backend/internal/models"
)

func TestOpenEscrow(t *testing.T) {
	ledger, pub := newTestLedger(t)
	ctx := asParty(testClient)

	id, err := ledger.Open(ctx, testClient, testServer, 1_000_000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if id != 0 {
		t.Errorf("first escrow id = %d, want 0", id)
	}

	escrow, err := ledger.GetEscrow(context.Background(), id)
	if err != nil {
		t.Fatalf("GetEscrow: %v", err)
	}
	want := models.Escrow{
		ID: 0, Client: testClient, Server: testServer,
		Balance: 1_000_000, CreatedAt: testNow,
	}
	if *escrow != want {
		t.Errorf("escrow = %+v, want %+v", *escrow, want)
	}

	balance, err := ledger.GetBalance(context.Background(), id)
	if err != nil || balance != 1_000_000 {
		t.Errorf("GetBalance = %d, %v, want 1000000, nil", balance, err)
	}

	event, ok := pub.last()
	if !ok || event.Type != events.EventEscrowOpened {
		t.Errorf("last event = %+v, want %s", event, events.EventEscrowOpened)
	}
}

func TestOpenDuplicatePair(t *testing.T) {
	ledger, _ := newTestLedger(t)
	ctx := asParty(testClient)

	if _, err := ledger.Open(ctx, testClient, testServer, 1_000_000); err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := ledger.Open(ctx, testClient, testServer, 1_000_000); !errors.Is(err, ErrDuplicateEscrow) {
		t.Errorf("second Open = %v, want ErrDuplicateEscrow", err)
	}

	// The pair is ordered, so the reverse direction is a fresh pair.
	// The escrow counter was untouched by the failed open.
	id, err := ledger.Open(asParty(testServer), testServer, testClient, 500)
	if err != nil {
		t.Fatalf("Open reversed pair: %v", err)
	}
	if id != 1 {
		t.Errorf("reversed-pair escrow id = %d, want 1", id)
	}
}

func TestOpenUnauthorized(t *testing.T) {
	ledger, _ := newTestLedger(t)

	// Authenticated as the server, claiming to open as the client.
	_, err := ledger.Open(asParty(testServer), testClient, testServer, 1_000_000)
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("Open = %v, want ErrUnauthorized", err)
	}

	// Nothing was written.
	if _, ok, _ := ledger.FindEscrow(context.Background(), testClient, testServer); ok {
		t.Error("escrow exists after failed open")
	}
}

func TestDeposit(t *testing.T) {
	ledger, pub := newTestLedger(t)
	clientCtx := asParty(testClient)

	id, err := ledger.Open(clientCtx, testClient, testServer, 5_000_000)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := ledger.Deposit(clientCtx, id, 2_000_000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}

	balance, _ := ledger.GetBalance(context.Background(), id)
	if balance != 7_000_000 {
		t.Errorf("balance after deposit = %d, want 7000000", balance)
	}

	event, _ := pub.last()
	if event.Type != events.EventEscrowDeposited {
		t.Errorf("last event type = %q, want %q", event.Type, events.EventEscrowDeposited)
	}
}

func TestDepositUnknownEscrow(t *testing.T) {
	ledger, _ := newTestLedger(t)
	if err := ledger.Deposit(asParty(testClient), 99, 100); !errors.Is(err, ErrEscrowNotFound) {
		t.Errorf("Deposit = %v, want ErrEscrowNotFound", err)
	}
}

func TestDepositRequiresClient(t *testing.T) {
	ledger, _ := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 1_000)

	if err := ledger.Deposit(asParty(testServer), id, 500); !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("server Deposit = %v, want ErrUnauthorized", err)
	}

	balance, _ := ledger.GetBalance(context.Background(), id)
	if balance != 1_000 {
		t.Errorf("balance changed by failed deposit: %d", balance)
	}
}

func TestFindEscrow(t *testing.T) {
	ledger, _ := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 1_000)

	got, ok, err := ledger.FindEscrow(context.Background(), testClient, testServer)
	if err != nil || !ok || got != id {
		t.Errorf("FindEscrow = (%d, %v, %v), want (%d, true, nil)", got, ok, err, id)
	}

	if _, ok, _ := ledger.FindEscrow(context.Background(), testClient, "someone-else"); ok {
		t.Error("FindEscrow resolved a pair that was never opened")
	}
}

func TestClosureClientFirst(t *testing.T) {
	ledger, pub := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 3_000_000)

	remaining, err := ledger.ClientClose(asParty(testClient), id)
	if err != nil {
		t.Fatalf("ClientClose: %v", err)
	}
	if remaining != nil {
		t.Errorf("first close returned remaining %d, want nil", *remaining)
	}

	escrow, err := ledger.GetEscrow(context.Background(), id)
	if err != nil {
		t.Fatalf("GetEscrow after first close: %v", err)
	}
	if !escrow.ClientClosed || escrow.ServerClosed {
		t.Errorf("flags = (%v, %v), want (true, false)", escrow.ClientClosed, escrow.ServerClosed)
	}
	if escrow.ClosureState() != models.EscrowStateClientPending {
		t.Errorf("state = %q, want %q", escrow.ClosureState(), models.EscrowStateClientPending)
	}

	remaining, err = ledger.ServerClose(asParty(testServer), id)
	if err != nil {
		t.Fatalf("ServerClose: %v", err)
	}
	if remaining == nil || *remaining != 3_000_000 {
		t.Fatalf("second close remaining = %v, want 3000000", remaining)
	}

	if _, err := ledger.GetEscrow(context.Background(), id); !errors.Is(err, ErrEscrowNotFound) {
		t.Errorf("GetEscrow after closure = %v, want ErrEscrowNotFound", err)
	}
	if _, ok, _ := ledger.FindEscrow(context.Background(), testClient, testServer); ok {
		t.Error("pair index entry survived closure")
	}

	event, _ := pub.last()
	if event.Type != events.EventEscrowClosed {
		t.Errorf("last event type = %q, want %q", event.Type, events.EventEscrowClosed)
	}
}

func TestClosureServerFirst(t *testing.T) {
	ledger, _ := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 3_000_000)

	remaining, err := ledger.ServerClose(asParty(testServer), id)
	if err != nil || remaining != nil {
		t.Fatalf("first ServerClose = (%v, %v), want (nil, nil)", remaining, err)
	}

	remaining, err = ledger.ClientClose(asParty(testClient), id)
	if err != nil {
		t.Fatalf("ClientClose: %v", err)
	}
	if remaining == nil || *remaining != 3_000_000 {
		t.Fatalf("closure remaining = %v, want 3000000 (same as client-first ordering)", remaining)
	}

	if _, ok, _ := ledger.FindEscrow(context.Background(), testClient, testServer); ok {
		t.Error("pair index entry survived closure")
	}
}

func TestRepeatedSameSideClose(t *testing.T) {
	ledger, _ := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 1_000)

	for i := 0; i < 3; i++ {
		remaining, err := ledger.ClientClose(asParty(testClient), id)
		if err != nil || remaining != nil {
			t.Fatalf("ClientClose #%d = (%v, %v), want (nil, nil)", i+1, remaining, err)
		}
	}

	escrow, _ := ledger.GetEscrow(context.Background(), id)
	if escrow.ClosureState() != models.EscrowStateClientPending {
		t.Errorf("state after repeated closes = %q, want %q",
			escrow.ClosureState(), models.EscrowStateClientPending)
	}
}

func TestCloseUnauthorized(t *testing.T) {
	ledger, _ := newTestLedger(t)
	id, _ := ledger.Open(asParty(testClient), testClient, testServer, 1_000)

	if _, err := ledger.ClientClose(asParty(testServer), id); !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("ClientClose as server = %v, want ErrUnauthorized", err)
	}
	if _, err := ledger.ServerClose(asParty(testClient), id); !errors.Is(err, auth.ErrUnauthorized) {
		t.Errorf("ServerClose as client = %v, want ErrUnauthorized", err)
	}

	escrow, _ := ledger.GetEscrow(context.Background(), id)
	if escrow.ClientClosed || escrow.ServerClosed {
		t.Error("close flags set by unauthorized calls")
	}
}

func TestReopenAfterClosure(t *testing.T) {
	ledger, _ := newTestLedger(t)

	first, _ := ledger.Open(asParty(testClient), testClient, testServer, 1_000)
	_, _ = ledger.ClientClose(asParty(testClient), first)
	_, _ = ledger.ServerClose(asParty(testServer), first)

	// The pair is free again, and the id counter never reuses ids.
	second, err := ledger.Open(asParty(testClient), testClient, testServer, 2_000)
	if err != nil {
		t.Fatalf("reopen after closure: %v", err)
	}
	if second != first+1 {
		t.Errorf("reopened escrow id = %d, want %d", second, first+1)
	}

	escrow, _ := ledger.GetEscrow(context.Background(), second)
	if escrow.ClientClosed || escrow.ServerClosed {
		t.Error("fresh escrow inherited close flags")
	}
}
