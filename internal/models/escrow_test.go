package models

import "testing"

func TestClosureState(t *testing.T) {
	tests := []struct {
		name         string
		clientClosed bool
		serverClosed bool
		want         string
	}{
		{"both open", false, false, EscrowStateOpen},
		{"client pending", true, false, EscrowStateClientPending},
		{"server pending", false, true, EscrowStateServerPending},
		// Both flags true only exists transiently inside the close
		// operation, right before deletion. The helper falls back to
		// "open" rather than inventing a fourth state.
		{"both set", true, true, EscrowStateOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Escrow{ClientClosed: tt.clientClosed, ServerClosed: tt.serverClosed}
			if got := e.ClosureState(); got != tt.want {
				t.Errorf("ClosureState() = %q, want %q", got, tt.want)
			}
		})
	}
}
