package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("secret", "client-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT("secret", token)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Party != "client-1" {
		t.Errorf("Party = %q, want %q", claims.Party, "client-1")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("secret", "client-1", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT("other-secret", token); err == nil {
		t.Error("ParseJWT with wrong secret should fail")
	}
}

func TestJWTExpired(t *testing.T) {
	// Signed directly: GenerateJWT never issues an already-expired
	// token, its non-positive expiration falls back to 24h.
	claims := Claims{
		Party: "client-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "client-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "x402-escrow",
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}
	if _, err := ParseJWT("secret", token); err == nil {
		t.Error("ParseJWT of expired token should fail")
	}
}

func TestJWTDefaultExpiration(t *testing.T) {
	// Non-positive lifetimes fall back to 24h rather than minting a
	// token that is dead on arrival.
	for _, expiration := range []time.Duration{0, -time.Minute} {
		token, err := GenerateJWT("secret", "client-1", expiration)
		if err != nil {
			t.Fatalf("GenerateJWT(%v): %v", expiration, err)
		}
		claims, err := ParseJWT("secret", token)
		if err != nil {
			t.Fatalf("ParseJWT of fallback-lifetime token: %v", err)
		}
		if remaining := time.Until(claims.ExpiresAt.Time); remaining < 23*time.Hour {
			t.Errorf("fallback expiry %v from now, want about 24h", remaining)
		}
	}
}

func TestPartyProof(t *testing.T) {
	proof := ComputePartyProof("auth-secret", "server.example")

	if err := VerifyPartyProof("auth-secret", "server.example", proof); err != nil {
		t.Errorf("valid proof rejected: %v", err)
	}
	if err := VerifyPartyProof("auth-secret", "other.example", proof); err == nil {
		t.Error("proof for one party accepted for another")
	}
	if err := VerifyPartyProof("wrong-secret", "server.example", proof); err == nil {
		t.Error("proof accepted under wrong secret")
	}
	if err := VerifyPartyProof("auth-secret", "server.example", "not-hex"); err == nil {
		t.Error("non-hex proof accepted")
	}
}

func TestContextOracle(t *testing.T) {
	oracle := ContextOracle{}

	ctx := WithParty(context.Background(), "alice")
	if err := oracle.RequireAuthorized(ctx, "alice"); err != nil {
		t.Errorf("authorized party rejected: %v", err)
	}
	if err := oracle.RequireAuthorized(ctx, "bob"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("wrong party = %v, want ErrUnauthorized", err)
	}
	if err := oracle.RequireAuthorized(context.Background(), "alice"); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("anonymous context = %v, want ErrUnauthorized", err)
	}
}
