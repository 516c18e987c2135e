package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Party proof is the bootstrap credential for the token endpoint: the
// caller presents hex(HMAC-SHA256(auth_secret, party)) to prove it was
// provisioned with the shared secret for that party identifier.

func ComputePartyProof(secret, party string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(party))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifyPartyProof(secret, party, proof string) error {
	want, err := hex.DecodeString(ComputePartyProof(secret, party))
	if err != nil {
		return err
	}
	got, err := hex.DecodeString(proof)
	if err != nil {
		return fmt.Errorf("proof is not valid hex")
	}
	if !hmac.Equal(want, got) {
		return fmt.Errorf("proof mismatch for party %q", party)
	}
	return nil
}
