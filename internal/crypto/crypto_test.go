package crypto

import (
	"strings"
	"testing"
)

func TestGenerateActorKeyPair(t *testing.T) {
	pair, err := GenerateActorKeyPair()
	if err != nil {
		t.Fatalf("GenerateActorKeyPair: %v", err)
	}

	if !strings.Contains(pair.PrivateKeyPEM, "RSA PRIVATE KEY") {
		t.Fatalf("private key PEM missing header: %q", pair.PrivateKeyPEM)
	}
	if !strings.Contains(pair.PublicKeyPEM, "PUBLIC KEY") {
		t.Fatalf("public key PEM missing header: %q", pair.PublicKeyPEM)
	}

	key, err := ParsePrivateKeyPEM(pair.PrivateKeyPEM)
	if err != nil {
		t.Fatalf("ParsePrivateKeyPEM: %v", err)
	}
	if key.N.BitLen() < keyBits-1 {
		t.Fatalf("key bit length = %d, want ~%d", key.N.BitLen(), keyBits)
	}
}

func TestGenerateActorKeyPairUnique(t *testing.T) {
	a, err := GenerateActorKeyPair()
	if err != nil {
		t.Fatalf("GenerateActorKeyPair: %v", err)
	}
	b, err := GenerateActorKeyPair()
	if err != nil {
		t.Fatalf("GenerateActorKeyPair: %v", err)
	}

	if a.PrivateKeyPEM == b.PrivateKeyPEM {
		t.Fatal("two generated key pairs should differ")
	}
}

func TestParsePrivateKeyPEMInvalid(t *testing.T) {
	if _, err := ParsePrivateKeyPEM("not a pem"); err == nil {
		t.Fatal("expected error for invalid PEM")
	}
}
