// Package crypto generates the RSA key pair stamped onto a newly created
// actor's sec:publicKey entity. Private key material produced here must
// never be handed to the assembler; callers keep it confined to the
// meta side of a StoreItem.
package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
)

const keyBits = 2048

// KeyPair holds a PEM-encoded RSA key pair for an actor.
type KeyPair struct {
	PrivateKeyPEM string
	PublicKeyPEM  string
}

// GenerateActorKeyPair generates a fresh 2048-bit RSA key pair, PEM-encoded
// (private key as PKCS#1, public key as PKIX), suitable for an actor's
// sec:publicKey entity.
func GenerateActorKeyPair() (KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return KeyPair{}, fmt.Errorf("generate rsa key: %w", err)
	}

	privDER := x509.MarshalPKCS1PrivateKey(key)
	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: privDER,
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("marshal public key: %w", err)
	}
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	return KeyPair{
		PrivateKeyPEM: string(privPEM),
		PublicKeyPEM:  string(pubPEM),
	}, nil
}

// ParsePrivateKeyPEM decodes a PKCS#1 PEM-encoded RSA private key, as
// produced by GenerateActorKeyPair.
func ParsePrivateKeyPEM(pemStr string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode([]byte(pemStr))
	if block == nil {
		return nil, errors.New("no PEM block found")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return key, nil
}
