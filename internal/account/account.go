// Package account generates publisher key pairs and derives their
// on-chain addresses.
package account

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/sha3"
)

// ed25519Scheme is the authentication-key scheme byte for single-key
// ed25519 accounts.
const ed25519Scheme = 0x00

// Account holds a publisher key pair. The address is derived, never
// stored: sha3-256(public key || scheme byte).
type Account struct {
	priv ed25519.PrivateKey
}

// Generate creates a fresh ed25519 account.
func Generate() (*Account, error) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key pair: %w", err)
	}
	return &Account{priv: priv}, nil
}

// FromPrivateKeyHex reconstructs an account from a hex-encoded 32-byte
// seed, with or without the 0x prefix.
func FromPrivateKeyHex(s string) (*Account, error) {
	seed, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return &Account{priv: ed25519.NewKeyFromSeed(seed)}, nil
}

// Address returns the 0x-prefixed hex account address.
func (a *Account) Address() string {
	pub := a.priv.Public().(ed25519.PublicKey)
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// PrivateKeyHex returns the 0x-prefixed hex seed. Handle with care.
func (a *Account) PrivateKeyHex() string {
	return "0x" + hex.EncodeToString(a.priv.Seed())
}

// PublicKeyHex returns the 0x-prefixed hex public key.
func (a *Account) PublicKeyHex() string {
	pub := a.priv.Public().(ed25519.PublicKey)
	return "0x" + hex.EncodeToString(pub)
}

// Sign signs msg with the account's private key.
func (a *Account) Sign(msg []byte) []byte {
	return ed25519.Sign(a.priv, msg)
}
