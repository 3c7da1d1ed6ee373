package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrWeakPassphrase    = errors.New("passphrase must be at least 8 characters")
)

// PassphraseGate verifies a shared passphrase against a bcrypt hash.
// The hash comes from the environment; no credential store is involved.
type PassphraseGate struct {
	hash []byte
}

// NewPassphraseGate creates a gate from a bcrypt hash string.
func NewPassphraseGate(hash string) *PassphraseGate {
	return &PassphraseGate{hash: []byte(hash)}
}

// Verify checks the passphrase against the stored hash.
func (g *PassphraseGate) Verify(passphrase string) error {
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(passphrase)); err != nil {
		return ErrInvalidPassphrase
	}
	return nil
}

// HashPassphrase produces a bcrypt hash suitable for the gate. Used by the
// CLI to provision BILLING_PASSPHRASE_HASH.
func HashPassphrase(passphrase string) (string, error) {
	if len(passphrase) < 8 {
		return "", ErrWeakPassphrase
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash passphrase: %w", err)
	}
	return string(hash), nil
}
