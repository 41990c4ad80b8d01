package domain

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// KeyLength is the decoded size of account addresses and principals.
const KeyLength = 32

// AccountRef is the base58 address of a token account held by the ledger.
type AccountRef string

// Principal is the base58 public key of an identity that may authorize debits.
type Principal string

// ParseAccountRef validates a base58 account address.
func ParseAccountRef(s string) (AccountRef, error) {
	if err := validateKey(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}

	return AccountRef(strings.TrimSpace(s)), nil
}

// ParsePrincipal validates a base58 principal key.
func ParsePrincipal(s string) (Principal, error) {
	if err := validateKey(s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	return Principal(strings.TrimSpace(s)), nil
}

// NewAccountRef generates a random account address.
func NewAccountRef() (AccountRef, error) {
	buf := make([]byte, KeyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return AccountRef(base58.Encode(buf)), nil
}

func (r AccountRef) String() string { return string(r) }

func (p Principal) String() string { return string(p) }

func validateKey(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("key is empty")
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return fmt.Errorf("key is not base58: %w", err)
	}

	if len(raw) != KeyLength {
		return fmt.Errorf("key must decode to %d bytes, got %d", KeyLength, len(raw))
	}

	return nil
}
