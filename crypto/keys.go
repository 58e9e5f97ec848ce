package crypto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// ErrInvalidPublicKey is returned when a base58 string does not decode to a
// 32-byte identity.
var ErrInvalidPublicKey = errors.New("crypto: invalid public key")

// ParsePublicKey decodes a base58 identity.
func ParsePublicKey(value string) (common.PublicKey, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return common.PublicKey{}, fmt.Errorf("%w: empty", ErrInvalidPublicKey)
	}
	raw, err := base58.Decode(trimmed)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != common.PublicKeyLength {
		return common.PublicKey{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidPublicKey, len(raw), common.PublicKeyLength)
	}
	return common.PublicKeyFromBytes(raw), nil
}

// MustPublicKey is ParsePublicKey for constants and tests.
func MustPublicKey(value string) common.PublicKey {
	key, err := ParsePublicKey(value)
	if err != nil {
		panic(err)
	}
	return key
}

// GenerateAccount creates a fresh ed25519 signer.
func GenerateAccount() types.Account {
	return types.NewAccount()
}

// AccountFromSecret restores a signer from its 64-byte secret (seed followed by
// public key).
func AccountFromSecret(secret []byte) (types.Account, error) {
	acc, err := types.AccountFromBytes(secret)
	if err != nil {
		return types.Account{}, fmt.Errorf("crypto: restore account: %w", err)
	}
	return acc, nil
}
