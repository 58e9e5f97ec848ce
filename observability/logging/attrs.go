package logging

import (
	"log/slog"

	"github.com/blocto/solana-go-sdk/common"
)

const shortKeyChars = 4

// Short abbreviates a base58 identity to its first and last few characters.
func Short(value string) string {
	if len(value) <= 2*shortKeyChars+2 {
		return value
	}
	return value[:shortKeyChars] + ".." + value[len(value)-shortKeyChars:]
}

// Key renders a public key attribute in abbreviated form.
func Key(name string, key common.PublicKey) slog.Attr {
	return slog.String(name, Short(key.ToBase58()))
}
