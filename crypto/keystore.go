package crypto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/blocto/solana-go-sdk/types"
)

// SaveKeypair writes the account secret as a JSON byte array, the layout used
// by solana-keygen. The file is replaced atomically and left with 0600
// permissions.
func SaveKeypair(path string, acc types.Account) error {
	if path == "" {
		return errors.New("crypto: empty keypair path")
	}
	if len(acc.PrivateKey) == 0 {
		return errors.New("crypto: account has no secret")
	}
	ints := make([]int, len(acc.PrivateKey))
	for i, b := range acc.PrivateKey {
		ints[i] = int(b)
	}
	payload, err := json.Marshal(ints)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "keypair-")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// LoadKeypair reads a keypair file written by SaveKeypair or solana-keygen.
func LoadKeypair(path string) (types.Account, error) {
	if path == "" {
		return types.Account{}, errors.New("crypto: empty keypair path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, err
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return types.Account{}, fmt.Errorf("crypto: decode keypair %s: %w", path, err)
	}
	secret := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return types.Account{}, fmt.Errorf("crypto: keypair %s: byte %d out of range", path, i)
		}
		secret[i] = byte(v)
	}
	return AccountFromSecret(secret)
}
