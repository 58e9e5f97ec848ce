package state

import (
	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"
)

var balancePrefix = []byte("balance:")

func balanceKey(owner, mint common.PublicKey) []byte {
	return hashedKey(balancePrefix, mint.Bytes(), []byte{':'}, owner.Bytes())
}

// TokenBalance returns owner's balance of mint. Missing balances are zero.
func (m *Manager) TokenBalance(owner, mint common.PublicKey) (*uint256.Int, error) {
	amount := new(uint256.Int)
	if _, err := m.get(balanceKey(owner, mint), amount); err != nil {
		return nil, err
	}
	return amount, nil
}

// SetTokenBalance stores owner's balance of mint. Zero balances are deleted
// so drained custody accounts leave no residue.
func (m *Manager) SetTokenBalance(owner, mint common.PublicKey, amount *uint256.Int) error {
	key := balanceKey(owner, mint)
	if amount == nil || amount.IsZero() {
		return m.delete(key)
	}
	return m.put(key, amount)
}
