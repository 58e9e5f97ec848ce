package state

import (
	"errors"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"bountychain/storage"
)

var errNotTransactional = errors.New("state: manager is not a transaction")

// Manager reads and writes RLP-encoded state records on a key-value store.
// Keys are keccak256 hashes of a namespaced preimage.
type Manager struct {
	db      storage.Database
	overlay *storage.Overlay
}

// NewManager creates a state manager operating on the provided database.
func NewManager(db storage.Database) *Manager {
	return &Manager{db: db}
}

// Begin returns a manager whose writes are buffered until Commit. Reads see
// the buffered writes layered over the parent state.
func (m *Manager) Begin() *Manager {
	ov := storage.NewOverlay(m.db)
	return &Manager{db: ov, overlay: ov}
}

// Commit flushes a transaction's writes to the parent store in one batch.
func (m *Manager) Commit() error {
	if m.overlay == nil {
		return errNotTransactional
	}
	return m.overlay.Commit()
}

// Discard drops a transaction's buffered writes.
func (m *Manager) Discard() {
	if m.overlay != nil {
		m.overlay.Discard()
	}
}

func hashedKey(prefix []byte, parts ...[]byte) []byte {
	size := len(prefix)
	for _, p := range parts {
		size += len(p)
	}
	buf := make([]byte, 0, size)
	buf = append(buf, prefix...)
	for _, p := range parts {
		buf = append(buf, p...)
	}
	return ethcrypto.Keccak256(buf)
}

func (m *Manager) put(key []byte, value interface{}) error {
	encoded, err := rlp.EncodeToBytes(value)
	if err != nil {
		return err
	}
	return m.db.Put(key, encoded)
}

// get decodes the record under key into out and reports whether it existed.
func (m *Manager) get(key []byte, out interface{}) (bool, error) {
	data, err := m.db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(data) == 0 {
		return false, nil
	}
	if err := rlp.DecodeBytes(data, out); err != nil {
		return false, fmt.Errorf("state: decode record: %w", err)
	}
	return true, nil
}

func (m *Manager) delete(key []byte) error {
	return m.db.Delete(key)
}
