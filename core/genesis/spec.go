package genesis

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"
	"gopkg.in/yaml.v3"

	"bountychain/crypto"
)

// Spec is the YAML document that seeds token balances into a fresh store.
type Spec struct {
	Alloc []AllocSpec `yaml:"alloc"`
}

// AllocSpec credits Amount units of Mint to Owner.
type AllocSpec struct {
	Owner  string `yaml:"owner"`
	Mint   string `yaml:"mint"`
	Amount string `yaml:"amount"`
}

// Allocation is a parsed AllocSpec.
type Allocation struct {
	Owner  common.PublicKey
	Mint   common.PublicKey
	Amount *uint256.Int
}

// LoadSpec reads and decodes a genesis file. Unknown fields are rejected.
func LoadSpec(path string) (*Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genesis: %w", err)
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	var spec Spec
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("decode genesis: %w", err)
	}
	return &spec, nil
}

// Allocations parses and validates every entry. Duplicate (owner, mint)
// pairs are rejected.
func (s *Spec) Allocations() ([]Allocation, error) {
	if s == nil {
		return nil, errors.New("genesis spec must not be nil")
	}
	out := make([]Allocation, 0, len(s.Alloc))
	type pair struct{ owner, mint common.PublicKey }
	seen := make(map[pair]struct{}, len(s.Alloc))
	for i, entry := range s.Alloc {
		owner, err := crypto.ParsePublicKey(entry.Owner)
		if err != nil {
			return nil, fmt.Errorf("alloc[%d] owner: %w", i, err)
		}
		mint, err := crypto.ParsePublicKey(entry.Mint)
		if err != nil {
			return nil, fmt.Errorf("alloc[%d] mint: %w", i, err)
		}
		amount, err := uint256.FromDecimal(strings.TrimSpace(entry.Amount))
		if err != nil {
			return nil, fmt.Errorf("alloc[%d] amount %q: %w", i, entry.Amount, err)
		}
		if amount.IsZero() {
			return nil, fmt.Errorf("alloc[%d] amount must be positive", i)
		}
		key := pair{owner: owner, mint: mint}
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("alloc[%d] duplicates %s/%s", i, entry.Owner, entry.Mint)
		}
		seen[key] = struct{}{}
		out = append(out, Allocation{Owner: owner, Mint: mint, Amount: amount})
	}
	return out, nil
}
