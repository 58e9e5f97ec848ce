package genesis

import (
	"bytes"
	"fmt"
	"sort"

	"bountychain/native/bank"
)

// Apply mints every allocation into st. Allocations are applied in
// (owner, mint) byte order so the resulting writes are deterministic.
func Apply(spec *Spec, st bank.BalanceState) ([]Allocation, error) {
	if st == nil {
		return nil, fmt.Errorf("genesis state must not be nil")
	}
	allocs, err := spec.Allocations()
	if err != nil {
		return nil, err
	}
	sort.Slice(allocs, func(i, j int) bool {
		if c := bytes.Compare(allocs[i].Owner[:], allocs[j].Owner[:]); c != 0 {
			return c < 0
		}
		return bytes.Compare(allocs[i].Mint[:], allocs[j].Mint[:]) < 0
	})
	for _, alloc := range allocs {
		if err := bank.Mint(st, alloc.Owner, alloc.Mint, alloc.Amount); err != nil {
			return nil, fmt.Errorf("mint %s to %s: %w", alloc.Amount.Dec(), alloc.Owner.ToBase58(), err)
		}
	}
	return allocs, nil
}
