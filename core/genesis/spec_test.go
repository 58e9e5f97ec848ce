package genesis

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/stretchr/testify/require"

	"bountychain/core/state"
	"bountychain/storage"
)

func key(b byte) common.PublicKey {
	var k common.PublicKey
	k[0] = b
	k[31] = b
	return k
}

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genesis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAndApply(t *testing.T) {
	alice, bob, usdc := key(1), key(2), key(9)
	path := writeSpec(t, fmt.Sprintf(`alloc:
  - owner: %s
    mint: %s
    amount: "1000"
  - owner: %s
    mint: %s
    amount: " 250 "
`, bob.ToBase58(), usdc.ToBase58(), alice.ToBase58(), usdc.ToBase58()))

	spec, err := LoadSpec(path)
	require.NoError(t, err)
	require.Len(t, spec.Alloc, 2)

	mgr := state.NewManager(storage.NewMemDB())
	applied, err := Apply(spec, mgr)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	require.Equal(t, alice, applied[0].Owner, "allocations are applied in owner order")

	bal, err := mgr.TokenBalance(bob, usdc)
	require.NoError(t, err)
	require.Equal(t, uint64(1000), bal.Uint64())
	bal, err = mgr.TokenBalance(alice, usdc)
	require.NoError(t, err)
	require.Equal(t, uint64(250), bal.Uint64())
}

func TestLoadSpecRejectsUnknownFields(t *testing.T) {
	path := writeSpec(t, "allocations: []\n")
	_, err := LoadSpec(path)
	require.Error(t, err)

	_, err = LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestAllocationsValidation(t *testing.T) {
	owner, mint := key(1).ToBase58(), key(2).ToBase58()
	cases := []struct {
		name  string
		alloc AllocSpec
	}{
		{"bad owner", AllocSpec{Owner: "nope!", Mint: mint, Amount: "1"}},
		{"bad mint", AllocSpec{Owner: owner, Mint: "", Amount: "1"}},
		{"bad amount", AllocSpec{Owner: owner, Mint: mint, Amount: "1.5"}},
		{"zero amount", AllocSpec{Owner: owner, Mint: mint, Amount: "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := &Spec{Alloc: []AllocSpec{tc.alloc}}
			_, err := spec.Allocations()
			require.Error(t, err)
		})
	}

	dup := &Spec{Alloc: []AllocSpec{
		{Owner: owner, Mint: mint, Amount: "1"},
		{Owner: owner, Mint: mint, Amount: "2"},
	}}
	_, err := dup.Allocations()
	require.ErrorContains(t, err, "duplicates")

	var nilSpec *Spec
	_, err = nilSpec.Allocations()
	require.Error(t, err)
}

func TestApplyLeavesStateUntouchedOnInvalidSpec(t *testing.T) {
	mgr := state.NewManager(storage.NewMemDB())
	spec := &Spec{Alloc: []AllocSpec{
		{Owner: key(1).ToBase58(), Mint: key(2).ToBase58(), Amount: "5"},
		{Owner: key(3).ToBase58(), Mint: key(2).ToBase58(), Amount: "x"},
	}}
	_, err := Apply(spec, mgr)
	require.Error(t, err)

	bal, err := mgr.TokenBalance(key(1), key(2))
	require.NoError(t, err)
	require.True(t, bal.IsZero())
}
