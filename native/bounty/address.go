package bounty

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

// SeedPrefix is the first seed of every bounty's program-derived address.
var SeedPrefix = []byte("bounty")

func authoritySeeds(authority, mint common.PublicKey) [][]byte {
	return [][]byte{SeedPrefix, authority.Bytes(), mint.Bytes()}
}

// DeriveAuthority returns the program-derived identity that controls the
// custody balance of the bounty keyed by (authority, mint), together with the
// bump seed that makes the address fall off the ed25519 curve.
func DeriveAuthority(programID, authority, mint common.PublicKey) (common.PublicKey, uint8, error) {
	addr, bump, err := common.FindProgramAddress(authoritySeeds(authority, mint), programID)
	if err != nil {
		return common.PublicKey{}, 0, fmt.Errorf("%w: derive custody authority: %v", ErrInvalidState, err)
	}
	return addr, bump, nil
}

// CustodyAuthority recomputes the bounty's custody identity from its stored
// bump seed.
func (b *Bounty) CustodyAuthority(programID common.PublicKey) (common.PublicKey, error) {
	seeds := append(authoritySeeds(b.Authority, b.Mint), []byte{b.Bump})
	addr, err := common.CreateProgramAddress(seeds, programID)
	if err != nil {
		return common.PublicKey{}, fmt.Errorf("%w: custody authority for %s: %v", ErrInvalidState, b.Key(), err)
	}
	return addr, nil
}
