package state

import (
	"bytes"
	"strings"
	"testing"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"bountychain/native/bounty"
	"bountychain/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db), db
}

func testKey(fill byte) common.PublicKey {
	var pk common.PublicKey
	copy(pk[:], bytes.Repeat([]byte{fill}, len(pk)))
	return pk
}

func sampleBounty() *bounty.Bounty {
	return &bounty.Bounty{
		Authority:   testKey(0x01),
		Mint:        testKey(0x02),
		PaymentMint: testKey(0x03),
		Name:        "Find a cat",
		Description: "Photo of a cat wearing a hat",
		Amount:      50,
		CreatedAt:   1_700_000_000,
		Votes:       bounty.Votes{Yes: 1, No: 2, Deadline: 1_700_086_400},
		Participants: bounty.Ledger{
			{Address: testKey(0x01), Amount: 50},
			{Address: testKey(0x04), Amount: 25},
		},
		BountyType: bounty.BountyOpen,
		VoteType:   bounty.VoteGeneric,
		Bump:       254,
	}
}

func TestManagerBountyRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	original := sampleBounty()
	require.NoError(t, mgr.BountyPut(original))

	stored, ok, err := mgr.BountyGet(original.Key())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, original, stored)

	stored.Participants[0].Amount = 1
	again, _, err := mgr.BountyGet(original.Key())
	require.NoError(t, err)
	require.Equal(t, uint64(50), again.Participants[0].Amount)

	require.NoError(t, mgr.BountyDelete(original.Key()))
	_, ok, err = mgr.BountyGet(original.Key())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestManagerBountyRejectsOversizedRecords(t *testing.T) {
	mgr, db := newTestManager(t)

	long := sampleBounty()
	long.Description = strings.Repeat("x", bounty.MaxDescriptionLength+1)
	require.ErrorIs(t, mgr.BountyPut(long), bounty.ErrInvalidArgument)

	crowded := sampleBounty()
	crowded.Participants = nil
	for i := 0; i <= bounty.MaxParticipants; i++ {
		crowded.Participants = append(crowded.Participants, bounty.Participant{Address: testKey(byte(0x10 + i)), Amount: 1})
	}
	require.ErrorIs(t, mgr.BountyPut(crowded), bounty.ErrInvalidState)
	require.Zero(t, db.Len())
}

func TestManagerSoloBountyHasNoParticipants(t *testing.T) {
	mgr, _ := newTestManager(t)
	solo := sampleBounty()
	solo.BountyType = bounty.BountySolo
	solo.Participants = nil
	require.NoError(t, mgr.BountyPut(solo))
	stored, ok, err := mgr.BountyGet(solo.Key())
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, stored.Participants)
}

func TestManagerTokenBalances(t *testing.T) {
	mgr, db := newTestManager(t)
	owner, mint := testKey(0x01), testKey(0x09)

	bal, err := mgr.TokenBalance(owner, mint)
	require.NoError(t, err)
	require.True(t, bal.IsZero())

	require.NoError(t, mgr.SetTokenBalance(owner, mint, uint256.NewInt(123)))
	bal, err = mgr.TokenBalance(owner, mint)
	require.NoError(t, err)
	require.Equal(t, uint64(123), bal.Uint64())

	other, err := mgr.TokenBalance(owner, testKey(0x08))
	require.NoError(t, err)
	require.True(t, other.IsZero())

	require.NoError(t, mgr.SetTokenBalance(owner, mint, new(uint256.Int)))
	require.Zero(t, db.Len())
}

func TestManagerTransactionCommitAndDiscard(t *testing.T) {
	mgr, db := newTestManager(t)
	b := sampleBounty()

	tx := mgr.Begin()
	require.NoError(t, tx.BountyPut(b))
	_, ok, err := tx.BountyGet(b.Key())
	require.NoError(t, err)
	require.True(t, ok)
	_, ok, err = mgr.BountyGet(b.Key())
	require.NoError(t, err)
	require.False(t, ok)
	tx.Discard()
	require.Zero(t, db.Len())

	tx = mgr.Begin()
	require.NoError(t, tx.BountyPut(b))
	require.NoError(t, tx.Commit())
	_, ok, err = mgr.BountyGet(b.Key())
	require.NoError(t, err)
	require.True(t, ok)

	require.ErrorIs(t, mgr.Commit(), errNotTransactional)
}

func TestManagerLevelDBPersistence(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.NewLevelDB(dir)
	require.NoError(t, err)
	b := sampleBounty()
	require.NoError(t, NewManager(db).BountyPut(b))
	db.Close()

	reopened, err := storage.NewLevelDB(dir)
	require.NoError(t, err)
	t.Cleanup(reopened.Close)
	stored, ok, err := NewManager(reopened).BountyGet(b.Key())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, b, stored)
}
