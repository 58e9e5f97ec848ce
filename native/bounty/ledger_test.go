package bounty

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerAddAndIncrease(t *testing.T) {
	var l Ledger
	require.NoError(t, l.Add(creator, 5))
	require.ErrorIs(t, l.Add(creator, 1), ErrParticipantAlreadyExists)
	require.ErrorIs(t, l.Add(bob, 0), ErrInvalidArgument)
	require.ErrorIs(t, l.Increase(bob, 1), ErrParticipantDoesNotExist)

	require.NoError(t, l.Credit(bob, 3))
	require.NoError(t, l.Credit(bob, 4))
	entry, ok := l.Find(bob)
	require.True(t, ok)
	require.Equal(t, uint64(7), entry.Amount)
	require.Equal(t, 2, l.Len())
}

func TestLedgerCapacity(t *testing.T) {
	var l Ledger
	for i := 0; i < MaxParticipants; i++ {
		require.NoError(t, l.Add(newTestKey(byte(0x40+i)), 1))
	}
	require.ErrorIs(t, l.Add(newTestKey(0x7F), 1), ErrInsufficientShares)
	require.NoError(t, l.Credit(newTestKey(0x40), 1))
	require.Equal(t, MaxParticipants, l.Len())
}

func TestLedgerDecreaseRemovesDrainedEntries(t *testing.T) {
	l := Ledger{{Address: creator, Amount: 10}, {Address: bob, Amount: 3}, {Address: mallory, Amount: 1}}
	require.NoError(t, l.Decrease(bob, 2))
	entry, _ := l.Find(bob)
	require.Equal(t, uint64(1), entry.Amount)

	require.ErrorIs(t, l.Decrease(bob, 2), ErrArithmeticUnderflow)

	share, err := l.Remove(bob)
	require.NoError(t, err)
	require.Equal(t, uint64(1), share)
	require.Equal(t, Ledger{{Address: creator, Amount: 10}, {Address: mallory, Amount: 1}}, l)

	_, err = l.Remove(bob)
	require.ErrorIs(t, err, ErrParticipantDoesNotExist)
}

func TestLedgerTotalAndEmpty(t *testing.T) {
	l := Ledger{{Address: creator, Amount: 10}, {Address: bob, Amount: 5}}
	total, err := l.Total()
	require.NoError(t, err)
	require.Equal(t, uint64(15), total)
	require.ErrorIs(t, l.ValidateEmpty(), ErrParticipantAlreadyExists)
	require.NoError(t, Ledger(nil).ValidateEmpty())

	huge := Ledger{{Address: creator, Amount: ^uint64(0)}, {Address: bob, Amount: 1}}
	_, err = huge.Total()
	require.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestLedgerValidate(t *testing.T) {
	require.NoError(t, Ledger{{Address: creator, Amount: 1}}.Validate())
	require.ErrorIs(t, Ledger{{Address: creator, Amount: 0}}.Validate(), ErrInvalidState)
	require.ErrorIs(t, Ledger{{Address: creator, Amount: 1}, {Address: creator, Amount: 2}}.Validate(), ErrInvalidState)

	var full Ledger
	for i := 0; i <= MaxParticipants; i++ {
		full = append(full, Participant{Address: newTestKey(byte(i + 1)), Amount: 1})
	}
	require.ErrorIs(t, full.Validate(), ErrInvalidState)
}

func TestLedgerCloneIsIndependent(t *testing.T) {
	l := Ledger{{Address: creator, Amount: 1}}
	c := l.Clone()
	require.NoError(t, c.Increase(creator, 1))
	require.Equal(t, uint64(1), l[0].Amount)
	require.Nil(t, Ledger(nil).Clone())
}
