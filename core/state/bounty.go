package state

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"

	"bountychain/native/bounty"
)

var bountyPrefix = []byte("bounty:")

func bountyStorageKey(key bounty.Key) []byte {
	return hashedKey(bountyPrefix, key.Authority.Bytes(), key.Mint.Bytes())
}

type storedParticipant struct {
	Address common.PublicKey
	Amount  uint64
}

type storedBounty struct {
	Authority    common.PublicKey
	Mint         common.PublicKey
	PaymentMint  common.PublicKey
	Name         string
	Description  string
	Amount       uint64
	Claimer      common.PublicKey
	CreatedAt    uint64
	ClaimID      uint64
	VotesYes     uint64
	VotesNo      uint64
	VoteDeadline uint64
	Participants []storedParticipant
	BountyType   uint8
	VoteType     uint8
	Bump         uint8
}

func newStoredBounty(b *bounty.Bounty) *storedBounty {
	participants := make([]storedParticipant, 0, b.Participants.Len())
	for _, p := range b.Participants {
		participants = append(participants, storedParticipant{Address: p.Address, Amount: p.Amount})
	}
	return &storedBounty{
		Authority:    b.Authority,
		Mint:         b.Mint,
		PaymentMint:  b.PaymentMint,
		Name:         b.Name,
		Description:  b.Description,
		Amount:       b.Amount,
		Claimer:      b.Claimer,
		CreatedAt:    uint64(b.CreatedAt),
		ClaimID:      b.ClaimID,
		VotesYes:     b.Votes.Yes,
		VotesNo:      b.Votes.No,
		VoteDeadline: uint64(b.Votes.Deadline),
		Participants: participants,
		BountyType:   uint8(b.BountyType),
		VoteType:     uint8(b.VoteType),
		Bump:         b.Bump,
	}
}

func (s *storedBounty) toBounty() (*bounty.Bounty, error) {
	if s == nil {
		return nil, fmt.Errorf("state: nil bounty record")
	}
	out := &bounty.Bounty{
		Authority:   s.Authority,
		Mint:        s.Mint,
		PaymentMint: s.PaymentMint,
		Name:        s.Name,
		Description: s.Description,
		Amount:      s.Amount,
		Claimer:     s.Claimer,
		ClaimID:     s.ClaimID,
		CreatedAt:   int64(s.CreatedAt),
		Votes:       bounty.Votes{Yes: s.VotesYes, No: s.VotesNo, Deadline: int64(s.VoteDeadline)},
		BountyType:  bounty.BountyType(s.BountyType),
		VoteType:    bounty.VoteType(s.VoteType),
		Bump:        s.Bump,
	}
	if len(s.Participants) > 0 {
		out.Participants = make(bounty.Ledger, 0, len(s.Participants))
		for _, p := range s.Participants {
			out.Participants = append(out.Participants, bounty.Participant{Address: p.Address, Amount: p.Amount})
		}
	}
	return out, nil
}

// BountyPut validates and stores the bounty under (authority, mint).
// Overlong text or an oversized ledger is rejected, never truncated.
func (m *Manager) BountyPut(b *bounty.Bounty) error {
	if err := b.Validate(); err != nil {
		return err
	}
	return m.put(bountyStorageKey(b.Key()), newStoredBounty(b))
}

// BountyGet loads the bounty stored under key.
func (m *Manager) BountyGet(key bounty.Key) (*bounty.Bounty, bool, error) {
	var stored storedBounty
	ok, err := m.get(bountyStorageKey(key), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	b, err := stored.toBounty()
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// BountyDelete removes the bounty record.
func (m *Manager) BountyDelete(key bounty.Key) error {
	return m.delete(bountyStorageKey(key))
}
