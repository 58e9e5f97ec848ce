package bounty

import (
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
)

// Limits enforced on bounty metadata and the participant ledger.
const (
	MaxNameLength        = 20
	MaxDescriptionLength = 200
	MaxParticipants      = 10
)

// BountyType selects whether a bounty pools contributions.
type BountyType uint8

const (
	BountySolo BountyType = iota
	BountyOpen
)

// VoteType records how claims against the bounty are meant to be decided.
type VoteType uint8

const (
	VotePoidh VoteType = iota
	VoteGeneric
)

// ParseBountyType decodes a raw bounty type value.
func ParseBountyType(raw uint8) (BountyType, error) {
	t := BountyType(raw)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown bounty type %d", ErrInvalidArgument, raw)
	}
	return t, nil
}

// ParseVoteType decodes a raw vote type value.
func ParseVoteType(raw uint8) (VoteType, error) {
	t := VoteType(raw)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: unknown vote type %d", ErrInvalidArgument, raw)
	}
	return t, nil
}

// ParseBountyTypeName accepts "solo" or "open" in any case.
func ParseBountyTypeName(name string) (BountyType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "solo":
		return BountySolo, nil
	case "open":
		return BountyOpen, nil
	default:
		return 0, fmt.Errorf("%w: unknown bounty type %q", ErrInvalidArgument, name)
	}
}

// ParseVoteTypeName accepts "poidh" or "generic" in any case.
func ParseVoteTypeName(name string) (VoteType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "poidh":
		return VotePoidh, nil
	case "generic":
		return VoteGeneric, nil
	default:
		return 0, fmt.Errorf("%w: unknown vote type %q", ErrInvalidArgument, name)
	}
}

// Valid reports whether t is a known bounty type.
func (t BountyType) Valid() bool { return t == BountySolo || t == BountyOpen }

// String returns the lowercase name used in config and events.
func (t BountyType) String() string {
	switch t {
	case BountySolo:
		return "solo"
	case BountyOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Valid reports whether t is a known vote type.
func (t VoteType) Valid() bool { return t == VotePoidh || t == VoteGeneric }

// String returns the lowercase name used in config and events.
func (t VoteType) String() string {
	switch t {
	case VotePoidh:
		return "poidh"
	case VoteGeneric:
		return "generic"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// Key addresses a bounty record. Authority and Mint together are unique.
type Key struct {
	Authority common.PublicKey
	Mint      common.PublicKey
}

func (k Key) String() string {
	return k.Authority.ToBase58() + "/" + k.Mint.ToBase58()
}

// Votes is the claim vote tally. No engine operation mutates it.
type Votes struct {
	Yes      uint64
	No       uint64
	Deadline int64
}

// Participant is one contributor's cumulative share of an open bounty.
type Participant struct {
	Address common.PublicKey
	Amount  uint64
}

// Bounty is the escrow record. Amount is the creator's original deposit and
// is never changed after creation; pooled contributions are tracked in
// Participants and in the custody balance.
type Bounty struct {
	Authority    common.PublicKey
	Mint         common.PublicKey
	PaymentMint  common.PublicKey
	Name         string
	Description  string
	Amount       uint64
	Claimer      common.PublicKey
	CreatedAt    int64
	ClaimID      uint64
	Votes        Votes
	Participants Ledger
	BountyType   BountyType
	VoteType     VoteType
	Bump         uint8
}

// Key returns the storage key of the bounty.
func (b *Bounty) Key() Key {
	return Key{Authority: b.Authority, Mint: b.Mint}
}

// Clone returns a deep copy of the bounty so callers can safely mutate the
// copy without affecting the stored instance.
func (b *Bounty) Clone() *Bounty {
	if b == nil {
		return nil
	}
	clone := *b
	clone.Participants = b.Participants.Clone()
	return &clone
}

// ValidateText enforces the name and description bounds.
func ValidateText(name, description string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d bytes", ErrInvalidArgument, MaxNameLength)
	}
	if len(description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description exceeds %d bytes", ErrInvalidArgument, MaxDescriptionLength)
	}
	return nil
}

// Validate checks the record invariants. Stores call it before persisting so
// that overlong or inconsistent records are rejected rather than truncated.
func (b *Bounty) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil bounty", ErrInvalidState)
	}
	if err := ValidateText(b.Name, b.Description); err != nil {
		return err
	}
	if !b.BountyType.Valid() {
		return fmt.Errorf("%w: bounty type %d", ErrInvalidState, uint8(b.BountyType))
	}
	if !b.VoteType.Valid() {
		return fmt.Errorf("%w: vote type %d", ErrInvalidState, uint8(b.VoteType))
	}
	if err := b.Participants.Validate(); err != nil {
		return err
	}
	// Open ledgers may drain to empty through withdrawals; only solo bounties
	// have a fixed shape.
	if b.BountyType == BountySolo && b.Participants.Len() != 0 {
		return fmt.Errorf("%w: solo bounty with participants", ErrInvalidState)
	}
	return nil
}
