package bounty

import (
	"strconv"

	"github.com/blocto/solana-go-sdk/common"

	"bountychain/core/types"
)

const (
	EventTypeBountyCreated   = "bounty.created"
	EventTypeBountyJoined    = "bounty.joined"
	EventTypeBountyWithdrawn = "bounty.withdrawn"
	EventTypeBountyClosed    = "bounty.closed"
)

// NewCreatedEvent returns the canonical event payload for a newly created
// bounty.
func NewCreatedEvent(b *Bounty, custody common.PublicKey) *types.Event {
	evt := newBountyEvent(EventTypeBountyCreated, b)
	if b != nil {
		evt.Attributes["custody"] = custody.ToBase58()
		evt.Attributes["name"] = b.Name
	}
	return evt
}

// NewJoinedEvent returns the payload emitted when a participant contributes to
// an open bounty.
func NewJoinedEvent(b *Bounty, participant common.PublicKey, amount uint64) *types.Event {
	return newParticipantEvent(EventTypeBountyJoined, b, participant, amount)
}

// NewWithdrawnEvent returns the payload emitted when a participant takes back
// their share.
func NewWithdrawnEvent(b *Bounty, participant common.PublicKey, amount uint64) *types.Event {
	return newParticipantEvent(EventTypeBountyWithdrawn, b, participant, amount)
}

// NewClosedEvent returns the payload emitted when the authority closes the
// bounty and the custody balance is refunded.
func NewClosedEvent(b *Bounty, refunded uint64) *types.Event {
	evt := newBountyEvent(EventTypeBountyClosed, b)
	if b != nil {
		evt.Attributes["refunded"] = strconv.FormatUint(refunded, 10)
	}
	return evt
}

func newParticipantEvent(eventType string, b *Bounty, participant common.PublicKey, amount uint64) *types.Event {
	evt := newBountyEvent(eventType, b)
	if b == nil {
		return evt
	}
	evt.Attributes["participant"] = participant.ToBase58()
	evt.Attributes["contribution"] = strconv.FormatUint(amount, 10)
	if share, ok := b.Participants.Find(participant); ok {
		evt.Attributes["share"] = strconv.FormatUint(share.Amount, 10)
	} else {
		evt.Attributes["share"] = "0"
	}
	return evt
}

func newBountyEvent(eventType string, b *Bounty) *types.Event {
	attrs := make(map[string]string)
	if b == nil {
		return &types.Event{Type: eventType, Attributes: attrs}
	}
	attrs["authority"] = b.Authority.ToBase58()
	attrs["mint"] = b.Mint.ToBase58()
	attrs["paymentMint"] = b.PaymentMint.ToBase58()
	attrs["amount"] = strconv.FormatUint(b.Amount, 10)
	attrs["bountyType"] = b.BountyType.String()
	attrs["voteType"] = b.VoteType.String()
	attrs["participants"] = strconv.Itoa(b.Participants.Len())
	attrs["createdAt"] = strconv.FormatInt(b.CreatedAt, 10)
	return &types.Event{Type: eventType, Attributes: attrs}
}
