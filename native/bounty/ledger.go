package bounty

import (
	"fmt"

	"github.com/blocto/solana-go-sdk/common"
)

// Ledger is the ordered participant list of an open bounty. Addresses are
// unique, amounts are non-zero and the list never exceeds MaxParticipants.
type Ledger []Participant

// Len returns the number of participants.
func (l Ledger) Len() int { return len(l) }

// Clone returns an independent copy of the ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}

func (l Ledger) index(addr common.PublicKey) int {
	for i := range l {
		if l[i].Address == addr {
			return i
		}
	}
	return -1
}

// Contains reports whether addr has an entry.
func (l Ledger) Contains(addr common.PublicKey) bool { return l.index(addr) >= 0 }

// Find returns the entry for addr.
func (l Ledger) Find(addr common.PublicKey) (Participant, bool) {
	if i := l.index(addr); i >= 0 {
		return l[i], true
	}
	return Participant{}, false
}

// Add appends a new participant. The address must not be present already and
// the ledger must have room.
func (l *Ledger) Add(addr common.PublicKey, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: zero participant amount", ErrInvalidArgument)
	}
	if l.Contains(addr) {
		return fmt.Errorf("%w: %s", ErrParticipantAlreadyExists, addr.ToBase58())
	}
	if len(*l) >= MaxParticipants {
		return fmt.Errorf("%w: ledger full (%d participants)", ErrInsufficientShares, MaxParticipants)
	}
	*l = append(*l, Participant{Address: addr, Amount: amount})
	return nil
}

// Increase grows an existing participant's share. It never changes the
// number of entries.
func (l Ledger) Increase(addr common.PublicKey, amount uint64) error {
	i := l.index(addr)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantDoesNotExist, addr.ToBase58())
	}
	next, err := checkedAdd(l[i].Amount, amount)
	if err != nil {
		return err
	}
	l[i].Amount = next
	return nil
}

// Credit increases an existing share or inserts a new one.
func (l *Ledger) Credit(addr common.PublicKey, amount uint64) error {
	if l.Contains(addr) {
		return l.Increase(addr, amount)
	}
	return l.Add(addr, amount)
}

// Decrease shrinks a participant's share. An entry that reaches zero is
// removed so that no zero share is ever stored.
func (l *Ledger) Decrease(addr common.PublicKey, amount uint64) error {
	i := l.index(addr)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrParticipantDoesNotExist, addr.ToBase58())
	}
	next, err := checkedSub((*l)[i].Amount, amount)
	if err != nil {
		return err
	}
	if next == 0 {
		*l = append((*l)[:i], (*l)[i+1:]...)
		return nil
	}
	(*l)[i].Amount = next
	return nil
}

// Remove deletes addr's entry and returns its share.
func (l *Ledger) Remove(addr common.PublicKey) (uint64, error) {
	entry, ok := l.Find(addr)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrParticipantDoesNotExist, addr.ToBase58())
	}
	if err := l.Decrease(addr, entry.Amount); err != nil {
		return 0, err
	}
	return entry.Amount, nil
}

// Total returns the sum of all shares.
func (l Ledger) Total() (uint64, error) {
	var total uint64
	for _, p := range l {
		next, err := checkedAdd(total, p.Amount)
		if err != nil {
			return 0, err
		}
		total = next
	}
	return total, nil
}

// ValidateEmpty fails while any participant still holds a share.
func (l Ledger) ValidateEmpty() error {
	if len(l) != 0 {
		return fmt.Errorf("%w: %d participants remain", ErrParticipantAlreadyExists, len(l))
	}
	return nil
}

// Validate checks the ledger invariants.
func (l Ledger) Validate() error {
	if len(l) > MaxParticipants {
		return fmt.Errorf("%w: %d participants exceeds %d", ErrInvalidState, len(l), MaxParticipants)
	}
	seen := make(map[common.PublicKey]struct{}, len(l))
	for _, p := range l {
		if p.Amount == 0 {
			return fmt.Errorf("%w: zero share for %s", ErrInvalidState, p.Address.ToBase58())
		}
		if _, dup := seen[p.Address]; dup {
			return fmt.Errorf("%w: duplicate participant %s", ErrInvalidState, p.Address.ToBase58())
		}
		seen[p.Address] = struct{}{}
	}
	return nil
}
