package bounty

import (
	"errors"
	"fmt"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"

	"bountychain/core/events"
	"bountychain/core/types"
	"bountychain/native/bank"
	nativecommon "bountychain/native/common"
)

type engineState interface {
	BountyGet(key Key) (*Bounty, bool, error)
	BountyPut(b *Bounty) error
	BountyDelete(key Key) error
	TokenBalance(owner, mint common.PublicKey) (*uint256.Int, error)
	SetTokenBalance(owner, mint common.PublicKey, amount *uint256.Int) error
}

// Observer receives operation outcomes. observability/metrics implements it.
type Observer interface {
	ObserveOperation(op, outcome string)
	ObserveCustody(op string, amount uint64)
	ObserveParticipants(count int)
}

type bountyEvent struct {
	evt *types.Event
}

func (e bountyEvent) EventType() string {
	if e.evt == nil {
		return ""
	}
	return e.evt.Type
}

func (e bountyEvent) Event() *types.Event { return e.evt }

// CreateParams carries the caller-supplied fields of a new bounty. The type
// fields hold raw values and are decoded by Create.
type CreateParams struct {
	Mint        common.PublicKey
	PaymentMint common.PublicKey
	Name        string
	Description string
	Amount      uint64
	BountyType  uint8
	VoteType    uint8
}

// Engine wires the bounty business logic with external state, the custody
// transfer primitive and event emitters. Each method validates everything it
// needs before issuing a transfer, so a failed precondition never moves funds.
// Callers that need all-or-nothing persistence run the engine against a
// buffered state and commit only on success.
type Engine struct {
	state     engineState
	emitter   events.Emitter
	observer  Observer
	pauses    nativecommon.PauseView
	programID common.PublicKey
	nowFn     func() int64
}

// NewEngine creates a bounty engine for the given program identity with a
// no-op emitter.
func NewEngine(programID common.PublicKey) *Engine {
	return &Engine{
		programID: programID,
		emitter:   events.NoopEmitter{},
		nowFn:     func() int64 { return time.Now().Unix() },
	}
}

// SetState configures the state backend used by the engine. Operations issue
// the custody transfer before persisting the record, so state must buffer its
// writes and apply them only when the whole operation succeeds (see
// state.Manager.Begin).
func (e *Engine) SetState(state engineState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil resets
// the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetObserver configures the metrics sink. Nil disables observation.
func (e *Engine) SetObserver(observer Observer) { e.observer = observer }

// SetPauses configures the pause switches consulted before every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetNowFunc overrides the time source used by the engine. Primarily intended
// for tests to provide deterministic timestamps.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// ProgramID returns the program identity custody addresses are derived from.
func (e *Engine) ProgramID() common.PublicKey { return e.programID }

func (e *Engine) emit(event *types.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(bountyEvent{evt: event})
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

func (e *Engine) observe(op string, err error) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveOperation(op, Kind(err))
}

func (e *Engine) guard() error {
	if e == nil || e.state == nil {
		return errNilState
	}
	return nativecommon.Guard(e.pauses, nativecommon.ModuleBounty)
}

func (e *Engine) loadBounty(key Key) (*Bounty, error) {
	b, ok, err := e.state.BountyGet(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBountyNotFound, key)
	}
	return b, nil
}

func (e *Engine) transfer(from, to, mint, authorizer common.PublicKey, amount *uint256.Int) error {
	if err := bank.Transfer(e.state, from, to, mint, authorizer, amount); err != nil {
		if errors.Is(err, bank.ErrUnauthorized) {
			return fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		return fmt.Errorf("%w: %w", ErrTransferFailed, err)
	}
	return nil
}

// Get returns a copy of the bounty stored under key.
func (e *Engine) Get(key Key) (*Bounty, error) {
	if e == nil || e.state == nil {
		return nil, errNilState
	}
	b, err := e.loadBounty(key)
	if err != nil {
		return nil, err
	}
	return b.Clone(), nil
}

// CustodyBalance returns the pooled balance held by the bounty's derived
// authority.
func (e *Engine) CustodyBalance(key Key) (*uint256.Int, error) {
	b, err := e.Get(key)
	if err != nil {
		return nil, err
	}
	custody, err := b.CustodyAuthority(e.programID)
	if err != nil {
		return nil, err
	}
	return e.state.TokenBalance(custody, b.PaymentMint)
}

// Create escrows params.Amount from the issuer into a new custody balance and
// persists the bounty keyed by (issuer, params.Mint). Open bounties enrol the
// issuer as the first participant. The derived custody balance must be empty
// beforehand.
func (e *Engine) Create(issuer common.PublicKey, params CreateParams) (created *Bounty, err error) {
	defer func() { e.observe("create", err) }()
	if err := e.guard(); err != nil {
		return nil, err
	}
	bountyType, err := ParseBountyType(params.BountyType)
	if err != nil {
		return nil, err
	}
	voteType, err := ParseVoteType(params.VoteType)
	if err != nil {
		return nil, err
	}
	if params.Amount == 0 {
		return nil, fmt.Errorf("%w: bounty amount must be positive", ErrInvalidArgument)
	}
	if err := ValidateText(params.Name, params.Description); err != nil {
		return nil, err
	}
	key := Key{Authority: issuer, Mint: params.Mint}
	if _, exists, err := e.state.BountyGet(key); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: %s", ErrBountyExists, key)
	}
	custody, bump, err := DeriveAuthority(e.programID, issuer, params.Mint)
	if err != nil {
		return nil, err
	}
	b := &Bounty{
		Authority:   issuer,
		Mint:        params.Mint,
		PaymentMint: params.PaymentMint,
		Name:        params.Name,
		Description: params.Description,
		Amount:      params.Amount,
		CreatedAt:   e.now(),
		BountyType:  bountyType,
		VoteType:    voteType,
		Bump:        bump,
	}
	if bountyType == BountyOpen {
		if err := b.Participants.Add(issuer, params.Amount); err != nil {
			return nil, err
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	held, err := e.state.TokenBalance(custody, params.PaymentMint)
	if err != nil {
		return nil, err
	}
	if !held.IsZero() {
		return nil, fmt.Errorf("%w: custody %s already holds %s", ErrInvalidState, custody.ToBase58(), held.Dec())
	}
	if err := e.transfer(issuer, custody, params.PaymentMint, issuer, uint256.NewInt(params.Amount)); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.ObserveCustody("create", params.Amount)
		e.observer.ObserveParticipants(b.Participants.Len())
	}
	e.emit(NewCreatedEvent(b, custody))
	return b.Clone(), nil
}

// Join adds amount to the participant's share of an open bounty and moves the
// contribution into custody. The ledger change is computed and validated
// before any funds move, and a contribution that would push either the
// ledger total or the custody balance past u64 is refused.
func (e *Engine) Join(participant common.PublicKey, key Key, amount uint64) (updated *Bounty, err error) {
	defer func() { e.observe("join", err) }()
	if err := e.guard(); err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: join amount must be positive", ErrInvalidArgument)
	}
	stored, err := e.loadBounty(key)
	if err != nil {
		return nil, err
	}
	if stored.BountyType != BountyOpen {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotOpenBounty, key, stored.BountyType)
	}
	b := stored.Clone()
	if err := b.Participants.Credit(participant, amount); err != nil {
		return nil, err
	}
	if _, err := b.Participants.Total(); err != nil {
		return nil, err
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	custody, err := b.CustodyAuthority(e.programID)
	if err != nil {
		return nil, err
	}
	held, err := e.state.TokenBalance(custody, b.PaymentMint)
	if err != nil {
		return nil, err
	}
	if !held.IsUint64() {
		return nil, fmt.Errorf("%w: custody balance %s exceeds u64", ErrArithmeticOverflow, held.Dec())
	}
	if _, err := checkedAdd(held.Uint64(), amount); err != nil {
		return nil, err
	}
	if err := e.transfer(participant, custody, b.PaymentMint, participant, uint256.NewInt(amount)); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.ObserveCustody("join", amount)
		e.observer.ObserveParticipants(b.Participants.Len())
	}
	e.emit(NewJoinedEvent(b, participant, amount))
	return b.Clone(), nil
}

// Withdraw removes the participant from an open bounty and returns their whole
// share from custody, signed by the bounty's derived authority.
func (e *Engine) Withdraw(participant common.PublicKey, key Key) (updated *Bounty, err error) {
	defer func() { e.observe("withdraw", err) }()
	if err := e.guard(); err != nil {
		return nil, err
	}
	stored, err := e.loadBounty(key)
	if err != nil {
		return nil, err
	}
	if stored.BountyType != BountyOpen {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotOpenBounty, key, stored.BountyType)
	}
	b := stored.Clone()
	share, err := b.Participants.Remove(participant)
	if err != nil {
		return nil, err
	}
	custody, err := b.CustodyAuthority(e.programID)
	if err != nil {
		return nil, err
	}
	held, err := e.state.TokenBalance(custody, b.PaymentMint)
	if err != nil {
		return nil, err
	}
	if held.Lt(uint256.NewInt(share)) {
		return nil, fmt.Errorf("%w: custody holds %s, share is %d", ErrArithmeticUnderflow, held.Dec(), share)
	}
	if err := e.transfer(custody, participant, b.PaymentMint, custody, uint256.NewInt(share)); err != nil {
		return nil, err
	}
	if err := e.state.BountyPut(b); err != nil {
		return nil, err
	}
	if e.observer != nil {
		e.observer.ObserveCustody("withdraw", share)
		e.observer.ObserveParticipants(b.Participants.Len())
	}
	e.emit(NewWithdrawnEvent(b, participant, share))
	return b.Clone(), nil
}

// Close refunds the custody balance to the bounty's authority and deletes the
// record. Only the recorded authority may close. Open bounties must have an
// empty participant ledger.
func (e *Engine) Close(signer common.PublicKey, key Key) (refunded uint64, err error) {
	defer func() { e.observe("close", err) }()
	if err := e.guard(); err != nil {
		return 0, err
	}
	b, err := e.loadBounty(key)
	if err != nil {
		return 0, err
	}
	if signer != b.Authority {
		return 0, fmt.Errorf("%w: %s is not the authority of %s", ErrUnauthorized, signer.ToBase58(), key)
	}
	switch b.BountyType {
	case BountySolo:
	case BountyOpen:
		if err := b.Participants.ValidateEmpty(); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("%w: bounty type %d", ErrInvalidState, uint8(b.BountyType))
	}
	custody, err := b.CustodyAuthority(e.programID)
	if err != nil {
		return 0, err
	}
	held, err := e.state.TokenBalance(custody, b.PaymentMint)
	if err != nil {
		return 0, err
	}
	if !held.IsUint64() {
		return 0, fmt.Errorf("%w: custody balance %s exceeds u64", ErrArithmeticOverflow, held.Dec())
	}
	refunded = held.Uint64()
	if err := e.transfer(custody, b.Authority, b.PaymentMint, custody, held); err != nil {
		return 0, err
	}
	if err := e.state.BountyDelete(key); err != nil {
		return 0, err
	}
	if e.observer != nil {
		e.observer.ObserveCustody("close", refunded)
	}
	e.emit(NewClosedEvent(b, refunded))
	return refunded, nil
}
