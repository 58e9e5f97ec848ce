package core

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/holiman/uint256"

	"bountychain/core/events"
	"bountychain/core/genesis"
	"bountychain/core/state"
	"bountychain/native/bank"
	"bountychain/native/bounty"
	"bountychain/observability/logging"
	"bountychain/storage"
)

var errNilDatabase = errors.New("core: database must not be nil")

// TxObserver receives the outcome and latency of every processor
// transaction. observability.ProcessorMetrics implements it.
type TxObserver interface {
	ObserveTx(op, outcome string, duration time.Duration)
}

const (
	outcomeCommitted    = "committed"
	outcomeRejected     = "rejected"
	outcomeCommitFailed = "commit_failed"
)

// Processor applies bounty operations to a store. Every mutating call runs in
// its own buffered transaction: the writes land in one batch when the
// operation succeeds and are dropped otherwise. Events raised during the
// operation reach the emitter only after the commit.
type Processor struct {
	mu      sync.Mutex
	db      storage.Database
	root    *state.Manager
	engine  *bounty.Engine
	pending events.Buffer
	emitter events.Emitter
	txObs   TxObserver
	logger  *slog.Logger
	nowFn   func() time.Time
}

// NewProcessor wires engine to db. The engine's state and emitter are owned by
// the processor from here on.
func NewProcessor(db storage.Database, engine *bounty.Engine) (*Processor, error) {
	if db == nil {
		return nil, errNilDatabase
	}
	if engine == nil {
		return nil, errors.New("core: engine must not be nil")
	}
	p := &Processor{
		db:      db,
		root:    state.NewManager(db),
		engine:  engine,
		emitter: events.NoopEmitter{},
		logger:  slog.Default(),
		nowFn:   time.Now,
	}
	engine.SetState(p.root)
	engine.SetEmitter(&p.pending)
	return p, nil
}

// SetEmitter configures where committed events are delivered.
func (p *Processor) SetEmitter(emitter events.Emitter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if emitter == nil {
		p.emitter = events.NoopEmitter{}
		return
	}
	p.emitter = emitter
}

// SetLogger overrides the logger. Nil restores slog.Default.
func (p *Processor) SetLogger(logger *slog.Logger) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if logger == nil {
		logger = slog.Default()
	}
	p.logger = logger
}

// SetTxObserver configures the transaction metrics sink. Nil disables it.
func (p *Processor) SetTxObserver(obs TxObserver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.txObs = obs
}

func (p *Processor) observeTx(op, outcome string, started time.Time) {
	if p.txObs == nil {
		return
	}
	p.txObs.ObserveTx(op, outcome, p.nowFn().Sub(started))
}

// Engine exposes the wrapped engine for read-only inspection.
func (p *Processor) Engine() *bounty.Engine { return p.engine }

func (p *Processor) execute(op string, fn func(tx *state.Manager) error) error {
	started := p.nowFn()
	tx := p.root.Begin()
	p.pending.Reset()
	p.engine.SetState(tx)
	defer p.engine.SetState(p.root)

	if err := fn(tx); err != nil {
		tx.Discard()
		p.pending.Reset()
		p.observeTx(op, outcomeRejected, started)
		p.logger.Warn("bounty operation rejected", "op", op, "outcome", bounty.Kind(err), "error", err)
		return err
	}
	if err := tx.Commit(); err != nil {
		tx.Discard()
		p.pending.Reset()
		p.observeTx(op, outcomeCommitFailed, started)
		p.logger.Error("bounty commit failed", "op", op, "error", err)
		return fmt.Errorf("core: commit %s: %w", op, err)
	}
	p.observeTx(op, outcomeCommitted, started)
	events.Forward(p.emitter, p.pending.Drain())
	return nil
}

// Create opens a new bounty funded by issuer.
func (p *Processor) Create(issuer common.PublicKey, params bounty.CreateParams) (*bounty.Bounty, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var created *bounty.Bounty
	err := p.execute("create", func(*state.Manager) error {
		b, err := p.engine.Create(issuer, params)
		created = b
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("bounty created",
		logging.Key("authority", issuer),
		logging.Key("mint", params.Mint),
		"amount", params.Amount,
		"bountyType", created.BountyType.String())
	return created, nil
}

// Join adds amount to participant's share of the open bounty at key.
func (p *Processor) Join(participant common.PublicKey, key bounty.Key, amount uint64) (*bounty.Bounty, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var updated *bounty.Bounty
	err := p.execute("join", func(*state.Manager) error {
		b, err := p.engine.Join(participant, key, amount)
		updated = b
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("bounty joined",
		"bounty", key.String(),
		logging.Key("participant", participant),
		"amount", amount,
		"participants", updated.Participants.Len())
	return updated, nil
}

// Withdraw returns participant's whole share of the open bounty at key.
func (p *Processor) Withdraw(participant common.PublicKey, key bounty.Key) (*bounty.Bounty, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var updated *bounty.Bounty
	err := p.execute("withdraw", func(*state.Manager) error {
		b, err := p.engine.Withdraw(participant, key)
		updated = b
		return err
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("bounty share withdrawn",
		"bounty", key.String(),
		logging.Key("participant", participant),
		"participants", updated.Participants.Len())
	return updated, nil
}

// Close refunds the custody balance of the bounty at key to its authority and
// removes the record.
func (p *Processor) Close(signer common.PublicKey, key bounty.Key) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var refunded uint64
	err := p.execute("close", func(*state.Manager) error {
		amount, err := p.engine.Close(signer, key)
		refunded = amount
		return err
	})
	if err != nil {
		return 0, err
	}
	p.logger.Info("bounty closed", "bounty", key.String(), "refunded", refunded)
	return refunded, nil
}

// Get returns the committed bounty at key.
func (p *Processor) Get(key bounty.Key) (*bounty.Bounty, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.Get(key)
}

// CustodyBalance returns the committed custody balance of the bounty at key.
func (p *Processor) CustodyBalance(key bounty.Key) (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.engine.CustodyBalance(key)
}

// Balance returns owner's committed balance of mint.
func (p *Processor) Balance(owner, mint common.PublicKey) (*uint256.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.root.TokenBalance(owner, mint)
}

// Mint credits amount of mint to owner. It is an operator faucet and bypasses
// the bounty engine.
func (p *Processor) Mint(owner, mint common.PublicKey, amount *uint256.Int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.execute("mint", func(tx *state.Manager) error {
		return bank.Mint(tx, owner, mint, amount)
	})
}

// ApplyGenesis mints every allocation in spec as a single transaction.
func (p *Processor) ApplyGenesis(spec *genesis.Spec) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var applied int
	err := p.execute("genesis", func(tx *state.Manager) error {
		allocs, err := genesis.Apply(spec, tx)
		applied = len(allocs)
		return err
	})
	if err != nil {
		return 0, err
	}
	p.logger.Info("genesis applied", "allocations", applied)
	return applied, nil
}

// Shutdown releases the underlying database.
func (p *Processor) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.db.Close()
}
