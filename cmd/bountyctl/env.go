package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"bountychain/config"
	"bountychain/core"
	"bountychain/core/events"
	"bountychain/core/types"
	"bountychain/native/bounty"
	"bountychain/observability"
	"bountychain/observability/logging"
	"bountychain/observability/metrics"
	"bountychain/storage"
)

type cliEnv struct {
	cfg  *config.Config
	proc *core.Processor
}

func openEnv(configPath string) (*cliEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.Setup(serviceName, cfg.Env, cfg.LogFile, level)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open data dir %s: %w", cfg.DataDir, err)
	}
	engine := bounty.NewEngine(cfg.ProgramKey())
	engine.SetPauses(cfg.Pauses.PauseSet())
	engine.SetObserver(metrics.Bounty())
	proc, err := core.NewProcessor(db, engine)
	if err != nil {
		db.Close()
		return nil, err
	}
	proc.SetLogger(logger)
	proc.SetTxObserver(observability.ProcessorMetrics())
	proc.SetEmitter(logEmitter{logger: logger})
	return &cliEnv{cfg: cfg, proc: proc}, nil
}

func (e *cliEnv) Close() { e.proc.Shutdown() }

// logEmitter writes committed events to the structured log.
type logEmitter struct {
	logger *slog.Logger
}

func (l logEmitter) Emit(evt events.Event) {
	observability.Events().RecordEvent(evt.EventType())
	payload, ok := evt.(interface{ Event() *types.Event })
	if !ok || payload.Event() == nil {
		l.logger.Info("event", "type", evt.EventType())
		return
	}
	attrs := make([]any, 0, len(payload.Event().Attributes)+1)
	attrs = append(attrs, "type", payload.Event().Type)
	for k, v := range payload.Event().Attributes {
		attrs = append(attrs, k, v)
	}
	l.logger.Info("event", attrs...)
}

type participantView struct {
	Address string `json:"address"`
	Amount  string `json:"amount"`
}

type bountyView struct {
	Authority    string            `json:"authority"`
	Mint         string            `json:"mint"`
	PaymentMint  string            `json:"paymentMint"`
	Custody      string            `json:"custody"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Amount       string            `json:"amount"`
	Held         string            `json:"held"`
	CreatedAt    int64             `json:"createdAt"`
	BountyType   string            `json:"bountyType"`
	VoteType     string            `json:"voteType"`
	Participants []participantView `json:"participants"`
}

func printBounty(env *cliEnv, stdout, stderr io.Writer, b *bounty.Bounty) int {
	custody, err := b.CustodyAuthority(env.proc.Engine().ProgramID())
	if err != nil {
		return printError(stderr, err.Error())
	}
	held, err := env.proc.Balance(custody, b.PaymentMint)
	if err != nil {
		return printError(stderr, err.Error())
	}
	view := bountyView{
		Authority:    b.Authority.ToBase58(),
		Mint:         b.Mint.ToBase58(),
		PaymentMint:  b.PaymentMint.ToBase58(),
		Custody:      custody.ToBase58(),
		Name:         b.Name,
		Description:  b.Description,
		Amount:       strconv.FormatUint(b.Amount, 10),
		Held:         held.Dec(),
		CreatedAt:    b.CreatedAt,
		BountyType:   b.BountyType.String(),
		VoteType:     b.VoteType.String(),
		Participants: make([]participantView, 0, b.Participants.Len()),
	}
	for _, p := range b.Participants {
		view.Participants = append(view.Participants, participantView{
			Address: p.Address.ToBase58(),
			Amount:  strconv.FormatUint(p.Amount, 10),
		})
	}
	return writeJSON(stdout, view)
}
