package liquidation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	dex "panicsell-go/internal/dex/solana"
	"panicsell-go/internal/metrics"
	"panicsell-go/internal/portfolio"
)

var (
	// ErrNoSigner is returned when no wallet is available to sign.
	ErrNoSigner = errors.New("no signer available")
	// ErrRunInProgress is returned when Run is called while another run is active.
	ErrRunInProgress = errors.New("liquidation already running")
	// ErrRejected is returned by signers when the user declines the batch.
	ErrRejected = errors.New("user rejected the request")
)

// SwapBuilder turns a quote into an unsigned swap transaction for owner.
type SwapBuilder interface {
	BuildSwap(ctx context.Context, quote *dex.Quote, owner solana.PublicKey) (*solana.Transaction, error)
}

// Signer approves a batch of transactions at once.
type Signer interface {
	PublicKey() solana.PublicKey
	SignAll(ctx context.Context, txs []*solana.Transaction) ([]*solana.Transaction, error)
}

// Broadcaster submits one signed transaction.
type Broadcaster interface {
	Broadcast(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Notifier plays the audible cues of a run.
type Notifier interface {
	Alarm()
	Success()
	Stop()
}

// Options tune an Orchestrator.
type Options struct {
	// SettleDelay is waited after the last broadcast before OnComplete fires.
	SettleDelay time.Duration
	// OnEntry receives every run log entry as it is appended.
	OnEntry func(Entry)
	// OnComplete runs after a run that reached the broadcast phase.
	OnComplete func(*Result)
}

// Result summarizes a finished run.
type Result struct {
	RunID      string
	State      State
	Attempted  int // plan size
	Built      int
	Succeeded  int
	Signatures []solana.Signature
	Err        error // abort cause
	Log        []Entry
}

// Orchestrator drives liquidation runs. Only one run may be active at a time.
type Orchestrator struct {
	builder     SwapBuilder
	signer      Signer
	broadcaster Broadcaster
	notifier    Notifier
	opts        Options
	log         zerolog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time

	mu      sync.Mutex
	state   State
	running bool
	runLog  *Log
}

// New builds an Orchestrator. signer may be nil when no wallet is loaded.
func New(builder SwapBuilder, signer Signer, broadcaster Broadcaster, notifier Notifier, opts Options, log zerolog.Logger) *Orchestrator {
	if notifier == nil {
		notifier = silent{}
	}
	o := &Orchestrator{
		builder:     builder,
		signer:      signer,
		broadcaster: broadcaster,
		notifier:    notifier,
		opts:        opts,
		log:         log.With().Str("component", "liquidation").Logger(),
		now:         time.Now,
		after:       time.After,
	}
	o.runLog = newLog(o.now, o.emit)
	return o
}

// State returns the current state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Entries returns the log of the current or most recent run.
func (o *Orchestrator) Entries() []Entry {
	o.mu.Lock()
	l := o.runLog
	o.mu.Unlock()
	return l.Entries()
}

// Run sells every quoted holding in v, plus native SOL when includeNative.
// Per-asset failures are logged and skipped; a signer failure aborts the run
// before anything is broadcast. The returned error is reserved for runs that
// could not start.
func (o *Orchestrator) Run(ctx context.Context, v *portfolio.Valuation, includeNative bool) (*Result, error) {
	if o.signer == nil {
		o.currentLog().Append(Error, "Wallet error: Please reconnect.")
		return nil, ErrNoSigner
	}

	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return nil, ErrRunInProgress
	}
	o.running = true
	o.runLog = newLog(o.now, o.emit)
	o.mu.Unlock()

	res := o.execute(ctx, v, includeNative)

	o.mu.Lock()
	o.running = false
	o.mu.Unlock()

	if res.State == Complete && res.Built > 0 && o.opts.OnComplete != nil {
		select {
		case <-o.after(o.opts.SettleDelay):
			o.opts.OnComplete(res)
		case <-ctx.Done():
		}
	}
	return res, nil
}

func (o *Orchestrator) execute(ctx context.Context, v *portfolio.Valuation, includeNative bool) *Result {
	res := &Result{RunID: uuid.NewString()}
	runLog := o.currentLog()
	lg := o.log.With().Str("run_id", res.RunID).Logger()

	finish := func(state State, cause error) *Result {
		o.setState(state)
		res.State = state
		res.Err = cause
		res.Log = runLog.Entries()
		metrics.RunsTotal.WithLabelValues(state.String()).Inc()
		lg.Info().Str("state", state.String()).Int("succeeded", res.Succeeded).Int("attempted", res.Attempted).Msg("run finished")
		return res
	}

	o.setState(Gathering)
	o.notifier.Alarm()
	runLog.Append(Info, "INITIATING PANIC SELL PROTOCOL...")

	plan := Plan(v, includeNative)
	res.Attempted = len(plan)
	if len(plan) == 0 {
		runLog.Append(Info, "No tokens to sell.")
		o.notifier.Stop()
		return finish(Complete, nil)
	}

	runLog.Append(Info, fmt.Sprintf("Generating %d swap transactions...", len(plan)))
	owner := o.signer.PublicKey()
	txs := make([]*solana.Transaction, 0, len(plan))
	symbols := make([]string, 0, len(plan))
	for _, item := range plan {
		tx, err := o.builder.BuildSwap(ctx, item.Quote, owner)
		if err != nil {
			metrics.SwapsBuiltTotal.WithLabelValues(metrics.Error).Inc()
			lg.Warn().Err(err).Str("mint", item.Mint).Str("symbol", item.Symbol).Msg("build swap failed")
			if errors.Is(err, dex.ErrMalformedSwap) {
				runLog.Append(Error, fmt.Sprintf("Error preparing %s", item.Symbol))
			} else {
				runLog.Append(Error, fmt.Sprintf("Failed to generate route for %s", item.Symbol))
			}
			continue
		}
		metrics.SwapsBuiltTotal.WithLabelValues(metrics.OK).Inc()
		txs = append(txs, tx)
		symbols = append(symbols, item.Symbol)
	}
	res.Built = len(txs)
	if len(txs) == 0 {
		runLog.Append(Error, "ABORT: Could not build any swap transactions.")
		o.notifier.Stop()
		return finish(Aborted, errors.New("no swap transactions built"))
	}

	o.setState(AwaitingSignature)
	runLog.Append(Info, "Please approve in your wallet...")
	signed, err := o.signer.SignAll(ctx, txs)
	if err == nil && len(signed) != len(txs) {
		err = fmt.Errorf("signer returned %d of %d transactions", len(signed), len(txs))
	}
	if err != nil {
		o.notifier.Stop()
		runLog.Append(Error, fmt.Sprintf("Sequence aborted: %s", err))
		return finish(Aborted, err)
	}
	runLog.Append(Success, fmt.Sprintf("Wallet approved %d transactions.", len(signed)))

	o.setState(Broadcasting)
	runLog.Append(Info, "Executing swaps on-chain...")
	for i, tx := range signed {
		symbol := symbols[i]
		runLog.Append(Info, fmt.Sprintf("Sending %s...", symbol))
		sig, err := o.broadcaster.Broadcast(ctx, tx)
		if err != nil {
			metrics.BroadcastsTotal.WithLabelValues(metrics.Error).Inc()
			lg.Error().Err(err).Str("symbol", symbol).Msg("broadcast failed")
			runLog.Append(Error, fmt.Sprintf("Failed to sell %s", symbol))
			continue
		}
		metrics.BroadcastsTotal.WithLabelValues(metrics.OK).Inc()
		lg.Info().Str("symbol", symbol).Str("signature", sig.String()).Msg("swap submitted")
		runLog.Append(Success, fmt.Sprintf("Successfully sold %s!", symbol))
		res.Succeeded++
		res.Signatures = append(res.Signatures, sig)
	}

	o.notifier.Success()
	runLog.Append(Success, "PANIC PROTOCOL COMPLETE.")
	runLog.Append(Success, fmt.Sprintf("Successfully dumped %d/%d assets.", res.Succeeded, res.Attempted))
	return finish(Complete, nil)
}

func (o *Orchestrator) currentLog() *Log {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runLog
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	prev := o.state
	o.state = s
	o.mu.Unlock()
	o.log.Debug().Str("from", prev.String()).Str("to", s.String()).Msg("state")
}

func (o *Orchestrator) emit(e Entry) {
	ev := o.log.Info()
	if e.Severity == Error {
		ev = o.log.Error()
	}
	ev.Uint64("seq", e.ID).Str("severity", string(e.Severity)).Msg(e.Message)
	if o.opts.OnEntry != nil {
		o.opts.OnEntry(e)
	}
}

type silent struct{}

func (silent) Alarm()   {}
func (silent) Success() {}
func (silent) Stop()    {}
