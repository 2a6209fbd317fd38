package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	dex "panicsell-go/internal/dex/solana"
	"panicsell-go/internal/metrics"
)

// AssetLister reports the fungible holdings of an owner.
type AssetLister interface {
	ListAssets(ctx context.Context, owner solana.PublicKey) []Holding
}

// Quoter prices a sale of amount raw units of inputMint.
type Quoter interface {
	GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*dex.Quote, error)
}

// BalanceReader reads the native lamport balance.
type BalanceReader interface {
	NativeBalance(ctx context.Context, owner solana.PublicKey) (uint64, error)
}

// Valuer lists holdings and quotes each one concurrently.
type Valuer struct {
	Assets        AssetLister
	Quotes        Quoter
	Balances      BalanceReader // optional
	OutputMint    string
	SlippageBps   int
	NativeReserve uint64 // lamports kept back from the native quote

	log zerolog.Logger
	now func() time.Time
}

// NewValuer wires the valuation sources.
func NewValuer(assets AssetLister, quotes Quoter, balances BalanceReader, outputMint string, slippageBps int, log zerolog.Logger) *Valuer {
	return &Valuer{
		Assets:      assets,
		Quotes:      quotes,
		Balances:    balances,
		OutputMint:  outputMint,
		SlippageBps: slippageBps,
		log:         log.With().Str("component", "valuer").Logger(),
		now:         time.Now,
	}
}

// Valuate fetches balances and quotes for owner. Individual failures only
// drop the affected asset; the error is non-nil only when ctx ends.
func (v *Valuer) Valuate(ctx context.Context, owner solana.PublicKey) (*Valuation, error) {
	var lamports uint64
	if v.Balances != nil {
		bal, err := v.Balances.NativeBalance(ctx, owner)
		if err != nil {
			v.log.Warn().Err(err).Msg("native balance unavailable")
		} else {
			lamports = bal
		}
	}
	holdings := v.Assets.ListAssets(ctx, owner)
	return v.quote(ctx, owner.String(), holdings, lamports)
}

// Requote prices the holdings of prev again without relisting them.
func (v *Valuer) Requote(ctx context.Context, prev *Valuation) (*Valuation, error) {
	if prev == nil {
		return nil, errors.New("requote: nil valuation")
	}
	return v.quote(ctx, prev.Owner, prev.Holdings, prev.NativeLamports)
}

func (v *Valuer) quote(ctx context.Context, owner string, holdings []Holding, lamports uint64) (*Valuation, error) {
	out := &Valuation{
		Owner:          owner,
		Holdings:       holdings,
		Quotes:         make(map[string]*dex.Quote, len(holdings)),
		NativeLamports: lamports,
		FetchedAt:      v.now(),
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, h := range holdings {
		h := h
		g.Go(func() error {
			q := v.fetch(gctx, h.Mint, h.Balance)
			if q != nil {
				mu.Lock()
				out.Quotes[h.Mint] = q
				mu.Unlock()
			}
			return ctx.Err()
		})
	}

	if lamports > v.NativeReserve {
		g.Go(func() error {
			out.NativeQuote = v.fetch(gctx, dex.WSOLMint, lamports-v.NativeReserve)
			return ctx.Err()
		})
	} else if lamports > 0 {
		metrics.QuotesTotal.WithLabelValues(metrics.Skipped).Inc()
		v.log.Debug().Uint64("lamports", lamports).Uint64("reserve", v.NativeReserve).Msg("native balance below reserve")
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (v *Valuer) fetch(ctx context.Context, mint string, amount uint64) *dex.Quote {
	q, err := v.Quotes.GetQuote(ctx, mint, v.OutputMint, amount, v.SlippageBps)
	if err != nil {
		if errors.Is(err, dex.ErrZeroAmount) {
			metrics.QuotesTotal.WithLabelValues(metrics.Skipped).Inc()
			return nil
		}
		metrics.QuotesTotal.WithLabelValues(metrics.Error).Inc()
		v.log.Warn().Err(err).Str("mint", mint).Msg("quote failed")
		return nil
	}
	metrics.QuotesTotal.WithLabelValues(metrics.OK).Inc()
	return q
}
