package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	dex "panicsell-go/internal/dex/solana"
)

const (
	outputDecimals = 6 // USDC
	nativeDecimals = 9
)

// Valuation is a snapshot of an owner's holdings and their sell quotes.
type Valuation struct {
	Owner          string
	Holdings       []Holding
	Quotes         map[string]*dex.Quote // by mint; absent when quoting failed
	NativeLamports uint64
	NativeQuote    *dex.Quote
	FetchedAt      time.Time
}

// Quote returns the sell quote for mint, or nil.
func (v *Valuation) Quote(mint string) *dex.Quote {
	if v == nil || v.Quotes == nil {
		return nil
	}
	return v.Quotes[mint]
}

// Value is the quoted output for mint in whole output units, zero when unquoted.
func (v *Valuation) Value(mint string) decimal.Decimal {
	return quoteValue(v.Quote(mint))
}

// NativeValue is the quoted output for the native balance.
func (v *Valuation) NativeValue() decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return quoteValue(v.NativeQuote)
}

// NativeSOL is the native balance in SOL.
func (v *Valuation) NativeSOL() decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(v.NativeLamports)).Shift(-nativeDecimals)
}

// Total sums quoted outputs over quoted holdings, plus native when includeNative.
func (v *Valuation) Total(includeNative bool) decimal.Decimal {
	total := decimal.Zero
	if v == nil {
		return total
	}
	for _, h := range v.Holdings {
		total = total.Add(v.Value(h.Mint))
	}
	if includeNative {
		total = total.Add(v.NativeValue())
	}
	return total
}

// Quoted returns the holdings that have a quote, in listing order.
func (v *Valuation) Quoted() []Holding {
	if v == nil {
		return nil
	}
	out := make([]Holding, 0, len(v.Holdings))
	for _, h := range v.Holdings {
		if v.Quote(h.Mint) != nil {
			out = append(out, h)
		}
	}
	return out
}

func quoteValue(q *dex.Quote) decimal.Decimal {
	if q == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(q.OutAmount)
	if err != nil {
		return decimal.Zero
	}
	return d.Shift(-outputDecimals)
}
