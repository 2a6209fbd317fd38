package liquidation

import (
	dex "panicsell-go/internal/dex/solana"
	"panicsell-go/internal/portfolio"
)

// NativeSymbol labels the native SOL pseudo-asset in a plan.
const NativeSymbol = "SOL"

// Item is one asset scheduled for sale.
type Item struct {
	Mint   string
	Symbol string
	Quote  *dex.Quote
}

// Plan lists the quoted holdings in listing order, followed by native SOL
// when includeNative is set and it was quoted.
func Plan(v *portfolio.Valuation, includeNative bool) []Item {
	if v == nil {
		return nil
	}
	var items []Item
	for _, h := range v.Holdings {
		if q := v.Quote(h.Mint); q != nil {
			items = append(items, Item{Mint: h.Mint, Symbol: h.Label(), Quote: q})
		}
	}
	if includeNative && v.NativeQuote != nil {
		items = append(items, Item{Mint: dex.WSOLMint, Symbol: NativeSymbol, Quote: v.NativeQuote})
	}
	return items
}

// Ready reports whether a run would have anything of value to sell.
func Ready(v *portfolio.Valuation, includeNative bool) bool {
	return v.Total(includeNative).IsPositive()
}
