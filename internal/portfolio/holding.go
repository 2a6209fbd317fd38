// Package portfolio values a wallet's fungible holdings against a quote currency.
package portfolio

// Holding is one fungible token position reported by the asset index.
type Holding struct {
	Mint     string
	Name     string
	Symbol   string
	Image    string
	Balance  uint64 // raw units
	Decimals uint8
	PriceUSD float64 // index-reported total value, display only
}

// Label returns the symbol, or a shortened mint when the token has none.
func (h Holding) Label() string {
	if h.Symbol != "" {
		return h.Symbol
	}
	if len(h.Mint) > 8 {
		return h.Mint[:4] + ".." + h.Mint[len(h.Mint)-4:]
	}
	return h.Mint
}
