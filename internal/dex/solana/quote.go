package solana

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Quote is a Jupiter route quote. The exact upstream document is retained so
// it can be echoed verbatim to the swap endpoint.
type Quote struct {
	InputMint            string          `json:"inputMint"`
	OutputMint           string          `json:"outputMint"`
	InAmount             string          `json:"inAmount"`
	OutAmount            string          `json:"outAmount"`
	OtherAmountThreshold string          `json:"otherAmountThreshold"`
	SwapMode             string          `json:"swapMode,omitempty"`
	SlippageBps          int             `json:"slippageBps"`
	PriceImpactPct       string          `json:"priceImpactPct,omitempty"`
	RoutePlan            json.RawMessage `json:"routePlan,omitempty"`

	raw json.RawMessage
}

type quoteFields Quote

// UnmarshalJSON decodes the known fields and keeps the original bytes.
func (q *Quote) UnmarshalJSON(data []byte) error {
	var f quoteFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*q = Quote(f)
	q.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the upstream document when present.
func (q Quote) MarshalJSON() ([]byte, error) {
	if len(q.raw) > 0 {
		return q.raw, nil
	}
	return json.Marshal(quoteFields(q))
}

// OutAmountUint parses the quoted output in the output mint's smallest units.
func (q *Quote) OutAmountUint() (uint64, error) {
	v, err := strconv.ParseUint(q.OutAmount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid outAmount %q: %w", q.OutAmount, err)
	}
	return v, nil
}
