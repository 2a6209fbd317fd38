// Package solana wraps the Solana cluster RPC and the Jupiter swap router.
package solana

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"golang.org/x/time/rate"
)

// WSOLMint identifies wrapped SOL; quoting it sells native lamports.
const WSOLMint = "So11111111111111111111111111111111111111112"

var (
	// ErrZeroAmount is returned when a quote is requested for nothing.
	ErrZeroAmount = errors.New("quote amount must be positive")
	// ErrMalformedSwap marks a swap payload that could not be decoded into a transaction.
	ErrMalformedSwap = errors.New("malformed swap transaction")
)

// UpstreamError carries a business error reported by the router in its response body.
type UpstreamError struct {
	Op      string
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("jupiter %s: %s (status %d)", e.Op, e.Message, e.Status)
}

// JupiterClient talks to the Jupiter v6 quote and swap endpoints.
type JupiterClient struct {
	Base    string
	Http    *http.Client
	Limiter *rate.Limiter
}

// NewJupiterClient returns a client with the given request timeout and no rate limit.
func NewJupiterClient(base string, timeout time.Duration) *JupiterClient {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &JupiterClient{
		Base:    base,
		Http:    &http.Client{Timeout: timeout},
		Limiter: rate.NewLimiter(rate.Inf, 0),
	}
}

// SetRateLimit paces outgoing requests to rps per second. Zero removes the limit.
func (j *JupiterClient) SetRateLimit(rps float64) {
	if rps <= 0 {
		j.Limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	j.Limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// GetQuote asks for the best route selling amount of inputMint into outputMint.
// amount is in smallest units (lamports for SOL; token decimals apply).
func (j *JupiterClient) GetQuote(ctx context.Context, inputMint, outputMint string, amount uint64, slippageBps int) (*Quote, error) {
	if amount == 0 {
		return nil, ErrZeroAmount
	}
	q := url.Values{}
	q.Set("inputMint", inputMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", strconv.FormatUint(amount, 10))
	q.Set("slippageBps", strconv.Itoa(slippageBps))

	status, body, err := j.do(ctx, http.MethodGet, j.Base+"/v6/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("jupiter quote: %w", err)
	}
	if err := upstreamError("quote", status, body); err != nil {
		return nil, err
	}
	var out Quote
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode quote: %w", err)
	}
	if _, err := out.OutAmountUint(); err != nil {
		return nil, err
	}
	return &out, nil
}

// BuildSwap asks Jupiter for a ready-to-sign transaction that executes quote for owner.
func (j *JupiterClient) BuildSwap(ctx context.Context, quote *Quote, owner solana.PublicKey) (*solana.Transaction, error) {
	if quote == nil {
		return nil, errors.New("jupiter swap: nil quote")
	}
	payload := map[string]any{
		"quoteResponse":    quote,
		"userPublicKey":    owner.String(),
		"wrapAndUnwrapSol": true,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode swap request: %w", err)
	}

	status, resp, err := j.do(ctx, http.MethodPost, j.Base+"/v6/swap", body)
	if err != nil {
		return nil, fmt.Errorf("jupiter swap: %w", err)
	}
	if err := upstreamError("swap", status, resp); err != nil {
		return nil, err
	}
	var sr struct {
		SwapTransaction string `json:"swapTransaction"` // base64-encoded tx (unsigned)
	}
	if err := json.Unmarshal(resp, &sr); err != nil {
		return nil, fmt.Errorf("decode swap response: %w", err)
	}
	if sr.SwapTransaction == "" {
		return nil, errors.New("jupiter swap: empty transaction")
	}

	raw, err := base64.StdEncoding.DecodeString(sr.SwapTransaction)
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64: %v", ErrMalformedSwap, err)
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSwap, err)
	}
	return tx, nil
}

func (j *JupiterClient) do(ctx context.Context, method, u string, body []byte) (int, []byte, error) {
	if j.Limiter != nil {
		if err := j.Limiter.Wait(ctx); err != nil {
			return 0, nil, err
		}
	}
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := j.Http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, data, nil
}

// upstreamError surfaces an error field in the body first, then a bad status.
func upstreamError(op string, status int, body []byte) error {
	var env struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &env) == nil && env.Error != "" {
		return &UpstreamError{Op: op, Status: status, Message: env.Error}
	}
	if status != http.StatusOK {
		return fmt.Errorf("jupiter %s status %d", op, status)
	}
	return nil
}
