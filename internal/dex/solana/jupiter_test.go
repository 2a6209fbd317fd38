package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"golang.org/x/time/rate"
)

const quoteBody = `{"inputMint":"AAA","inAmount":"10","outputMint":"BBB","outAmount":"20","otherAmountThreshold":"19","swapMode":"ExactIn","slippageBps":50,"priceImpactPct":"0.001","routePlan":[{"percent":100}],"contextSlot":42}`

func testTx(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(1, payer, solana.NewWallet().PublicKey()).Build()},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	if err != nil {
		t.Fatalf("build tx: %v", err)
	}
	return tx
}

func testTxBase64(t *testing.T, payer solana.PublicKey) string {
	t.Helper()
	raw, err := testTx(t, payer).MarshalBinary()
	if err != nil {
		t.Fatalf("marshal tx: %v", err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func TestGetQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v6/quote" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("inputMint") != "AAA" || q.Get("outputMint") != "BBB" {
			t.Fatalf("unexpected mints in query %s", r.URL.RawQuery)
		}
		if q.Get("amount") != "10" || q.Get("slippageBps") != "50" {
			t.Fatalf("unexpected amount/slippage in query %s", r.URL.RawQuery)
		}
		_, _ = io.WriteString(w, quoteBody)
	}))
	defer server.Close()

	client := NewJupiterClient(server.URL, time.Second)
	client.Http = server.Client()

	quote, err := client.GetQuote(context.Background(), "AAA", "BBB", 10, 50)
	if err != nil {
		t.Fatalf("GetQuote returned error: %v", err)
	}
	if quote.OutAmount != "20" {
		t.Fatalf("expected OutAmount 20, got %s", quote.OutAmount)
	}
	out, err := quote.OutAmountUint()
	if err != nil || out != 20 {
		t.Fatalf("expected parsed out amount 20, got %d (%v)", out, err)
	}
	echoed, err := json.Marshal(quote)
	if err != nil {
		t.Fatalf("marshal quote: %v", err)
	}
	if string(echoed) != quoteBody {
		t.Fatalf("expected verbatim quote, got %s", echoed)
	}
}

func TestGetQuoteZeroAmount(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewJupiterClient(server.URL, time.Second)
	if _, err := client.GetQuote(context.Background(), "AAA", "BBB", 0, 50); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no upstream request")
	}
}

func TestGetQuoteUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Could not find any route","errorCode":"COULD_NOT_FIND_ANY_ROUTE"}`)
	}))
	defer server.Close()

	client := NewJupiterClient(server.URL, time.Second)
	_, err := client.GetQuote(context.Background(), "AAA", "BBB", 10, 50)
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusBadRequest || upstream.Message != "Could not find any route" {
		t.Fatalf("unexpected upstream error %+v", upstream)
	}
}

func TestGetQuoteRejectsBadStatusAndAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("inputMint") == "BAD" {
			_, _ = io.WriteString(w, `{"inputMint":"BAD","outAmount":"n/a"}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewJupiterClient(server.URL, time.Second)
	if _, err := client.GetQuote(context.Background(), "AAA", "BBB", 10, 50); err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := client.GetQuote(context.Background(), "BAD", "BBB", 10, 50); err == nil {
		t.Fatalf("expected invalid outAmount error")
	}
}

func TestBuildSwap(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v6/swap" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			QuoteResponse    json.RawMessage `json:"quoteResponse"`
			UserPublicKey    string          `json:"userPublicKey"`
			WrapAndUnwrapSol bool            `json:"wrapAndUnwrapSol"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if string(body.QuoteResponse) != quoteBody {
			t.Fatalf("quote not echoed verbatim: %s", body.QuoteResponse)
		}
		if body.UserPublicKey != owner.String() || !body.WrapAndUnwrapSol {
			t.Fatalf("unexpected swap request %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"swapTransaction": testTxBase64(t, owner)})
	}))
	defer server.Close()

	var quote Quote
	if err := json.Unmarshal([]byte(quoteBody), &quote); err != nil {
		t.Fatalf("unmarshal quote: %v", err)
	}
	client := NewJupiterClient(server.URL, time.Second)
	tx, err := client.BuildSwap(context.Background(), &quote, owner)
	if err != nil {
		t.Fatalf("BuildSwap returned error: %v", err)
	}
	if !tx.Message.AccountKeys[0].Equals(owner) {
		t.Fatalf("expected fee payer %s, got %s", owner, tx.Message.AccountKeys[0])
	}
}

func TestBuildSwapFailures(t *testing.T) {
	cases := map[string]struct {
		resp      string
		malformed bool
	}{
		"upstream": {resp: `{"error":"quote expired"}`},
		"empty":    {resp: `{"swapTransaction":""}`},
		"base64":   {resp: `{"swapTransaction":"***"}`, malformed: true},
		"garbage":  {resp: `{"swapTransaction":"` + base64.StdEncoding.EncodeToString([]byte{1}) + `"}`, malformed: true},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tc.resp)
			}))
			defer server.Close()

			client := NewJupiterClient(server.URL, time.Second)
			_, err := client.BuildSwap(context.Background(), &Quote{OutAmount: "1"}, solana.NewWallet().PublicKey())
			if err == nil {
				t.Fatalf("expected error for %s response", name)
			}
			if errors.Is(err, ErrMalformedSwap) != tc.malformed {
				t.Fatalf("unexpected malformed classification for %s: %v", name, err)
			}
		})
	}
}

func TestSetRateLimit(t *testing.T) {
	client := NewJupiterClient("https://jup", 0)
	if client.Http.Timeout != 8*time.Second {
		t.Fatalf("expected default timeout, got %s", client.Http.Timeout)
	}
	client.SetRateLimit(5)
	if float64(client.Limiter.Limit()) != 5 {
		t.Fatalf("expected limit 5, got %v", client.Limiter.Limit())
	}
	client.SetRateLimit(0)
	if client.Limiter.Limit() != rate.Inf {
		t.Fatalf("expected unlimited after reset")
	}
}
