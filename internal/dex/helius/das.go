// Package helius lists wallet holdings through the Helius DAS JSON-RPC API.
package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"panicsell-go/internal/metrics"
	"panicsell-go/internal/portfolio"
)

// PageLimit is the DAS maximum page size. Only the first page is read.
const PageLimit = 1000

// ErrNotConfigured is logged when no RPC URL is set.
var ErrNotConfigured = errors.New("helius rpc url not configured")

// AssetLister fetches fungible token balances for an owner.
type AssetLister struct {
	URL  string
	Http *http.Client
	log  zerolog.Logger
}

// NewAssetLister builds a lister. An empty url leaves the lister disabled.
func NewAssetLister(url string, timeout time.Duration, log zerolog.Logger) *AssetLister {
	return &AssetLister{
		URL:  url,
		Http: &http.Client{Timeout: timeout},
		log:  log.With().Str("component", "helius").Logger(),
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  ownerParams `json:"params"`
}

type ownerParams struct {
	OwnerAddress   string         `json:"ownerAddress"`
	Page           int            `json:"page"`
	Limit          int            `json:"limit"`
	DisplayOptions displayOptions `json:"displayOptions"`
}

type displayOptions struct {
	ShowFungible    bool `json:"showFungible"`
	ShowInscription bool `json:"showInscription"`
}

type rpcResponse struct {
	Result *struct {
		Total int     `json:"total"`
		Items []asset `json:"items"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type asset struct {
	ID      string `json:"id"`
	Content struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
		Links struct {
			Image string `json:"image"`
		} `json:"links"`
	} `json:"content"`
	TokenInfo *struct {
		Balance   json.Number `json:"balance"`
		Decimals  uint8       `json:"decimals"`
		PriceInfo *struct {
			TotalPrice float64 `json:"total_price"`
			Currency   string  `json:"currency"`
		} `json:"price_info"`
	} `json:"token_info"`
}

// ListAssets returns owner's fungible holdings with a positive balance.
// Failures are logged and produce an empty list.
func (l *AssetLister) ListAssets(ctx context.Context, owner solana.PublicKey) []portfolio.Holding {
	holdings, err := l.list(ctx, owner)
	if err != nil {
		metrics.AssetsListedTotal.WithLabelValues(metrics.Error).Inc()
		l.log.Error().Err(err).Str("owner", owner.String()).Msg("list assets failed")
		return []portfolio.Holding{}
	}
	metrics.AssetsListedTotal.WithLabelValues(metrics.OK).Inc()
	return holdings
}

func (l *AssetLister) list(ctx context.Context, owner solana.PublicKey) ([]portfolio.Holding, error) {
	if l.URL == "" {
		return nil, ErrNotConfigured
	}
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "panicsell",
		Method:  "getAssetsByOwner",
		Params: ownerParams{
			OwnerAddress:   owner.String(),
			Page:           1,
			Limit:          PageLimit,
			DisplayOptions: displayOptions{ShowFungible: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := l.Http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("helius status %d", resp.StatusCode)
	}

	var out rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("helius rpc error %d: %s", out.Error.Code, out.Error.Message)
	}
	if out.Result == nil {
		return nil, errors.New("helius response missing result")
	}
	if len(out.Result.Items) >= PageLimit {
		l.log.Debug().Int("limit", PageLimit).Msg("asset page full, remaining items not fetched")
	}

	holdings := make([]portfolio.Holding, 0, len(out.Result.Items))
	for _, item := range out.Result.Items {
		if item.TokenInfo == nil {
			continue
		}
		balance, err := strconv.ParseUint(item.TokenInfo.Balance.String(), 10, 64)
		if err != nil {
			l.log.Debug().Str("mint", item.ID).Str("balance", item.TokenInfo.Balance.String()).Msg("skip unparsable balance")
			continue
		}
		if balance == 0 {
			continue
		}
		h := portfolio.Holding{
			Mint:     item.ID,
			Name:     item.Content.Metadata.Name,
			Symbol:   item.Content.Metadata.Symbol,
			Image:    item.Content.Links.Image,
			Balance:  balance,
			Decimals: item.TokenInfo.Decimals,
		}
		if p := item.TokenInfo.PriceInfo; p != nil {
			h.PriceUSD = p.TotalPrice
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}
