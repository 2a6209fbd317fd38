// Package config also contains DEX-specific configuration surfaces.
package config

import "time"

const (
	defaultRpcURL        = "https://api.mainnet-beta.solana.com"
	defaultJupiterBase   = "https://quote-api.jup.ag"
	defaultCommitment    = "confirmed"
	defaultHTTPTimeoutMs = 30000
)

// Dex defines network endpoints for quoting, indexing, and broadcasting.
type Dex struct {
	RpcURL            string  `yaml:"rpc_url"`
	Commitment        string  `yaml:"commitment"`     // processed|confirmed|finalized
	JupiterBase       string  `yaml:"jupiter_base"`   // https://quote-api.jup.ag
	HeliusRpcURL      string  `yaml:"helius_rpc_url"` // empty disables asset listing
	HTTPTimeoutMs     int     `yaml:"http_timeout_ms"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // 0 means unlimited
}

// HTTPTimeout returns the per-request timeout for upstream HTTP APIs.
func (d Dex) HTTPTimeout() time.Duration {
	return time.Duration(d.HTTPTimeoutMs) * time.Millisecond
}

func (d *Dex) normalize() {
	if d.RpcURL == "" {
		d.RpcURL = defaultRpcURL
	}
	if d.JupiterBase == "" {
		d.JupiterBase = defaultJupiterBase
	}
	if d.Commitment == "" {
		d.Commitment = defaultCommitment
	}
	if d.HTTPTimeoutMs <= 0 {
		d.HTTPTimeoutMs = defaultHTTPTimeoutMs
	}
}

// Wallet stores env-backed signing material.
type Wallet struct {
	PrivateKeyBase58 string `yaml:"private_key_base58"`
}
