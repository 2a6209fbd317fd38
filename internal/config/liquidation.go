package config

import "time"

// USDCMint is the quote currency every holding is valued against.
const USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

// Liquidation tunes how holdings are quoted and sold.
type Liquidation struct {
	OutputMint            string `yaml:"output_mint"`
	SlippageBps           int    `yaml:"slippage_bps"`
	IncludeNative         bool   `yaml:"include_native"`
	NativeReserveLamports uint64 `yaml:"native_reserve_lamports"`
	SettleDelayMs         int    `yaml:"settle_delay_ms"`
	MaxRetries            uint   `yaml:"max_retries"`
	Requote               bool   `yaml:"requote"`
	HistoryPath           string `yaml:"history_path"` // empty disables the run history
}

// SettleDelay is the pause between the last broadcast and the completion callback.
func (l Liquidation) SettleDelay() time.Duration {
	return time.Duration(l.SettleDelayMs) * time.Millisecond
}

func (l *Liquidation) normalize() {
	if l.OutputMint == "" {
		l.OutputMint = USDCMint
	}
	if l.SlippageBps <= 0 {
		l.SlippageBps = 50
	}
	if l.SettleDelayMs <= 0 {
		l.SettleDelayMs = 2000
	}
	if l.MaxRetries == 0 {
		l.MaxRetries = 2
	}
}
