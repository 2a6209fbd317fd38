package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	path := filepath.Join("testdata", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Name != "panicsell-test" {
		t.Fatalf("unexpected App.Name: %s", cfg.App.Name)
	}
	if cfg.App.MetricsAddr != ":9102" {
		t.Fatalf("unexpected App.MetricsAddr: %s", cfg.App.MetricsAddr)
	}
	if cfg.Dex.Commitment != "processed" {
		t.Fatalf("expected processed commitment, got %s", cfg.Dex.Commitment)
	}
	if cfg.Dex.HTTPTimeout() != 5*time.Second {
		t.Fatalf("unexpected http timeout: %s", cfg.Dex.HTTPTimeout())
	}
	if cfg.Dex.RequestsPerSecond != 4 {
		t.Fatalf("unexpected requests per second: %.2f", cfg.Dex.RequestsPerSecond)
	}
	if cfg.Liquidation.SlippageBps != 100 {
		t.Fatalf("expected slippage 100 bps, got %d", cfg.Liquidation.SlippageBps)
	}
	if !cfg.Liquidation.IncludeNative {
		t.Fatalf("expected include_native true")
	}
	if cfg.Liquidation.NativeReserveLamports != 5_000_000 {
		t.Fatalf("unexpected native reserve: %d", cfg.Liquidation.NativeReserveLamports)
	}
	if cfg.Liquidation.SettleDelay() != 1500*time.Millisecond {
		t.Fatalf("unexpected settle delay: %s", cfg.Liquidation.SettleDelay())
	}
	if cfg.Liquidation.Requote {
		t.Fatalf("expected requote disabled by file")
	}
	if cfg.Liquidation.HistoryPath != "data/runs.jsonl" {
		t.Fatalf("unexpected history path: %s", cfg.Liquidation.HistoryPath)
	}
	if cfg.Liquidation.OutputMint != USDCMint {
		t.Fatalf("expected USDC output mint default, got %s", cfg.Liquidation.OutputMint)
	}
	if cfg.Liquidation.MaxRetries != 2 {
		t.Fatalf("expected max retries default 2, got %d", cfg.Liquidation.MaxRetries)
	}
	if cfg.Alarm.Enabled {
		t.Fatalf("expected alarm disabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Dex.JupiterBase != defaultJupiterBase {
		t.Fatalf("unexpected jupiter base: %s", cfg.Dex.JupiterBase)
	}
	if cfg.Liquidation.SlippageBps != 50 {
		t.Fatalf("expected 50 bps default, got %d", cfg.Liquidation.SlippageBps)
	}
	if cfg.Liquidation.SettleDelay() != 2*time.Second {
		t.Fatalf("expected 2s settle delay, got %s", cfg.Liquidation.SettleDelay())
	}
	if !cfg.Liquidation.Requote || !cfg.Alarm.Enabled {
		t.Fatalf("expected requote and alarm enabled by default")
	}
	if cfg.Liquidation.IncludeNative {
		t.Fatalf("native sale must be opt-in")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HELIUS_RPC_URL", "https://helius.example.com")
	t.Setenv("JUPITER_BASE_URL", "https://jup.local")
	t.Setenv("PANICSELL_DUMP_SOL", "true")

	cfg := Default()
	cfg.ApplyEnv()
	if cfg.Dex.HeliusRpcURL != "https://helius.example.com" {
		t.Fatalf("unexpected helius url: %s", cfg.Dex.HeliusRpcURL)
	}
	if cfg.Dex.JupiterBase != "https://jup.local" {
		t.Fatalf("unexpected jupiter base: %s", cfg.Dex.JupiterBase)
	}
	if !cfg.Liquidation.IncludeNative {
		t.Fatalf("expected env to enable native sale")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Dex.HeliusRpcURL = "https://helius.example.com"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded.Dex.HeliusRpcURL != cfg.Dex.HeliusRpcURL {
		t.Fatalf("expected helius url to persist, got %s", loaded.Dex.HeliusRpcURL)
	}
	if err := Save(path, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}
