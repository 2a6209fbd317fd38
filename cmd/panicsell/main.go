// Binary panicsell values a Solana wallet in USDC and, on confirmation, sells every quoted holding.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"panicsell-go/internal/alarm"
	"panicsell-go/internal/config"
	"panicsell-go/internal/dex/helius"
	dex "panicsell-go/internal/dex/solana"
	"panicsell-go/internal/history"
	"panicsell-go/internal/liquidation"
	"panicsell-go/internal/metrics"
	"panicsell-go/internal/portfolio"
	"panicsell-go/internal/report"
	"panicsell-go/internal/util"
)

func main() {
	configPath := flag.String("config", getEnv("CONFIG_PATH", "config.yaml"), "path to YAML config")
	owner := flag.String("owner", "", "wallet address to inspect when no private key is loaded")
	yes := flag.Bool("yes", false, "skip confirmation prompts")
	dumpSol := flag.Bool("dump-sol", false, "also sell native SOL")
	dryRun := flag.Bool("dry-run", false, "print the valuation and exit")
	flag.Parse()

	_ = godotenv.Load() // best-effort
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()
	if *dumpSol {
		cfg.Liquidation.IncludeNative = true
	}

	logger := util.NewLoggerTo(os.Stderr, cfg.App.LogLevel, cfg.App.LogFile).With().Str("app", cfg.App.Name).Logger()
	if cfg.App.MetricsAddr != "" {
		srv := metrics.Serve(cfg.App.MetricsAddr)
		defer srv.Close()
	}

	if err := run(cfg, logger, *owner, *yes, *dryRun); err != nil {
		logger.Error().Err(err).Msg("panicsell failed")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger, ownerAddr string, yes, dryRun bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var signer liquidation.Signer
	var owner solana.PublicKey
	key, err := dex.LoadPrivateKey(cfg.Wallet.PrivateKeyBase58)
	switch {
	case err == nil:
		ks := dex.NewKeypairSigner(key)
		owner = ks.PublicKey()
		ps := &promptSigner{inner: ks}
		if !yes {
			ps.confirm = huhConfirm
		}
		signer = ps
	case errors.Is(err, dex.ErrNoKey) && ownerAddr != "":
		owner, err = solana.PublicKeyFromBase58(ownerAddr)
		if err != nil {
			return fmt.Errorf("owner: %w", err)
		}
	default:
		return fmt.Errorf("wallet: %w", err)
	}
	includeNative := cfg.Liquidation.IncludeNative

	jup := dex.NewJupiterClient(cfg.Dex.JupiterBase, cfg.Dex.HTTPTimeout())
	jup.SetRateLimit(cfg.Dex.RequestsPerSecond)
	node := dex.NewRPCBroadcaster(cfg.Dex.RpcURL, cfg.Dex.Commitment, cfg.Liquidation.MaxRetries)
	lister := helius.NewAssetLister(cfg.Dex.HeliusRpcURL, cfg.Dex.HTTPTimeout(), logger)
	valuer := portfolio.NewValuer(lister, jup, node, cfg.Liquidation.OutputMint, cfg.Liquidation.SlippageBps, logger)
	valuer.NativeReserve = cfg.Liquidation.NativeReserveLamports

	val, err := valuer.Valuate(ctx, owner)
	if err != nil {
		return fmt.Errorf("valuate: %w", err)
	}
	if err := report.Holdings(os.Stdout, val, includeNative); err != nil {
		return err
	}
	if dryRun {
		return nil
	}
	if !liquidation.Ready(val, includeNative) {
		fmt.Println("Nothing to sell.")
		return nil
	}

	if !yes {
		ok, err := huhConfirm("Safety Confirmation", fmt.Sprintf(
			"You are about to paper hand your entire portfolio.\nThis will generate roughly %d swap transactions to convert your tokens to USDC.\nEstimated Return: $%s USDC",
			len(liquidation.Plan(val, includeNative)), val.Total(includeNative).StringFixed(2)))
		if err != nil {
			return fmt.Errorf("confirm: %w", err)
		}
		if !ok {
			return nil
		}
	}

	if cfg.Liquidation.Requote {
		val, err = valuer.Requote(ctx, val)
		if err != nil {
			return fmt.Errorf("requote: %w", err)
		}
	}

	session := alarm.NewSession(os.Stdout, cfg.Alarm.Enabled)
	defer session.Stop()

	// Once signing starts the run is not interruptible.
	runCtx := context.WithoutCancel(ctx)
	orch := liquidation.New(jup, signer, node, session, liquidation.Options{
		SettleDelay: cfg.Liquidation.SettleDelay(),
		OnEntry:     func(e liquidation.Entry) { fmt.Println(report.LogLine(e)) },
		OnComplete: func(*liquidation.Result) {
			refreshed, err := valuer.Valuate(runCtx, owner)
			if err != nil {
				logger.Warn().Err(err).Msg("refresh failed")
				return
			}
			fmt.Println()
			_ = report.Holdings(os.Stdout, refreshed, includeNative)
		},
	}, logger)

	started := time.Now()
	res, err := orch.Run(runCtx, val, includeNative)
	if err != nil {
		return err
	}
	if path := cfg.Liquidation.HistoryPath; path != "" {
		if err := recordRun(path, owner.String(), started, res); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("history not written")
		}
	}
	if res.State == liquidation.Aborted {
		return fmt.Errorf("run %s aborted: %w", res.RunID, res.Err)
	}
	return nil
}

func recordRun(path, owner string, at time.Time, res *liquidation.Result) error {
	rec, err := history.NewJSONLRecorder(path)
	if err != nil {
		return err
	}
	defer rec.Close()
	return rec.Record(history.NewRecord(owner, at, res))
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
