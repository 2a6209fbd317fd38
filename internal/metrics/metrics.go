// Package metrics registers the Prometheus counters shared across components.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	QuotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "panicsell_quotes_total", Help: "Sell quotes requested, by outcome"},
		[]string{"outcome"},
	)
	AssetsListedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "panicsell_asset_listings_total", Help: "Asset index lookups, by outcome"},
		[]string{"outcome"},
	)
	SwapsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "panicsell_swaps_built_total", Help: "Swap transactions requested from the router"},
		[]string{"outcome"},
	)
	BroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "panicsell_broadcasts_total", Help: "Signed swaps submitted to the cluster"},
		[]string{"outcome"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "panicsell_runs_total", Help: "Liquidation runs by terminal state"},
		[]string{"state"},
	)
)

// Outcome label values.
const (
	OK      = "ok"
	Error   = "error"
	Skipped = "skipped"
)

func init() {
	prometheus.MustRegister(QuotesTotal, AssetsListedTotal, SwapsBuiltTotal, BroadcastsTotal, RunsTotal)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
