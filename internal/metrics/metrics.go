// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every WeSplit collector plus the Go runtime and process collectors.
var Registry = prometheus.NewRegistry()

var (
	// RPCRequests counts handled RPCs by procedure and Connect code.
	RPCRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wesplit",
		Name:      "rpc_requests_total",
		Help:      "Handled RPC requests by procedure and result code.",
	}, []string{"procedure", "code"})

	// RPCDuration observes RPC latency.
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wesplit",
		Name:      "rpc_duration_seconds",
		Help:      "RPC latency by procedure.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure"})

	// BalanceComputations counts balance reads by where they were served from.
	BalanceComputations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wesplit",
		Name:      "balance_computations_total",
		Help:      "Group balances served, by source (cache or computed).",
	}, []string{"source"})

	InvalidBalances = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wesplit",
		Name:      "invalid_balances_total",
		Help:      "Balances that failed the zero-sum check.",
	})

	ConversionGaps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wesplit",
		Name:      "currency_conversion_gaps_total",
		Help:      "Balance normalizations that left amounts unconverted.",
	})

	// FxRefreshes counts FX refresh attempts by result (ok or error).
	FxRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wesplit",
		Name:      "fx_refreshes_total",
		Help:      "FX rate refresh attempts by result.",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		RPCRequests,
		RPCDuration,
		BalanceComputations,
		InvalidBalances,
		ConversionGaps,
		FxRefreshes,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
