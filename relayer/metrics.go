package relayer

import (
	"fmt"
	"log"
	"math/big"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PromMetrics struct {
	Limits             *prometheus.GaugeVec
	ResolutionFailures *prometheus.CounterVec
	DegradedEstimates  *prometheus.CounterVec
	RelaySubmissions   *prometheus.CounterVec
	RelayErrors        *prometheus.CounterVec
}

// NewPromMetrics creates the bridge metrics and registers them with reg.
func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	// labels
	var (
		limitLabels    = []string{"direction", "chain_id", "token", "limit"}
		directionLabel = []string{"direction"}
		degradedLabels = []string{"direction", "kind"}
		relayLabels    = []string{"chain_id", "mode"}
	)

	m := &PromMetrics{
		Limits: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "omnibridge_token_limit",
			Help: "The last computed limit for a token, in the token's smallest unit",
		}, limitLabels),
		ResolutionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnibridge_resolution_failures_total",
			Help: "The number of failed counterpart token resolutions",
		}, directionLabel),
		DegradedEstimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnibridge_degraded_estimates_total",
			Help: "The number of limits or fee computations replaced by their fallback",
		}, degradedLabels),
		RelaySubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnibridge_relay_submissions_total",
			Help: "The number of relay transactions accepted by a node",
		}, relayLabels),
		RelayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "omnibridge_relay_errors_total",
			Help: "The number of relay transactions that failed to submit",
		}, relayLabels),
	}

	reg.MustRegister(m.Limits, m.ResolutionFailures, m.DegradedEstimates, m.RelaySubmissions, m.RelayErrors)

	return m
}

// InitPromMetrics creates the metrics and exposes them on /metrics.
func InitPromMetrics(port int16) *PromMetrics {
	reg := prometheus.NewRegistry()
	m := NewPromMetrics(reg)

	// Expose /metrics HTTP endpoint
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), mux))
	}()

	return m
}

func (m *PromMetrics) SetLimit(direction string, chainID uint64, token, limit string, value *big.Int) {
	if m == nil || value == nil {
		return
	}
	f, _ := new(big.Float).SetInt(value).Float64()
	m.Limits.WithLabelValues(direction, strconv.FormatUint(chainID, 10), token, limit).Set(f)
}

func (m *PromMetrics) IncResolutionFailures(direction string) {
	if m == nil {
		return
	}
	m.ResolutionFailures.WithLabelValues(direction).Inc()
}

func (m *PromMetrics) IncDegradedEstimates(direction, kind string) {
	if m == nil {
		return
	}
	m.DegradedEstimates.WithLabelValues(direction, kind).Inc()
}

func (m *PromMetrics) IncRelaySubmissions(chainID uint64, mode string) {
	if m == nil {
		return
	}
	m.RelaySubmissions.WithLabelValues(strconv.FormatUint(chainID, 10), mode).Inc()
}

func (m *PromMetrics) IncRelayErrors(chainID uint64, mode string) {
	if m == nil {
		return
	}
	m.RelayErrors.WithLabelValues(strconv.FormatUint(chainID, 10), mode).Inc()
}
