package metrics

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	sheetsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheets_generated_total",
			Help: "Persisted study sheets per generation type.",
		},
		[]string{"gen_type"},
	)

	quotaDenials = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quota_denials_total",
			Help: "Generation requests denied by the free-tier daily quota.",
		},
	)

	redemptions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "code_redemptions_total",
			Help: "Activation-code redemptions by outcome (success/invalid/already_used/orphaned).",
		},
		[]string{"outcome"},
	)

	providerLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_calls_latency_ms",
			Help:    "Generation provider call latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 200, 400, 800, 1600, 3000, 5000, 10000, 30000},
		},
		[]string{"model", "success"},
	)

	persistFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sheet_persist_failures_total",
			Help: "Sheet inserts that failed and were dropped from the result set.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			sheetsGenerated, quotaDenials, redemptions,
			providerLatencyMs, persistFailures,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func AddSheetsGenerated(genType string, n int) {
	sheetsGenerated.WithLabelValues(norm(genType)).Add(float64(n))
}

func IncQuotaDenied() { quotaDenials.Inc() }

func IncRedemption(outcome string) {
	redemptions.WithLabelValues(norm(outcome)).Inc()
}

func ObserveProviderCall(model string, elapsed time.Duration, success bool) {
	providerLatencyMs.WithLabelValues(norm(model), strconv.FormatBool(success)).
		Observe(float64(elapsed.Milliseconds()))
}

func IncPersistFailure() { persistFailures.Inc() }
