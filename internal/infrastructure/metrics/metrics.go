package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cards
	CardRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_card_requests_total",
			Help: "Card generations by company category and result",
		},
		[]string{"category", "result"}, // result: success|failed
	)
	CardDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "roastcard_card_duration_seconds",
			Help:    "End-to-end card generation time",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8), // 1s..128s
		},
	)

	// Logo
	LogoLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_logo_lookups_total",
			Help: "Logo lookups by result",
		},
		[]string{"result"}, // result: found|placeholder|not_found|error
	)

	// LLM
	LLMRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_llm_requests_total",
			Help: "Number of LLM requests by model",
		},
		[]string{"model"},
	)
	RoastAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_roast_attempts_total",
			Help: "Roast generation attempts by outcome",
		},
		[]string{"outcome"}, // outcome: valid|invalid|error
	)
	RoastFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roastcard_roast_fallbacks_total",
			Help: "Roasts that fell back to the canned line",
		},
	)
	LLMTokens = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_llm_tokens_total",
			Help: "Tokens reported by the model",
		},
		[]string{"direction"}, // direction: input|output
	)
	LLMCostDollars = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "roastcard_llm_cost_dollars_total",
			Help: "Estimated generation spend in USD",
		},
	)

	// Render
	RenderDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roastcard_render_duration_seconds",
			Help:    "Headless browser render time",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	// Usage ledger
	UsageRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_usage_records_total",
			Help: "Usage ledger writes",
		},
		[]string{"result"},
	)

	// HTTP
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed.",
		},
		[]string{"method", "path"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	HTTPErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_errors_total",
			Help: "Total number of HTTP request errors.",
		},
		[]string{"method", "path", "status"},
	)

	// Errors
	Errors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roastcard_errors_total",
			Help: "Errors encountered in components",
		},
		[]string{"component", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		CardRequests,
		CardDurationSeconds,
		LogoLookups,
		LLMRequests,
		RoastAttempts,
		RoastFallbacks,
		LLMTokens,
		LLMCostDollars,
		RenderDurationSeconds,
		UsageRecords,
		HTTPRequests,
		HTTPRequestDuration,
		HTTPErrors,
		Errors,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func StartMetricsServer(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	return http.ListenAndServe(addr, mux)
}

// Cards
func IncCardRequest(category, result string) {
	CardRequests.WithLabelValues(category, result).Inc()
}

func ObserveCardDuration(d time.Duration) {
	CardDurationSeconds.Observe(d.Seconds())
}

// Logo
func IncLogoLookup(result string) {
	LogoLookups.WithLabelValues(result).Inc()
}

// LLM
func IncLLMRequest(model string) {
	LLMRequests.WithLabelValues(model).Inc()
}

func IncRoastAttempt(outcome string) {
	RoastAttempts.WithLabelValues(outcome).Inc()
}

func IncRoastFallback() {
	RoastFallbacks.Inc()
}

func AddTokens(input, output int) {
	LLMTokens.WithLabelValues("input").Add(float64(input))
	LLMTokens.WithLabelValues("output").Add(float64(output))
}

func AddCost(dollars float64) {
	LLMCostDollars.Add(dollars)
}

// Render
func ObserveRenderDuration(result string, d time.Duration) {
	RenderDurationSeconds.WithLabelValues(result).Observe(d.Seconds())
}

// Usage
func IncUsageRecord(result string) {
	UsageRecords.WithLabelValues(result).Inc()
}

// HTTP
func ObserveHTTPRequest(method, path, status string, d time.Duration, failed bool) {
	HTTPRequests.WithLabelValues(method, path).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(d.Seconds())
	if failed {
		HTTPErrors.WithLabelValues(method, path, status).Inc()
	}
}

// Errors
func IncError(component, typ string) {
	Errors.WithLabelValues(component, typ).Inc()
}
