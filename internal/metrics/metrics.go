// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mining Metrics
	MiningLevelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mining_level_duration_seconds",
			Help:    "Time spent generating and counting one Apriori level",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10), // 0.5ms to ~131s
		},
		[]string{"level"},
	)

	MiningLevelCandidates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mining_level_candidates",
			Help: "Candidate itemsets counted at each level in the last mining run",
		},
		[]string{"level"},
	)

	MiningLevelFrequent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mining_level_frequent",
			Help: "Frequent itemsets found at each level in the last mining run",
		},
		[]string{"level"},
	)

	MiningItemsets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_itemsets",
			Help: "Frequent itemsets in the serving model",
		},
	)

	MiningRules = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mining_rules",
			Help: "Association rules in the serving model",
		},
	)

	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "training_runs_total",
			Help: "Total number of training runs by outcome",
		},
		[]string{"status"}, // "success", "failure", "skipped"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "End-to-end duration of successful training runs",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_version",
			Help: "Version of the serving model",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "model_last_trained_timestamp_seconds",
			Help: "Unix timestamp of when the serving model was built",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"status"}, // "ok", "empty", "invalid", "not_ready", "error"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of recommendation queries",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
		},
	)

	RecommendItemsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_items_returned",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 10, 20, 50},
		},
	)

	RecommendCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation cache hits",
		},
	)

	RecommendCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation cache misses",
		},
	)

	// Evaluation Metrics
	EvaluationPrecision = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_precision",
			Help: "Holdout precision of the last evaluation run",
		},
	)

	EvaluationCoverage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_coverage",
			Help: "Fraction of evaluated transactions that received a recommendation",
		},
	)

	EvaluationHitRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_hit_rate",
			Help: "Fraction of recommended transactions with at least one hit",
		},
	)

	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordMiningLevel records one completed Apriori level.
func RecordMiningLevel(level, candidates, frequent int, duration time.Duration) {
	l := strconv.Itoa(level)
	MiningLevelDuration.WithLabelValues(l).Observe(duration.Seconds())
	MiningLevelCandidates.WithLabelValues(l).Set(float64(candidates))
	MiningLevelFrequent.WithLabelValues(l).Set(float64(frequent))
}

// RecordTraining records the outcome of a training run. Model gauges are
// updated only on success.
func RecordTraining(status string, duration time.Duration, version, itemsets, rules int, trainedAt time.Time) {
	TrainingRuns.WithLabelValues(status).Inc()
	if status != "success" {
		return
	}
	TrainingDuration.Observe(duration.Seconds())
	ModelVersion.Set(float64(version))
	MiningItemsets.Set(float64(itemsets))
	MiningRules.Set(float64(rules))
	ModelLastTrained.Set(float64(trainedAt.Unix()))
}

// RecordRecommendation records a recommendation request.
func RecordRecommendation(status string, duration time.Duration, returned int, cacheHit bool) {
	RecommendRequests.WithLabelValues(status).Inc()
	RecommendDuration.Observe(duration.Seconds())
	if status != "ok" && status != "empty" {
		return
	}
	RecommendItemsReturned.Observe(float64(returned))
	if cacheHit {
		RecommendCacheHits.Inc()
	} else {
		RecommendCacheMisses.Inc()
	}
}

// RecordEvaluation records the ratios of an evaluation run.
func RecordEvaluation(precision, coverage, hitRate float64) {
	EvaluationPrecision.Set(precision)
	EvaluationCoverage.Set(coverage)
	EvaluationHitRate.Set(hitRate)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
