// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

/*
Package metrics provides Prometheus instrumentation for the marketbasket
service.

All collectors are registered with the default registry through promauto and
exposed by the API server at /metrics.

# Metric Families

Mining:
  - mining_level_duration_seconds{level}: time to generate and count one level
  - mining_level_candidates{level}: candidates counted in the last run
  - mining_level_frequent{level}: frequent itemsets found in the last run
  - mining_itemsets / mining_rules: size of the serving model

Training:
  - training_runs_total{status}: success, failure, skipped
  - training_duration_seconds: end-to-end training time
  - model_version: version of the serving model
  - model_last_trained_timestamp_seconds

Recommendations:
  - recommend_requests_total{status}
  - recommend_duration_seconds
  - recommend_items_returned
  - recommend_cache_hits_total / recommend_cache_misses_total

Evaluation:
  - evaluation_precision, evaluation_coverage, evaluation_hit_rate

Database and API:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}
  - api_requests_total{method,endpoint,status}
  - api_request_duration_seconds{method,endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}
  - circuit_breaker_state{name}, circuit_breaker_requests_total{name,result},
    circuit_breaker_transitions_total{name,from,to}

# Usage

	start := time.Now()
	rows, err := conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "transactions", time.Since(start), err)
*/
package metrics
