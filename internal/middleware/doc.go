// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package middleware provides HTTP middleware shared by the API router.
//
// All middleware use the func(http.Handler) http.Handler shape so they plug
// straight into chi's r.Use():
//
//   - RequestID: assigns or propagates X-Request-ID and seeds the logging
//     context with request and correlation IDs
//   - AccessLog: one structured zerolog line per request
//   - PrometheusMetrics: request counts, latency and in-flight gauge
//
// Metrics are labelled with the chi route pattern (e.g.
// /api/v1/cooccurrence/{item}) rather than the raw path, which keeps label
// cardinality bounded no matter what clients send.
//
// # Ordering
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.AccessLog)
//	r.Use(middleware.PrometheusMetrics)
//
// RequestID must run first so later middleware see the IDs in the context.
package middleware
