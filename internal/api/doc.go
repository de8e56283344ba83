// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package api serves the recommendation engine over HTTP using the chi router.
//
// # Endpoints
//
//	GET  /api/v1/health                  liveness and model readiness
//	GET  /api/v1/model                   training status and engine counters
//	POST /api/v1/model/train             retrain now (rate limited, 409 while running)
//	GET  /api/v1/items                   item purchase counts (?limit=)
//	GET  /api/v1/itemsets                frequent itemsets (?min_size=&limit=)
//	GET  /api/v1/rules                   association rules (?metric=&limit=)
//	POST /api/v1/recommendations         {"items": [...], "limit": n}
//	GET  /api/v1/cooccurrence/{item}     item most often bought with {item}
//	POST /api/v1/evaluate                holdout precision on posted baskets
//	GET  /metrics                        Prometheus exposition
//
// # Response Envelope
//
// Every /api/v1 response uses the same envelope:
//
//	{"success": true, "data": {...}, "meta": {"timestamp": "...", "request_id": "..."}}
//	{"success": false, "error": {"code": "VALIDATION_ERROR", "message": "..."}, "meta": {...}}
//
// # Error Mapping
//
//	recommend.ErrValidation, recommend.ErrConfiguration  400 VALIDATION_ERROR
//	malformed JSON body                                   400 INVALID_JSON
//	recommend.ErrModelNotReady                            503 MODEL_NOT_READY
//	recommend.ErrTrainingInProgress                       409 TRAINING_IN_PROGRESS
//	train rate limit                                      429 RATE_LIMITED
//	anything else                                         500 INTERNAL_ERROR
package api
