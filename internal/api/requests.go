// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// RecommendRequest is the body of POST /api/v1/recommendations.
type RecommendRequest struct {
	Items []string `json:"items" validate:"required,min=1,max=100,dive,item"`
	// Limit 0 uses the configured default.
	Limit int `json:"limit" validate:"min=0,max=1000"`
}

// EvaluateRequest is the body of POST /api/v1/evaluate.
type EvaluateRequest struct {
	Transactions [][]string `json:"transactions" validate:"required,min=1,max=100000,dive,required,min=1,dive,item"`
	// Holdout 0 uses the configured holdout size.
	Holdout int `json:"holdout" validate:"min=0,max=100"`
	// Seed nil uses the configured seed.
	Seed *uint64 `json:"seed"`
	// Limit 0 uses the configured recommendation count.
	Limit int `json:"limit" validate:"min=0,max=1000"`
}

// ItemsetsQuery holds GET /api/v1/itemsets parameters.
type ItemsetsQuery struct {
	MinSize int `json:"min_size" validate:"min=0,max=64"`
	Limit   int `json:"limit" validate:"min=0,max=10000"`
}

// ItemsQuery holds GET /api/v1/items parameters.
type ItemsQuery struct {
	Limit int `json:"limit" validate:"min=0,max=10000"`
}

// RulesQuery holds GET /api/v1/rules parameters.
type RulesQuery struct {
	Metric string `json:"metric" validate:"omitempty,rank_metric"`
	Limit  int    `json:"limit" validate:"min=0,max=10000"`
}

// queryInt parses an integer query parameter. Missing means defaultValue;
// a malformed value is reported as a validation error.
func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &recommend.ValidationError{Field: key, Reason: "must be an integer"}
	}
	return n, nil
}

func toItems(labels []string) []recommend.Item {
	items := make([]recommend.Item, len(labels))
	for i, l := range labels {
		items[i] = recommend.Item(l)
	}
	return items
}

func toTransactions(baskets [][]string) []recommend.Transaction {
	txs := make([]recommend.Transaction, len(baskets))
	for i, b := range baskets {
		txs[i] = recommend.Transaction(toItems(b))
	}
	return txs
}
