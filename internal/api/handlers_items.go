// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// ItemFrequency is one catalog entry of the serving model.
type ItemFrequency struct {
	Item  recommend.Item `json:"item"`
	Count int            `json:"count"`
	// Share is Count over the number of mined transactions.
	Share float64 `json:"share"`
}

// ItemsResponse is returned by GET /api/v1/items.
type ItemsResponse struct {
	ModelVersion int             `json:"model_version"`
	Transactions int             `json:"transactions"`
	Total        int             `json:"total"`
	Items        []ItemFrequency `json:"items"`
}

// Items handles GET /api/v1/items?limit=. Items are the purchase counts the
// serving model was mined from, most purchased first.
func (h *Handler) Items(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	q := ItemsQuery{Limit: limit}
	if !validateQuery(w, r, &q) {
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondEngineError(w, r, recommend.ErrModelNotReady)
		return
	}

	counts := m.ItemCounts
	if q.Limit > 0 && len(counts) > q.Limit {
		counts = counts[:q.Limit]
	}
	items := make([]ItemFrequency, len(counts))
	for i, c := range counts {
		items[i] = ItemFrequency{Item: c.Item, Count: c.Count}
		if m.Transactions > 0 {
			items[i].Share = float64(c.Count) / float64(m.Transactions)
		}
	}

	respondData(w, r, ItemsResponse{
		ModelVersion: m.Version,
		Transactions: m.Transactions,
		Total:        len(m.ItemCounts),
		Items:        items,
	}, start)
}
