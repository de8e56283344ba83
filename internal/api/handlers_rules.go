// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/validation"
)

// ItemsetsResponse is returned by GET /api/v1/itemsets.
type ItemsetsResponse struct {
	ModelVersion int                 `json:"model_version"`
	Total        int                 `json:"total"`
	Itemsets     []recommend.Itemset `json:"itemsets"`
}

// RulesResponse is returned by GET /api/v1/rules.
type RulesResponse struct {
	ModelVersion int                         `json:"model_version"`
	Metric       recommend.Metric            `json:"metric"`
	MinThreshold float64                     `json:"min_threshold"`
	Total        int                         `json:"total"`
	Rules        []recommend.AssociationRule `json:"rules"`
}

// CoOccurrenceResponse is returned by GET /api/v1/cooccurrence/{item}.
type CoOccurrenceResponse struct {
	Item recommend.Item         `json:"item"`
	Top  recommend.CoOccurrence `json:"top"`
}

// validateQuery runs validator tags on a query struct.
func validateQuery(w http.ResponseWriter, r *http.Request, q any) bool {
	if verr := validation.ValidateStruct(q); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, &APIError{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}, nil)
		return false
	}
	return true
}

// Itemsets handles GET /api/v1/itemsets?min_size=&limit=. Itemsets keep
// model order: by size, then by labels.
func (h *Handler) Itemsets(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	minSize, err := queryInt(r, "min_size", 0)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	q := ItemsetsQuery{MinSize: minSize, Limit: limit}
	if !validateQuery(w, r, &q) {
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondEngineError(w, r, recommend.ErrModelNotReady)
		return
	}

	selected := make([]recommend.Itemset, 0)
	for _, s := range m.Itemsets {
		if s.Size() < q.MinSize {
			continue
		}
		selected = append(selected, s)
	}
	total := len(selected)
	if q.Limit > 0 && len(selected) > q.Limit {
		selected = selected[:q.Limit]
	}

	respondData(w, r, ItemsetsResponse{ModelVersion: m.Version, Total: total, Itemsets: selected}, start)
}

// Rules handles GET /api/v1/rules?metric=&limit=. Rules are ranked by
// metric descending, defaulting to the metric the model was filtered on.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := queryInt(r, "limit", 100)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	q := RulesQuery{Metric: r.URL.Query().Get("metric"), Limit: limit}
	if !validateQuery(w, r, &q) {
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondEngineError(w, r, recommend.ErrModelNotReady)
		return
	}

	metric := m.Rules.Metric
	if q.Metric != "" {
		metric, err = recommend.ParseRankMetric(q.Metric)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
	}

	respondData(w, r, RulesResponse{
		ModelVersion: m.Version,
		Metric:       metric,
		MinThreshold: m.Rules.MinThreshold,
		Total:        m.Rules.Len(),
		Rules:        m.Rules.Top(metric, q.Limit),
	}, start)
}

// CoOccurrence handles GET /api/v1/cooccurrence/{item}. An item that starts
// no single-item rule is a 404.
func (h *Handler) CoOccurrence(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	item := recommend.Item(strings.TrimSpace(chi.URLParam(r, "item")))
	if item == "" {
		respondEngineError(w, r, &recommend.ValidationError{Field: "item", Reason: "must not be blank"})
		return
	}

	co, ok, err := h.engine.CoOccurrence(item)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	if !ok {
		respondError(w, r, http.StatusNotFound, &APIError{
			Code:    CodeNotFound,
			Message: "No association rule starts from " + string(item),
		}, nil)
		return
	}
	respondData(w, r, CoOccurrenceResponse{Item: item, Top: co}, start)
}
