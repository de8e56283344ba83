// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/recommend/evaluation"
)

// EvaluateResponse is returned by POST /api/v1/evaluate.
type EvaluateResponse struct {
	ModelVersion int               `json:"model_version"`
	Config       evaluation.Config `json:"config"`
	Report       evaluation.Report `json:"report"`
}

// Recommendations handles POST /api/v1/recommendations.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if !decodeAndValidate(w, r, &req) {
		metrics.RecordRecommendation("invalid", time.Since(start), 0, false)
		return
	}

	resp, err := h.engine.Recommend(r.Context(), toItems(req.Items), req.Limit)
	if err != nil {
		metrics.RecordRecommendation("error", time.Since(start), 0, false)
		respondEngineError(w, r, err)
		return
	}

	status := "ok"
	if len(resp.Items) == 0 {
		status = "empty"
	}
	metrics.RecordRecommendation(status, time.Since(start), len(resp.Items), resp.CacheHit)
	logging.Ctx(r.Context()).Debug().
		Int("basket", len(resp.Basket)).
		Int("returned", len(resp.Items)).
		Bool("cache_hit", resp.CacheHit).
		Msg("Recommendations served")

	respondJSON(w, r, http.StatusOK, &Response{
		Success: true,
		Data:    resp,
		Meta:    Meta{QueryTimeMS: time.Since(start).Milliseconds(), Cached: resp.CacheHit},
	})
}

// Evaluate handles POST /api/v1/evaluate. The posted baskets are scored
// against the serving model's rules with the holdout protocol.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req EvaluateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	m := h.engine.Model()
	if m == nil {
		respondEngineError(w, r, recommend.ErrModelNotReady)
		return
	}

	cfg := h.evaluation
	if req.Holdout > 0 {
		cfg.HoldoutSize = req.Holdout
	}
	if req.Seed != nil {
		cfg.Seed = *req.Seed
	}
	if req.Limit > 0 {
		cfg.MaxRecommendations = req.Limit
	}

	evaluator, err := evaluation.New(cfg)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	report, err := evaluator.Run(r.Context(), toTransactions(req.Transactions), m.Rules)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	metrics.RecordEvaluation(report.Precision, report.Coverage, report.HitRate)
	logging.Ctx(r.Context()).Info().
		Int("transactions", report.Transactions).
		Float64("precision", report.Precision).
		Float64("coverage", report.Coverage).
		Msg("Evaluation complete")

	respondData(w, r, EvaluateResponse{ModelVersion: m.Version, Config: cfg, Report: report}, start)
}
