// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

// HealthResponse is returned by GET /api/v1/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	ModelReady    bool    `json:"model_ready"`
	ModelVersion  int     `json:"model_version"`
	Version       string  `json:"version"`
	GoVersion     string  `json:"go_version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ModelStatusResponse is returned by the model endpoints.
type ModelStatusResponse struct {
	Status  recommend.TrainingStatus `json:"status"`
	Metrics recommend.Metrics        `json:"metrics"`
	Config  *recommend.Config        `json:"config"`
}

// Health handles GET /api/v1/health. The server is healthy as soon as it is
// up; "degraded" means no model has been trained yet.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := h.engine.Status()

	resp := HealthResponse{
		Status:        "healthy",
		ModelReady:    h.engine.Model() != nil,
		ModelVersion:  status.ModelVersion,
		Version:       h.version,
		GoVersion:     runtime.Version(),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}
	if !resp.ModelReady {
		resp.Status = "degraded"
	}
	respondData(w, r, resp, start)
}

// ModelStatus handles GET /api/v1/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondData(w, r, h.modelStatus(), start)
}

// TrainModel handles POST /api/v1/model/train. The run is detached from the
// request and bounded by the training timeout, so a client that disconnects
// does not cancel a run other callers share. The handler waits up to the
// train wait for the result; after that it answers 202 and the run
// continues. A run already in progress yields 409.
func (h *Handler) TrainModel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.trainLimiter != nil && !h.trainLimiter.Allow() {
		metrics.APIRateLimitHits.WithLabelValues("train").Inc()
		respondError(w, r, http.StatusTooManyRequests, &APIError{
			Code:    CodeRateLimited,
			Message: "Training was triggered too recently",
		}, nil)
		return
	}

	logger := logging.Ctx(r.Context())
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.trainTimeout)
	done := make(chan trainResult, 1)
	go func() {
		defer cancel()
		m, err := h.engine.TryTrain(ctx)
		if err == nil {
			logger.Info().
				Int("version", m.Version).
				Int("rules", m.Rules.Len()).
				Msg("Model retrained via API")
		}
		done <- trainResult{model: m, err: err}
	}()

	var wait <-chan time.Time
	if h.trainWait > 0 {
		timer := time.NewTimer(h.trainWait)
		defer timer.Stop()
		wait = timer.C
	}

	select {
	case res := <-done:
		if res.err != nil {
			respondEngineError(w, r, res.err)
			return
		}
		respondData(w, r, h.modelStatus(), start)
	case <-wait:
		respondJSON(w, r, http.StatusAccepted, &Response{
			Success: true,
			Data:    h.modelStatus(),
			Meta:    Meta{QueryTimeMS: time.Since(start).Milliseconds()},
		})
	case <-r.Context().Done():
		logger.Debug().Msg("Client left before training finished")
	}
}

type trainResult struct {
	model *recommend.Model
	err   error
}

func (h *Handler) modelStatus() ModelStatusResponse {
	return ModelStatusResponse{
		Status:  h.engine.Status(),
		Metrics: h.engine.Metrics(),
		Config:  h.engine.Config(),
	}
}
