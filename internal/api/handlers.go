// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package api

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/recommend/evaluation"
)

const defaultTrainTimeout = 10 * time.Minute

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	engine       *recommend.Engine
	evaluation   evaluation.Config
	trainLimiter *rate.Limiter
	trainTimeout time.Duration
	trainWait    time.Duration
	version      string
	startTime    time.Time
}

// HandlerOptions configures a Handler.
type HandlerOptions struct {
	// Evaluation is the default holdout protocol for POST /evaluate.
	Evaluation evaluation.Config

	// TrainMinInterval spaces POST /model/train requests. 0 disables the limit.
	TrainMinInterval time.Duration

	// TrainTimeout bounds a training run started by the API.
	// Default: 10 minutes.
	TrainTimeout time.Duration

	// TrainWait is how long POST /model/train waits for the run before
	// answering 202. 0 waits for the run to finish.
	TrainWait time.Duration

	// Version is reported by the health endpoint.
	Version string
}

// NewHandler creates the API handlers around engine.
func NewHandler(engine *recommend.Engine, opts HandlerOptions) *Handler {
	h := &Handler{
		engine:     engine,
		evaluation: opts.Evaluation,
		version:    opts.Version,
		startTime:  time.Now(),

		trainTimeout: opts.TrainTimeout,
		trainWait:    opts.TrainWait,
	}
	if h.trainTimeout <= 0 {
		h.trainTimeout = defaultTrainTimeout
	}
	if opts.TrainMinInterval > 0 {
		h.trainLimiter = rate.NewLimiter(rate.Every(opts.TrainMinInterval), 1)
	}
	return h
}
