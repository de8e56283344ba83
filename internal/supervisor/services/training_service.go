// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// Trainer is the engine surface the training service drives.
type Trainer interface {
	// Restore loads the newest persisted model, reporting whether one existed.
	Restore(ctx context.Context) (bool, error)

	// TryTrain runs training unless a run is already in progress.
	TryTrain(ctx context.Context) (*recommend.Model, error)

	// Model returns the serving model, or nil before the first install.
	Model() *recommend.Model
}

// TrainingServiceConfig holds configuration for the training service.
type TrainingServiceConfig struct {
	// TrainOnStartup trains immediately when no persisted model was restored.
	TrainOnStartup bool

	// TrainInterval is how often to retrain. 0 disables scheduled retraining.
	TrainInterval time.Duration

	// Timeout bounds each training run.
	// Default: 10m.
	Timeout time.Duration
}

// TrainingService restores the last persisted model and keeps it fresh.
//
// On start it restores from the model store unless a model is already
// serving, as it is after a supervisor restart. It then trains once if
// configured and no model is serving. Afterwards it retrains on a ticker. A run that
// collides with an API-triggered run is skipped, not queued.
type TrainingService struct {
	engine Trainer
	config TrainingServiceConfig
	logger zerolog.Logger
	name   string
}

// NewTrainingService creates a new training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(engine Trainer, cfg TrainingServiceConfig, logger zerolog.Logger) *TrainingService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Minute
	}
	return &TrainingService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "training").Logger(),
		name:   "training-service",
	}
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("training service starting")

	serving := s.engine.Model() != nil
	if serving {
		s.logger.Debug().Msg("model already serving, skipping restore")
	} else {
		restored, err := s.engine.Restore(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("model restore failed, continuing without a persisted model")
		}
		serving = restored
	}

	if s.config.TrainOnStartup && !serving {
		s.train(ctx, "startup")
	}

	if s.config.TrainInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("training service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.train(ctx, "schedule")
		}
	}
}

// train runs one bounded training attempt. Failures are logged and the
// previous model keeps serving.
func (s *TrainingService) train(ctx context.Context, trigger string) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	m, err := s.engine.TryTrain(trainCtx)
	switch {
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("training already in progress, skipping")
	case errors.Is(err, context.Canceled) && ctx.Err() != nil:
		// shutting down
	case err != nil:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("training failed")
	default:
		s.logger.Info().
			Str("trigger", trigger).
			Int("version", m.Version).
			Int("itemsets", len(m.Itemsets)).
			Int("rules", m.Rules.Len()).
			Msg("training complete")
	}
}

// String returns the service name for logging.
func (s *TrainingService) String() string {
	return s.name
}
