// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector reclaims space in the model store.
type GarbageCollector interface {
	RunGC(discardRatio float64) error
}

// StoreGCService periodically runs value log GC on the model store so
// pruned model versions release disk space.
type StoreGCService struct {
	store    GarbageCollector
	interval time.Duration
	ratio    float64
	logger   zerolog.Logger
}

// NewStoreGCService creates a GC service. interval defaults to 10m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStoreGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *StoreGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StoreGCService{
		store:    store,
		interval: interval,
		ratio:    0.5,
		logger:   logger.With().Str("service", "store-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *StoreGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(s.ratio); err != nil {
				s.logger.Warn().Err(err).Msg("model store GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("model store GC complete")
		}
	}
}

// String returns the service name for logging.
func (s *StoreGCService) String() string {
	return "store-gc"
}
