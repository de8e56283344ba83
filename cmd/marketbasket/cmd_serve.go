// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/api"
	"github.com/tomtom215/marketbasket/internal/config"
	"github.com/tomtom215/marketbasket/internal/database"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/recommend/storage"
	"github.com/tomtom215/marketbasket/internal/supervisor"
	"github.com/tomtom215/marketbasket/internal/supervisor/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the recommendation API",
		Long: `Serve starts the supervisor tree: a training service that restores the
last persisted model and retrains on training.interval, and the HTTP API on
server.host:server.port. Prometheus metrics are exposed on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), a.cfg)
		},
	}
}

//nolint:gocyclo // sequential wiring of optional components
func runServe(ctx context.Context, cfg *config.Config) error {
	logging.Info().
		Str("version", version).
		Str("source", cfg.Training.Source).
		Bool("database", cfg.Database.Enabled).
		Bool("store", cfg.Store.Enabled).
		Msg("Starting marketbasket with supervisor tree")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}

	var db *database.DB
	if cfg.Database.Enabled {
		db, err = database.New(&cfg.Database)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing database")
			}
		}()
		logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized")
	}

	switch cfg.Training.Source {
	case config.SourceDatabase:
		engine.SetTransactionSource(database.NewBreakerSource("duckdb", db))
	default:
		txs, err := datasetTransactions(cfg, cfg.Dataset.Path)
		if err != nil {
			return err
		}
		engine.SetTransactionSource(recommend.StaticSource(txs))
	}

	var store *storage.Store
	if cfg.Store.Enabled {
		store, err = storage.Open(storage.Config{
			Path:       cfg.Store.Path,
			InMemory:   cfg.Store.InMemory,
			SyncWrites: cfg.Store.SyncWrites,
		})
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing model store")
			}
		}()
		engine.SetModelStore(store)
	}

	engine.SetTrainHook(newTrainHook(db, store, cfg.Store.KeepVersions))

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	tree.AddDataService(services.NewTrainingService(engine, services.TrainingServiceConfig{
		TrainOnStartup: cfg.Training.OnStartup,
		TrainInterval:  cfg.Training.Interval,
		Timeout:        cfg.Training.Timeout,
	}, logging.Logger()))
	if store != nil {
		tree.AddDataService(services.NewStoreGCService(store, 0, logging.Logger()))
	}

	handler := api.NewHandler(engine, api.HandlerOptions{
		Evaluation:       cfg.EvaluatorConfig(),
		TrainMinInterval: cfg.Server.TrainMinInterval,
		TrainTimeout:     cfg.Training.Timeout,
		TrainWait:        cfg.Server.Timeout / 2,
		Version:          version,
	})
	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Server.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Server.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Server.RateLimitDisabled

	addr := cfg.Server.Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, api.NewChiMiddleware(mwCfg)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, shutdownTimeout, logging.Logger()))

	err = tree.Serve(ctx)
	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logging.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Shutdown complete")
	return nil
}

// newTrainHook exports every training attempt to Prometheus. Successful
// models also have their rules written to DuckDB and old snapshots pruned.
func newTrainHook(db *database.DB, store *storage.Store, keep int) func(*recommend.Model, time.Duration, error) {
	return func(m *recommend.Model, took time.Duration, err error) {
		if err != nil {
			metrics.RecordTraining(trainingStatus(err), took, 0, 0, 0, time.Time{})
			return
		}
		metrics.RecordTraining("success", took, m.Version, len(m.Itemsets), m.Rules.Len(), m.TrainedAt)

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if db != nil {
			if err := db.SaveRules(ctx, m.Version, m.Rules.Rules); err != nil {
				logging.Error().Err(err).Int("version", m.Version).Msg("Failed to save rules")
			}
		}
		if store != nil {
			removed, err := store.Prune(ctx, keep)
			if err != nil {
				logging.Error().Err(err).Msg("Failed to prune model store")
			} else if removed > 0 {
				logging.Debug().Int("removed", removed).Msg("Pruned old model versions")
			}
		}
	}
}

func trainingStatus(err error) string {
	switch {
	case errors.Is(err, recommend.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case recommend.IsUserError(err):
		return "invalid"
	default:
		return "error"
	}
}
