// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/marketbasket/internal/config"
	"github.com/tomtom215/marketbasket/internal/database"
	"github.com/tomtom215/marketbasket/internal/dataset"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/recommend/algorithms"
)

// newEngine builds an Apriori-backed engine from cfg. Every completed level
// is exported to Prometheus and logged at debug.
func newEngine(cfg *config.Config) (*recommend.Engine, error) {
	logger := logging.WithComponent("apriori")

	miner := algorithms.NewApriori(algorithms.AprioriConfig{
		MaxItemsetSize: cfg.Mining.MaxItemsetSize,
		Workers:        cfg.Mining.Workers,
		OnLevel: func(s algorithms.LevelStats) {
			metrics.RecordMiningLevel(s.Level, s.Candidates, s.Frequent, s.Duration)
			logger.Debug().
				Int("level", s.Level).
				Int("candidates", s.Candidates).
				Int("frequent", s.Frequent).
				Dur("duration", s.Duration).
				Msg("apriori level complete")
		},
	})
	generator := algorithms.NewRuleGenerator(algorithms.RuleGeneratorConfig{Workers: cfg.Mining.Workers})

	return recommend.NewEngine(cfg.EngineConfig(), miner, generator, logging.Logger())
}

// datasetTransactions reads path when set and otherwise generates the
// configured synthetic baskets.
func datasetTransactions(cfg *config.Config, path string) ([]recommend.Transaction, error) {
	if path != "" {
		txs, err := dataset.ReadFile(path)
		if err != nil {
			return nil, err
		}
		logging.Debug().Str("path", path).Int("transactions", len(txs)).Msg("loaded transactions from CSV")
		return txs, nil
	}

	gen := dataset.DefaultGenerateConfig()
	gen.Transactions = cfg.Dataset.Transactions
	gen.ItemsPerTransaction = cfg.Dataset.ItemsPerTransaction
	gen.Seed = cfg.Dataset.Seed
	txs, err := dataset.Generate(gen)
	if err != nil {
		return nil, err
	}
	logging.Debug().Int("transactions", len(txs)).Uint64("seed", gen.Seed).Msg("generated synthetic transactions")
	return txs, nil
}

// loadTransactions returns the transactions of the selected source: the
// DuckDB store, or the dataset (CSV path or synthetic).
func loadTransactions(ctx context.Context, cfg *config.Config, source, path string) ([]recommend.Transaction, error) {
	switch source {
	case config.SourceDatabase:
		db, err := database.New(&cfg.Database)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logging.Warn().Err(err).Msg("error closing database")
			}
		}()
		return db.LoadTransactions(ctx)
	case config.SourceDataset, "":
		return datasetTransactions(cfg, path)
	default:
		return nil, &recommend.ConfigurationError{Field: "source", Value: source, Reason: "must be database or dataset"}
	}
}

// trainedEngine loads transactions and trains an engine on them.
func trainedEngine(ctx context.Context, cfg *config.Config, source, path string) (*recommend.Engine, *recommend.Model, error) {
	txs, err := loadTransactions(ctx, cfg, source, path)
	if err != nil {
		return nil, nil, fmt.Errorf("load transactions: %w", err)
	}

	engine, err := newEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	engine.SetTransactionSource(recommend.StaticSource(txs))

	m, err := engine.Train(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine, m, nil
}
