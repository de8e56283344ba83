// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/recommend"
	"github.com/tomtom215/marketbasket/internal/recommend/evaluation"
)

// Training sources.
const (
	SourceDatabase = "database"
	SourceDataset  = "dataset"
)

// Config holds all application configuration.
type Config struct {
	Mining     MiningConfig     `koanf:"mining"`
	Rules      RulesConfig      `koanf:"rules"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Evaluation EvaluationConfig `koanf:"evaluation"`
	Dataset    DatasetConfig    `koanf:"dataset"`
	Database   DatabaseConfig   `koanf:"database"`
	Store      StoreConfig      `koanf:"store"`
	Server     ServerConfig     `koanf:"server"`
	Training   TrainingConfig   `koanf:"training"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// MiningConfig holds frequent itemset mining parameters.
type MiningConfig struct {
	MinSupport     float64 `koanf:"min_support" validate:"gt=0,lte=1"`
	MaxItemsetSize int     `koanf:"max_itemset_size" validate:"gte=0"`
	Workers        int     `koanf:"workers" validate:"gte=0"`
}

// RulesConfig holds association rule filtering parameters.
type RulesConfig struct {
	Metric       string  `koanf:"metric" validate:"required,metric"`
	MinThreshold float64 `koanf:"min_threshold" validate:"gte=0"`
}

// RecommendConfig holds recommendation query parameters.
type RecommendConfig struct {
	MaxRecommendations int           `koanf:"max_recommendations" validate:"gte=0"`
	MaxK               int           `koanf:"max_k" validate:"gtefield=MaxRecommendations"`
	CacheEnabled       bool          `koanf:"cache_enabled"`
	CacheSize          int           `koanf:"cache_size" validate:"required_if=CacheEnabled true,gte=0"`
	CacheTTL           time.Duration `koanf:"cache_ttl" validate:"gte=0"`
}

// EvaluationConfig holds holdout evaluation parameters.
type EvaluationConfig struct {
	TestFraction float64 `koanf:"test_fraction" validate:"gt=0,lt=1"`
	HoldoutSize  int     `koanf:"holdout_size" validate:"min=1"`
	Seed         uint64  `koanf:"seed"`
	Workers      int     `koanf:"workers" validate:"gte=0"`
}

// DatasetConfig describes where transactions come from when no database is
// used: a CSV file, or a synthetic basket set when Path is empty.
type DatasetConfig struct {
	Path                string `koanf:"path"`
	Transactions        int    `koanf:"transactions" validate:"min=1"`
	ItemsPerTransaction int    `koanf:"items_per_transaction" validate:"min=1"`
	Seed                uint64 `koanf:"seed"`
}

// DatabaseConfig holds DuckDB settings for the transaction store.
type DatabaseConfig struct {
	Enabled                bool          `koanf:"enabled"`
	Path                   string        `koanf:"path" validate:"required_if=Enabled true"`
	MaxMemory              string        `koanf:"max_memory" validate:"required"`
	Threads                int           `koanf:"threads" validate:"gte=0"`
	PreserveInsertionOrder bool          `koanf:"preserve_insertion_order"`
	QueryTimeout           time.Duration `koanf:"query_timeout" validate:"gt=0"`
}

// StoreConfig holds BadgerDB settings for model snapshots.
type StoreConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Path         string `koanf:"path"`
	InMemory     bool   `koanf:"in_memory"`
	SyncWrites   bool   `koanf:"sync_writes"`
	KeepVersions int    `koanf:"keep_versions" validate:"min=1"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	// TrainMinInterval is the minimum spacing between POST /model/train
	// requests. 0 disables the limit.
	TrainMinInterval time.Duration `koanf:"train_min_interval" validate:"gte=0"`
}

// TrainingConfig holds model training settings.
type TrainingConfig struct {
	// Source selects the transaction source: database or dataset.
	Source          string        `koanf:"source" validate:"oneof=database dataset"`
	Interval        time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	MinTransactions int           `koanf:"min_transactions" validate:"gte=0"`
	OnStartup       bool          `koanf:"on_startup"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address.
func (s *ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// EngineConfig converts the relevant sections into an engine configuration.
func (c *Config) EngineConfig() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Mining = recommend.MiningConfig{
		MinSupport:     c.Mining.MinSupport,
		MaxItemsetSize: c.Mining.MaxItemsetSize,
		Workers:        c.Mining.Workers,
	}
	cfg.Rules = recommend.RulesConfig{
		Metric:       recommend.Metric(c.Rules.Metric),
		MinThreshold: c.Rules.MinThreshold,
	}
	cfg.Limits = recommend.LimitsConfig{
		MaxRecommendations: c.Recommend.MaxRecommendations,
		MaxK:               c.Recommend.MaxK,
	}
	cfg.Cache = recommend.CacheConfig{
		Enabled:    c.Recommend.CacheEnabled,
		TTL:        c.Recommend.CacheTTL,
		MaxEntries: c.Recommend.CacheSize,
	}
	cfg.Training = recommend.TrainingConfig{
		Timeout:         c.Training.Timeout,
		MinTransactions: c.Training.MinTransactions,
	}
	return cfg
}

// EvaluatorConfig converts the evaluation section for the evaluator.
func (c *Config) EvaluatorConfig() evaluation.Config {
	return evaluation.Config{
		HoldoutSize:        c.Evaluation.HoldoutSize,
		Seed:               c.Evaluation.Seed,
		MaxRecommendations: c.Recommend.MaxRecommendations,
		Workers:            c.Evaluation.Workers,
	}
}

// LogConfig converts the logging section for logging.Init.
func (c *Config) LogConfig() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
