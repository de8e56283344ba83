// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/marketbasket/config.yaml",
	"/etc/marketbasket/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They reproduce the grocery
// workload: 1000 baskets of 6 items, 1% support, lift >= 1, a 20% test split.
func defaultConfig() *Config {
	return &Config{
		Mining: MiningConfig{
			MinSupport:     0.01,
			MaxItemsetSize: 0, // unbounded
			Workers:        runtime.GOMAXPROCS(0),
		},
		Rules: RulesConfig{
			Metric:       "lift",
			MinThreshold: 1.0,
		},
		Recommend: RecommendConfig{
			MaxRecommendations: 6,
			MaxK:               50,
			CacheEnabled:       true,
			CacheSize:          10000,
			CacheTTL:           5 * time.Minute,
		},
		Evaluation: EvaluationConfig{
			TestFraction: 0.2,
			HoldoutSize:  1,
			Seed:         42,
			Workers:      runtime.GOMAXPROCS(0),
		},
		Dataset: DatasetConfig{
			Path:                "", // synthetic baskets
			Transactions:        1000,
			ItemsPerTransaction: 6,
			Seed:                42,
		},
		Database: DatabaseConfig{
			Enabled:                false,
			Path:                   "/data/marketbasket.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			QueryTimeout:           30 * time.Second,
		},
		Store: StoreConfig{
			Enabled:      false,
			Path:         "/data/models",
			KeepVersions: 5,
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			Timeout:          30 * time.Second,
			RateLimitReqs:    100,
			RateLimitWindow:  time.Minute,
			CORSOrigins:      []string{"*"},
			TrainMinInterval: 30 * time.Second,
		},
		Training: TrainingConfig{
			Source:          SourceDataset,
			Interval:        24 * time.Hour,
			Timeout:         10 * time.Minute,
			MinTransactions: 1,
			OnStartup:       true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Default returns the built-in configuration without reading any file or
// environment variable.
func Default() *Config {
	return defaultConfig()
}

// Load loads configuration with koanf using layered sources:
//  1. Defaults: built-in values
//  2. Config file: path if non-empty, else the result of findConfigFile
//  3. Environment variables: override any setting
//
// An explicitly named file that does not exist is an error; a missing
// default file is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := path
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the YAML parser already yields slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Mining
	"mining_min_support":      "mining.min_support",
	"mining_max_itemset_size": "mining.max_itemset_size",
	"mining_workers":          "mining.workers",

	// Rules
	"rules_metric":        "rules.metric",
	"rules_min_threshold": "rules.min_threshold",

	// Recommendations
	"recommend_max_items":     "recommend.max_recommendations",
	"recommend_max_k":         "recommend.max_k",
	"recommend_cache_enabled": "recommend.cache_enabled",
	"recommend_cache_size":    "recommend.cache_size",
	"recommend_cache_ttl":     "recommend.cache_ttl",

	// Evaluation
	"evaluation_test_fraction": "evaluation.test_fraction",
	"evaluation_holdout_size":  "evaluation.holdout_size",
	"evaluation_seed":          "evaluation.seed",
	"evaluation_workers":       "evaluation.workers",

	// Dataset
	"dataset_path":                  "dataset.path",
	"dataset_transactions":          "dataset.transactions",
	"dataset_items_per_transaction": "dataset.items_per_transaction",
	"dataset_seed":                  "dataset.seed",

	// DuckDB
	"duckdb_enabled":       "database.enabled",
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",

	// BadgerDB model store
	"badger_enabled":      "store.enabled",
	"badger_path":         "store.path",
	"badger_in_memory":    "store.in_memory",
	"badger_sync_writes":  "store.sync_writes",
	"model_keep_versions": "store.keep_versions",

	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"http_timeout":       "server.timeout",
	"rate_limit_reqs":    "server.rate_limit_reqs",
	"rate_limit_window":  "server.rate_limit_window",
	"disable_rate_limit": "server.rate_limit_disabled",
	"cors_origins":       "server.cors_origins",
	"train_min_interval": "server.train_min_interval",

	// Training
	"training_source":           "training.source",
	"training_interval":         "training.interval",
	"training_timeout":          "training.timeout",
	"training_min_transactions": "training.min_transactions",
	"training_on_startup":       "training.on_startup",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - MINING_MIN_SUPPORT -> mining.min_support
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the environment cannot pollute config.
	return ""
}
