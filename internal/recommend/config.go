// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"runtime"
	"time"
)

// Config contains all configuration for the association rule engine.
type Config struct {
	// Mining contains frequent itemset mining parameters.
	Mining MiningConfig `json:"mining"`

	// Rules contains rule filtering parameters.
	Rules RulesConfig `json:"rules"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Cache contains recommendation cache parameters.
	Cache CacheConfig `json:"cache"`

	// Training contains training run parameters.
	Training TrainingConfig `json:"training"`
}

// MiningConfig contains parameters for the itemset miner.
type MiningConfig struct {
	// MinSupport is the minimum fraction of transactions an itemset must
	// appear in. Must be in (0, 1].
	// Default: 0.01.
	MinSupport float64 `json:"min_support"`

	// MaxItemsetSize stops the level-wise search after this size.
	// 0 means unbounded.
	MaxItemsetSize int `json:"max_itemset_size"`

	// Workers is the number of shards support counting is split across.
	// Default: GOMAXPROCS.
	Workers int `json:"workers"`
}

// RulesConfig contains parameters for the rule generator.
type RulesConfig struct {
	// Metric is the score filtered on: support, confidence or lift.
	// Default: lift.
	Metric Metric `json:"metric"`

	// MinThreshold is the inclusive lower bound for Metric. Must be >= 0.
	// Default: 1.0.
	MinThreshold float64 `json:"min_threshold"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// MaxRecommendations is the default number of items returned.
	// Default: 6.
	MaxRecommendations int `json:"max_recommendations"`

	// MaxK caps a caller-requested recommendation count.
	// Default: 50.
	MaxK int `json:"max_k"`
}

// CacheConfig contains recommendation cache parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	Enabled bool `json:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 10000.
	MaxEntries int `json:"max_entries"`
}

// TrainingConfig contains training run parameters.
type TrainingConfig struct {
	// Timeout bounds a single training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout"`

	// MinTransactions is the minimum number of transactions required to train.
	// Default: 1.
	MinTransactions int `json:"min_transactions"`
}

// DefaultConfig returns the defaults used by the grocery basket workload:
// 1% minimum support and lift >= 1.
func DefaultConfig() *Config {
	return &Config{
		Mining: MiningConfig{
			MinSupport: 0.01,
			Workers:    runtime.GOMAXPROCS(0),
		},
		Rules: RulesConfig{
			Metric:       MetricLift,
			MinThreshold: 1.0,
		},
		Limits: LimitsConfig{
			MaxRecommendations: 6,
			MaxK:               50,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
		Training: TrainingConfig{
			Timeout:         10 * time.Minute,
			MinTransactions: 1,
		},
	}
}

// Validate checks the configuration. Every failure is a *ConfigurationError;
// thresholds are never silently replaced with defaults.
func (c *Config) Validate() error {
	if err := ValidateMinSupport(c.Mining.MinSupport); err != nil {
		return err
	}
	if c.Mining.MaxItemsetSize < 0 {
		return &ConfigurationError{Field: "mining.max_itemset_size", Value: c.Mining.MaxItemsetSize, Reason: "must be >= 0"}
	}
	if c.Mining.Workers < 0 {
		return &ConfigurationError{Field: "mining.workers", Value: c.Mining.Workers, Reason: "must be >= 0"}
	}

	if _, err := ParseMetric(string(c.Rules.Metric)); err != nil {
		return err
	}
	if err := ValidateThreshold(c.Rules.MinThreshold); err != nil {
		return err
	}

	if c.Limits.MaxRecommendations < 0 {
		return &ConfigurationError{Field: "limits.max_recommendations", Value: c.Limits.MaxRecommendations, Reason: "must be >= 0"}
	}
	if c.Limits.MaxK < c.Limits.MaxRecommendations {
		return &ConfigurationError{Field: "limits.max_k", Value: c.Limits.MaxK, Reason: "must be >= limits.max_recommendations"}
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return &ConfigurationError{Field: "cache.ttl", Value: c.Cache.TTL, Reason: "must be positive"}
		}
		if c.Cache.MaxEntries < 1 {
			return &ConfigurationError{Field: "cache.max_entries", Value: c.Cache.MaxEntries, Reason: "must be positive"}
		}
	}

	if c.Training.Timeout <= 0 {
		return &ConfigurationError{Field: "training.timeout", Value: c.Training.Timeout, Reason: "must be positive"}
	}
	if c.Training.MinTransactions < 0 {
		return &ConfigurationError{Field: "training.min_transactions", Value: c.Training.MinTransactions, Reason: "must be >= 0"}
	}
	return nil
}

// Clone returns a copy of the configuration. All fields are values.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// ValidateMinSupport checks that minSupport is in (0, 1].
func ValidateMinSupport(minSupport float64) error {
	if !(minSupport > 0 && minSupport <= 1) {
		return &ConfigurationError{Field: "min_support", Value: minSupport, Reason: "must be in (0, 1]"}
	}
	return nil
}

// ValidateThreshold checks that a rule threshold is non-negative.
func ValidateThreshold(minThreshold float64) error {
	if !(minThreshold >= 0) {
		return &ConfigurationError{Field: "min_threshold", Value: minThreshold, Reason: "must be >= 0"}
	}
	return nil
}
