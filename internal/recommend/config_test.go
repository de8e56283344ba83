// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	if cfg.Mining.MinSupport != 0.01 {
		t.Errorf("MinSupport = %v, want 0.01", cfg.Mining.MinSupport)
	}
	if cfg.Rules.Metric != MetricLift || cfg.Rules.MinThreshold != 1.0 {
		t.Errorf("Rules = %+v, want lift >= 1", cfg.Rules)
	}
	if cfg.Limits.MaxRecommendations != 6 {
		t.Errorf("MaxRecommendations = %d, want 6", cfg.Limits.MaxRecommendations)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero min support", func(c *Config) { c.Mining.MinSupport = 0 }, "min_support"},
		{"min support above one", func(c *Config) { c.Mining.MinSupport = 1.5 }, "min_support"},
		{"NaN min support", func(c *Config) { c.Mining.MinSupport = math.NaN() }, "min_support"},
		{"negative itemset size", func(c *Config) { c.Mining.MaxItemsetSize = -1 }, "mining.max_itemset_size"},
		{"unknown metric", func(c *Config) { c.Rules.Metric = "conviction" }, "metric"},
		{"negative threshold", func(c *Config) { c.Rules.MinThreshold = -0.1 }, "min_threshold"},
		{"negative max recommendations", func(c *Config) { c.Limits.MaxRecommendations = -1 }, "limits.max_recommendations"},
		{"max k below default", func(c *Config) { c.Limits.MaxK = 2 }, "limits.max_k"},
		{"zero cache ttl", func(c *Config) { c.Cache.TTL = 0 }, "cache.ttl"},
		{"zero training timeout", func(c *Config) { c.Training.Timeout = 0 }, "training.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("Validate() error = %v, want *ConfigurationError", err)
			}
			if cerr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.field)
			}
		})
	}
}

func TestConfig_ValidateCacheDisabled(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with disabled cache error = %v", err)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cp := cfg.Clone()
	cp.Mining.MinSupport = 0.5
	if cfg.Mining.MinSupport == 0.5 {
		t.Error("Clone() shares state with the original")
	}
}
