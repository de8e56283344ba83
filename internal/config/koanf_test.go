// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// Tests in this file mutate the process environment and working directory,
// so none of them run in parallel.

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"MINING_MIN_SUPPORT", "mining.min_support"},
		{"RULES_METRIC", "rules.metric"},
		{"RECOMMEND_MAX_ITEMS", "recommend.max_recommendations"},
		{"DUCKDB_PATH", "database.path"},
		{"BADGER_PATH", "store.path"},
		{"HTTP_PORT", "server.port"},
		{"CORS_ORIGINS", "server.cors_origins"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "")
		if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("mining: {}"), 0o600); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(filepath.Join(tmpDir, "config.yaml"))

		if got := findConfigFile(); got != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", got)
		}
	})

	t.Run("CONFIG_PATH takes precedence", func(t *testing.T) {
		custom := writeConfig(t, "mining: {}")
		t.Setenv(ConfigPathEnvVar, custom)
		if got := findConfigFile(); got != custom {
			t.Errorf("findConfigFile() = %q, want %q", got, custom)
		}
	})

	t.Run("CONFIG_PATH with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		if got := findConfigFile(); got != "" {
			t.Errorf("findConfigFile() = %q, want empty string", got)
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, defaultConfig()) {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_EnvVars(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv("MINING_MIN_SUPPORT", "0.05")
	t.Setenv("RULES_METRIC", "confidence")
	t.Setenv("RULES_MIN_THRESHOLD", "0.3")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("TRAINING_INTERVAL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mining.MinSupport != 0.05 {
		t.Errorf("Mining.MinSupport = %v, want 0.05", cfg.Mining.MinSupport)
	}
	if cfg.Rules.Metric != "confidence" || cfg.Rules.MinThreshold != 0.3 {
		t.Errorf("Rules = %+v", cfg.Rules)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Training.Interval != time.Hour {
		t.Errorf("Training.Interval = %v, want 1h", cfg.Training.Interval)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, want) {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want default", cfg.Server.Host)
	}
}

func TestLoad_FileAndEnvPrecedence(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, "")
	path := writeConfig(t, `
mining:
  min_support: 0.02
  max_itemset_size: 3
rules:
  metric: support
  min_threshold: 0.01
server:
  port: 7000
  cors_origins:
    - https://shop.example
dataset:
  path: /tmp/baskets.csv
`)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Mining.MinSupport != 0.02 || cfg.Mining.MaxItemsetSize != 3 {
		t.Errorf("Mining = %+v", cfg.Mining)
	}
	if cfg.Rules.Metric != "support" {
		t.Errorf("Rules.Metric = %q, want support", cfg.Rules.Metric)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("Server.Port = %d, want env override 7100", cfg.Server.Port)
	}
	if !reflect.DeepEqual(cfg.Server.CORSOrigins, []string{"https://shop.example"}) {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Dataset.Path != "/tmp/baskets.csv" {
		t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")

	if _, err := Load("/non/existent/config.yaml"); err == nil {
		t.Error("Load() with missing explicit file should fail")
	}

	path := writeConfig(t, "mining: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("Load() with malformed YAML should fail")
	}

	t.Setenv("MINING_MIN_SUPPORT", "0")
	_, err := Load("")
	if !errors.Is(err, recommend.ErrConfiguration) {
		t.Errorf("Load() with zero support error = %v, want ErrConfiguration", err)
	}
}
