// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package config loads marketbasket configuration with koanf v2.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: the --config flag, else CONFIG_PATH, else the
//     first of DefaultConfigPaths that exists
//  3. Environment variables with an explicit name mapping
//
// # Environment Variables
//
//	MINING_MIN_SUPPORT         mining.min_support (default 0.01)
//	MINING_MAX_ITEMSET_SIZE    mining.max_itemset_size (0 = unbounded)
//	RULES_METRIC               rules.metric: support, confidence, lift
//	RULES_MIN_THRESHOLD        rules.min_threshold (default 1.0)
//	RECOMMEND_MAX_ITEMS        recommend.max_recommendations (default 6)
//	EVALUATION_TEST_FRACTION   evaluation.test_fraction (default 0.2)
//	DUCKDB_PATH                database.path
//	BADGER_PATH                store.path
//	HTTP_PORT                  server.port (default 8080)
//	CORS_ORIGINS               server.cors_origins, comma separated
//	TRAINING_INTERVAL          training.interval (0 disables retraining)
//	LOG_LEVEL                  logging.level
//
// See envTransformFunc for the complete list. Unmapped variables are ignored.
//
// # Validation
//
// Load validates the merged result with go-playground/validator tags and a
// few cross-field checks. Failures wrap recommend.ErrConfiguration; a bad
// threshold is never replaced with a default.
package config
