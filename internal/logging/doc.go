// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package logging provides the zerolog-based structured logger shared by the
// CLI, the HTTP API and the supervised background services.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Int("transactions", n).Msg("Dataset loaded")
//	logging.Error().Err(err).Msg("Training failed")
//
//	// Request or run scoped fields
//	logging.Ctx(ctx).Info().Int("rules", len(rules)).Msg("Model trained")
//
// # Configuration
//
// The config package maps these environment variables onto Config:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Context Fields
//
// Ctx adds correlation_id (one per training run or CLI invocation) and
// request_id (one per HTTP request) when present in the context.
//
// # slog Adapter
//
// NewSlogLogger exposes the global logger as an *slog.Logger for sutureslog.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging
