// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package services provides suture.Service wrappers for the long-running
// parts of the server.
//
//   - TrainingService: restores the persisted model, trains on startup and
//     retrains on a fixed interval.
//   - StoreGCService: periodic value log GC on the badger model store.
//   - HTTPServerService: runs the API with graceful shutdown.
//
// Every service returns ctx.Err() when its context is canceled and logs
// recoverable failures instead of returning them, so a failed training run
// never causes a restart loop.
package services
