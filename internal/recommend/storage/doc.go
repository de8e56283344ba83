// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package storage persists trained association rule models in BadgerDB.
//
// Every saved model gets three keys:
//
//	model:meta:{version}   JSON ModelMetadata
//	model:data:{version}   gzip-compressed JSON recommend.Model
//	model:latest           version number of the newest model
//
// Versions are zero-padded so that a prefix scan returns them in ascending
// order. The metadata carries a SHA-256 checksum of the uncompressed model,
// verified on every load.
//
// # Usage
//
//	store, err := storage.Open(storage.Config{Path: "/data/models"})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	engine.SetModelStore(store)
//	restored, err := engine.Restore(ctx)
//
// # Thread Safety
//
// Store is safe for concurrent use. Writes are serialized so the latest
// pointer never moves backwards.
package storage
