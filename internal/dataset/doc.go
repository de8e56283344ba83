// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package dataset produces and exchanges transaction data: the grocery
// catalog, seeded synthetic baskets, reproducible train/test splits and the
// CSV basket format (one transaction per line, one item per field).
package dataset
