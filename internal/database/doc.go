// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package database stores transactions and mined rules in DuckDB.
//
// # Schema
//
//	transactions(transaction_id BIGINT, item VARCHAR)
//	    one row per purchased item; a basket is all rows sharing an ID
//
//	association_rules(version INTEGER, antecedent VARCHAR, consequent VARCHAR,
//	                  support DOUBLE, antecedent_support DOUBLE,
//	                  consequent_support DOUBLE, confidence DOUBLE,
//	                  lift DOUBLE, leverage DOUBLE)
//	    one row per rule of a model version; item lists are JSON arrays
//
// DuckDB's columnar engine makes the aggregate queries (item frequencies,
// rule rankings) cheap even for millions of rows.
//
// # Training Source
//
// DB implements recommend.TransactionSource. The engine reads it through
// BreakerSource, which wraps any source in a gobreaker circuit breaker so a
// failing database fails fast instead of stalling every retraining cycle.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil { ... }
//	defer db.Close()
//
//	n, err := db.InsertTransactions(ctx, txs)
//	engine.SetTransactionSource(database.NewBreakerSource("duckdb-transactions", db))
package database
