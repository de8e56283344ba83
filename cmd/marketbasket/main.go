// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package main is the marketbasket command.
//
// marketbasket mines frequent itemsets and association rules from shopping
// baskets and recommends items that are bought together.
//
// # Commands
//
//	generate   write synthetic grocery baskets to a CSV file
//	import     load a CSV file into the DuckDB transaction store
//	mine       print frequent itemsets and rules
//	recommend  recommend items for a comma-separated basket
//	cooccur    show the item most often bought with an item
//	evaluate   split, train and measure holdout precision
//	serve      run the HTTP API under the supervisor tree
//
// # Configuration
//
// Settings are layered by koanf: built-in defaults, then the YAML file named
// by --config or CONFIG_PATH, then environment variables (for example
// MINING_MIN_SUPPORT=0.02 or TRAINING_SOURCE=database).
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the command context. serve then drains in-flight
// requests; the one-shot commands stop between mining levels.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
