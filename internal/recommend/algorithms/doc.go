// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package algorithms implements the mining algorithms behind the
// recommendation engine.
//
//   - Apriori: level-wise frequent itemset search with downward-closure
//     pruning and sharded parallel support counting (recommend.Miner).
//   - RuleGenerator: association rules with support, confidence, lift and
//     leverage, filtered on one metric (recommend.RuleGenerator).
//
// # Concurrency
//
// Within a level, support counting is split across transaction shards using
// errgroup and the partial counts are summed before thresholding. Levels are
// strictly sequential. Rule generation expands itemsets concurrently and
// concatenates the results in itemset order, so output never depends on
// scheduling.
//
// # References
//
//   - Agrawal, R., Srikant, R. (1994). Fast Algorithms for Mining Association
//     Rules. VLDB.
package algorithms
