// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package recommend implements market basket analysis: frequent itemsets,
// association rules and rule-based item recommendation.
//
// # Data Flow
//
//	[]Transaction -> Database -> Miner -> []Itemset -> RuleGenerator -> RuleSet
//	                                                                     |
//	                                             Recommend / TopCoOccurring / evaluation
//
// The Database is built once and never mutated. Itemsets and rules are
// immutable once produced, so any number of goroutines may query a RuleSet
// without coordination.
//
// # Determinism
//
// Items are ordered lexicographically. Itemsets are reported by size, then
// by label order; rules by source itemset, antecedent size and antecedent
// labels; recommendations by best confidence descending, then label. Two
// runs over the same transactions and parameters produce identical output.
//
// # Errors
//
// ConfigurationError (ErrConfiguration) and ValidationError (ErrValidation)
// are caller mistakes and surface immediately. ErrInvariantViolation signals
// an internal bug. Empty results are never errors.
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, algorithms.NewApriori(algorithms.AprioriConfig{}),
//	    algorithms.NewRuleGenerator(algorithms.RuleGeneratorConfig{}), logger)
//	engine.SetTransactionSource(store)
//
//	if _, err := engine.Train(ctx); err != nil { ... }
//	resp, err := engine.Recommend(ctx, []recommend.Item{"Milk", "Bread"}, 6)
//
// # Thread Safety
//
// The engine swaps whole models through an atomic pointer. Training runs are
// deduplicated with singleflight, and queries always read a complete model.
package recommend
