// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"cmp"
	"slices"
)

// RuleSet is the collection of rules that survived a metric threshold.
// It is treated as immutable once generated; methods return copies.
type RuleSet struct {
	// Metric is the score the threshold was applied to.
	Metric Metric `json:"metric"`

	// MinThreshold is the inclusive lower bound on Metric.
	MinThreshold float64 `json:"min_threshold"`

	// Rules are ordered by source itemset, then antecedent size, then
	// antecedent labels.
	Rules []AssociationRule `json:"rules"`
}

// Len returns the number of rules.
//
//nolint:gocritic // value receiver keeps rule sets immutable
func (rs RuleSet) Len() int {
	return len(rs.Rules)
}

// Top returns up to n rules ordered by m descending. Ties keep the
// generation order. n <= 0 returns every rule.
//
//nolint:gocritic // value receiver keeps rule sets immutable
func (rs RuleSet) Top(m Metric, n int) []AssociationRule {
	out := slices.Clone(rs.Rules)
	slices.SortStableFunc(out, func(a, b AssociationRule) int {
		return cmp.Compare(b.Value(m), a.Value(m))
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Matching returns the rules whose antecedent is contained in tx.
//
//nolint:gocritic // value receiver keeps rule sets immutable
func (rs RuleSet) Matching(tx Transaction) []AssociationRule {
	var out []AssociationRule
	for i := range rs.Rules {
		if tx.ContainsAll(rs.Rules[i].Antecedent) {
			out = append(out, rs.Rules[i])
		}
	}
	return out
}
