// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"cmp"
	"slices"
)

// ScoredItem is a recommended item with the rule that ranks it highest.
type ScoredItem struct {
	// Item is the recommended item.
	Item Item `json:"item"`

	// Confidence is the best confidence among rules recommending Item.
	Confidence float64 `json:"confidence"`

	// Lift is the lift of that best rule.
	Lift float64 `json:"lift"`

	// Antecedent is the antecedent of that best rule.
	Antecedent []Item `json:"antecedent"`

	// Rules is the number of matching rules that recommend Item.
	Rules int `json:"rules"`
}

// RecommendScored matches tx against rules and returns up to maxItems candidate
// items with their supporting scores.
//
// Every rule whose antecedent is contained in tx contributes its consequent
// items. Each candidate keeps the highest confidence of any contributing rule
// (higher lift breaks an exact confidence tie). Items already in tx are never
// returned. Candidates are ordered by confidence descending, then label
// ascending, and truncated to maxItems. No matching rule is a normal empty result.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func RecommendScored(tx Transaction, rules RuleSet, maxItems int) ([]ScoredItem, error) {
	if maxItems < 0 {
		return nil, &ConfigurationError{Field: "max_recommendations", Value: maxItems, Reason: "must be >= 0"}
	}
	if maxItems == 0 || len(tx) == 0 {
		return []ScoredItem{}, nil
	}
	if !slices.IsSorted(tx) {
		tx = slices.Sorted(slices.Values(tx))
	}

	best := make(map[Item]*ScoredItem)
	for _, r := range rules.Matching(tx) {
		for _, it := range r.Consequent {
			if tx.Contains(it) {
				continue
			}
			cur, ok := best[it]
			if !ok {
				best[it] = &ScoredItem{
					Item:       it,
					Confidence: r.Confidence,
					Lift:       r.Lift,
					Antecedent: r.Antecedent,
					Rules:      1,
				}
				continue
			}
			cur.Rules++
			if r.Confidence > cur.Confidence || (r.Confidence == cur.Confidence && r.Lift > cur.Lift) {
				cur.Confidence = r.Confidence
				cur.Lift = r.Lift
				cur.Antecedent = r.Antecedent
			}
		}
	}

	out := make([]ScoredItem, 0, len(best))
	for _, s := range best {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b ScoredItem) int {
		if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
			return c
		}
		return cmp.Compare(a.Item, b.Item)
	})

	if len(out) > maxItems {
		out = out[:maxItems]
	}
	return out, nil
}

// Recommend returns up to maxItems items suggested for tx by rules, best first.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func Recommend(tx Transaction, rules RuleSet, maxItems int) ([]Item, error) {
	scored, err := RecommendScored(tx, rules, maxItems)
	if err != nil {
		return nil, err
	}
	items := make([]Item, len(scored))
	for i, s := range scored {
		items[i] = s.Item
	}
	return items, nil
}
