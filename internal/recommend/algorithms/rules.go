// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package algorithms

import (
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// RuleGeneratorConfig contains configuration for the rule generator.
type RuleGeneratorConfig struct {
	// Workers is the number of itemsets expanded concurrently.
	// Default: GOMAXPROCS.
	Workers int
}

// RuleGenerator derives association rules from frequent itemsets.
//
// For every itemset of size >= 2, each non-empty proper subset becomes an
// antecedent and the remainder its consequent. Supports of both sides are
// looked up in the itemset collection itself: by downward closure every
// subset of a frequent itemset is frequent, so a missing or zero support is
// an invariant violation.
type RuleGenerator struct {
	workers int
}

// NewRuleGenerator creates a rule generator.
func NewRuleGenerator(cfg RuleGeneratorConfig) *RuleGenerator {
	return &RuleGenerator{workers: defaultWorkers(cfg.Workers)}
}

// Generate returns the rules whose metric value is at least minThreshold.
// Rules are ordered by source itemset (size, then labels), then by
// antecedent size, then antecedent labels.
func (g *RuleGenerator) Generate(ctx context.Context, itemsets []recommend.Itemset, metric recommend.Metric, minThreshold float64) (recommend.RuleSet, error) {
	m, err := recommend.ParseMetric(string(metric))
	if err != nil {
		return recommend.RuleSet{}, err
	}
	if err := recommend.ValidateThreshold(minThreshold); err != nil {
		return recommend.RuleSet{}, err
	}
	if err := ctx.Err(); err != nil {
		return recommend.RuleSet{}, err
	}

	sets := make([]recommend.Itemset, len(itemsets))
	support := make(map[string]float64, len(itemsets))
	for i, s := range itemsets {
		items := slices.Clone(s.Items)
		slices.Sort(items)
		sets[i] = recommend.Itemset{Items: items, Support: s.Support, Count: s.Count}
		support[recommend.ItemsKey(items)] = s.Support
	}
	slices.SortStableFunc(sets, func(a, b recommend.Itemset) int {
		return recommend.CompareItems(a.Items, b.Items)
	})

	var targets []recommend.Itemset
	for _, s := range sets {
		if s.Size() >= 2 {
			targets = append(targets, s)
		}
	}

	results := make([][]recommend.AssociationRule, len(targets))
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for i := range targets {
		eg.Go(func() error {
			rules, err := rulesFor(targets[i], support, m, minThreshold)
			results[i] = rules
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return recommend.RuleSet{}, err
	}

	var all []recommend.AssociationRule
	for _, rules := range results {
		all = append(all, rules...)
	}
	if all == nil {
		all = []recommend.AssociationRule{}
	}
	return recommend.RuleSet{Metric: m, MinThreshold: minThreshold, Rules: all}, nil
}

// rulesFor expands one itemset into its surviving rules.
func rulesFor(set recommend.Itemset, support map[string]float64, m recommend.Metric, minThreshold float64) ([]recommend.AssociationRule, error) {
	var out []recommend.AssociationRule
	k := set.Size()

	for size := 1; size < k; size++ {
		err := combinations(k, size, func(idx []int) error {
			ante, cons := split(set.Items, idx)

			supA, ok := support[recommend.ItemsKey(ante)]
			if !ok || supA <= 0 {
				return recommend.InvariantError("antecedent %v of itemset %v has no positive support", ante, set.Items)
			}
			supC, ok := support[recommend.ItemsKey(cons)]
			if !ok || supC <= 0 {
				return recommend.InvariantError("consequent %v of itemset %v has no positive support", cons, set.Items)
			}

			confidence := set.Support / supA
			if confidence > 1+supportEpsilon {
				return recommend.InvariantError("itemset %v has support %g above its subset %v support %g", set.Items, set.Support, ante, supA)
			}
			if confidence > 1 {
				confidence = 1
			}

			rule := recommend.AssociationRule{
				Antecedent:        ante,
				Consequent:        cons,
				Support:           set.Support,
				AntecedentSupport: supA,
				ConsequentSupport: supC,
				Confidence:        confidence,
				Lift:              confidence / supC,
				Leverage:          set.Support - supA*supC,
			}
			if rule.Value(m)+supportEpsilon >= minThreshold {
				out = append(out, rule)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// split partitions items into the positions in idx and the rest.
func split(items []recommend.Item, idx []int) (in, out []recommend.Item) {
	in = make([]recommend.Item, 0, len(idx))
	out = make([]recommend.Item, 0, len(items)-len(idx))
	j := 0
	for p, it := range items {
		if j < len(idx) && idx[j] == p {
			in = append(in, it)
			j++
			continue
		}
		out = append(out, it)
	}
	return in, out
}

// combinations calls fn with every size-r subset of [0, n) in lexicographic
// order. fn must not retain idx.
func combinations(n, r int, fn func(idx []int) error) error {
	idx := make([]int, r)
	for i := range idx {
		idx[i] = i
	}
	for {
		if err := fn(idx); err != nil {
			return err
		}
		i := r - 1
		for i >= 0 && idx[i] == n-r+i {
			i--
		}
		if i < 0 {
			return nil
		}
		idx[i]++
		for j := i + 1; j < r; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
