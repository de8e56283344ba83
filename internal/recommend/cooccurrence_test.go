// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import "testing"

func TestTopCoOccurring(t *testing.T) {
	t.Parallel()

	rules := RuleSet{Rules: []AssociationRule{
		{Antecedent: []Item{"Milk"}, Consequent: []Item{"Eggs"}, Confidence: 0.4, Lift: 1.2, Support: 0.1},
		{Antecedent: []Item{"Milk"}, Consequent: []Item{"Bread"}, Confidence: 0.6, Lift: 1.1, Support: 0.2},
		{Antecedent: []Item{"Milk"}, Consequent: []Item{"Apples"}, Confidence: 0.6, Lift: 1.0, Support: 0.2},
		{Antecedent: []Item{"Milk", "Eggs"}, Consequent: []Item{"Flour"}, Confidence: 0.95, Lift: 3.0},
		{Antecedent: []Item{"Milk"}, Consequent: []Item{"Flour", "Sugar"}, Confidence: 0.9, Lift: 2.0},
		{Antecedent: []Item{"Bread"}, Consequent: []Item{"Milk"}, Confidence: 0.99, Lift: 1.1},
	}}

	got, ok := TopCoOccurring(rules, "Milk")
	if !ok {
		t.Fatal("TopCoOccurring(Milk) found nothing")
	}
	if got.With != "Apples" {
		t.Errorf("With = %s, want Apples (tie broken by label)", got.With)
	}
	if got.Percentage != 60 || got.Item != "Milk" {
		t.Errorf("got %+v", got)
	}

	if _, ok := TopCoOccurring(rules, "Tea"); ok {
		t.Error("TopCoOccurring(Tea) should find nothing")
	}
}

func TestTopCoOccurring_Reference(t *testing.T) {
	t.Parallel()

	got, ok := TopCoOccurring(referenceRules(), "C")
	if !ok || got.With != "B" || got.Percentage != 100 {
		t.Errorf("TopCoOccurring(C) = %+v, %v, want B at 100%%", got, ok)
	}
}
