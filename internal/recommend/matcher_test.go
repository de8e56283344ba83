// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"errors"
	"reflect"
	"testing"
)

func rule(ante, cons []Item, confidence, lift float64) AssociationRule {
	return AssociationRule{Antecedent: ante, Consequent: cons, Confidence: confidence, Lift: lift}
}

// referenceRules are the rules of the five-basket example at lift >= 1.
func referenceRules() RuleSet {
	return RuleSet{
		Metric:       MetricLift,
		MinThreshold: 1,
		Rules: []AssociationRule{
			rule([]Item{"B"}, []Item{"C"}, 0.5, 1.25),
			rule([]Item{"C"}, []Item{"B"}, 1.0, 1.25),
		},
	}
}

func TestRecommend_Reference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tx   Transaction
		want []Item
	}{
		{"B suggests C", Transaction{"B"}, []Item{"C"}},
		{"C suggests B", Transaction{"C"}, []Item{"B"}},
		{"no matching rule", Transaction{"D"}, []Item{}},
		{"everything already in basket", Transaction{"B", "C"}, []Item{}},
		{"unsorted basket", Transaction{"D", "B"}, []Item{"C"}},
		{"empty basket", Transaction{}, []Item{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Recommend(tt.tx, referenceRules(), 6)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Recommend(%v) = %v, want %v", tt.tx, got, tt.want)
			}
		})
	}
}

func TestRecommendScored_BestConfidenceAndOrder(t *testing.T) {
	t.Parallel()

	rules := RuleSet{Rules: []AssociationRule{
		rule([]Item{"Milk"}, []Item{"Bread"}, 0.4, 1.1),
		rule([]Item{"Eggs"}, []Item{"Bread"}, 0.7, 1.3),
		rule([]Item{"Milk"}, []Item{"Butter"}, 0.7, 2.0),
		rule([]Item{"Milk", "Eggs"}, []Item{"Jam", "Tea"}, 0.6, 1.8),
		rule([]Item{"Rice"}, []Item{"Beans"}, 0.99, 4.0),
	}}

	got, err := RecommendScored(Transaction{"Eggs", "Milk"}, rules, 10)
	if err != nil {
		t.Fatalf("RecommendScored() error = %v", err)
	}

	wantOrder := []Item{"Bread", "Butter", "Jam", "Tea"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d items, want %d: %+v", len(got), len(wantOrder), got)
	}
	for i, it := range wantOrder {
		if got[i].Item != it {
			t.Errorf("position %d = %s, want %s", i, got[i].Item, it)
		}
	}

	bread := got[0]
	if bread.Confidence != 0.7 || bread.Rules != 2 || !reflect.DeepEqual(bread.Antecedent, []Item{"Eggs"}) {
		t.Errorf("Bread = %+v, want best confidence 0.7 from {Eggs} over 2 rules", bread)
	}
}

func TestRecommendScored_LiftBreaksConfidenceTie(t *testing.T) {
	t.Parallel()

	rules := RuleSet{Rules: []AssociationRule{
		rule([]Item{"A"}, []Item{"X"}, 0.5, 1.1),
		rule([]Item{"B"}, []Item{"X"}, 0.5, 1.9),
	}}
	got, err := RecommendScored(Transaction{"A", "B"}, rules, 1)
	if err != nil {
		t.Fatalf("RecommendScored() error = %v", err)
	}
	if len(got) != 1 || got[0].Lift != 1.9 {
		t.Errorf("got %+v, want the higher-lift rule kept", got)
	}
}

func TestRecommend_Truncation(t *testing.T) {
	t.Parallel()

	rules := RuleSet{Rules: []AssociationRule{
		rule([]Item{"A"}, []Item{"P"}, 0.9, 1),
		rule([]Item{"A"}, []Item{"Q"}, 0.8, 1),
		rule([]Item{"A"}, []Item{"R"}, 0.7, 1),
	}}

	got, err := Recommend(Transaction{"A"}, rules, 2)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !reflect.DeepEqual(got, []Item{"P", "Q"}) {
		t.Errorf("Recommend() = %v, want [P Q]", got)
	}

	got, err = Recommend(Transaction{"A"}, rules, 0)
	if err != nil || len(got) != 0 {
		t.Errorf("Recommend(max=0) = %v, %v, want empty", got, err)
	}
}

func TestRecommend_NegativeMax(t *testing.T) {
	t.Parallel()

	_, err := Recommend(Transaction{"A"}, referenceRules(), -1)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Recommend(max=-1) error = %v, want ErrConfiguration", err)
	}
}

func TestRecommend_NeverReturnsBasketItems(t *testing.T) {
	t.Parallel()

	rules := RuleSet{Rules: []AssociationRule{
		rule([]Item{"A"}, []Item{"B", "C"}, 0.9, 1.5),
		rule([]Item{"B"}, []Item{"A"}, 0.9, 1.5),
	}}
	tx := Transaction{"A", "B"}
	got, err := Recommend(tx, rules, 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	for _, it := range got {
		if tx.Contains(it) {
			t.Errorf("recommended basket item %s", it)
		}
	}
	if !reflect.DeepEqual(got, []Item{"C"}) {
		t.Errorf("Recommend() = %v, want [C]", got)
	}
}

func TestRuleSet_TopAndMatching(t *testing.T) {
	t.Parallel()

	rs := RuleSet{Rules: []AssociationRule{
		rule([]Item{"A"}, []Item{"B"}, 0.2, 3.0),
		rule([]Item{"B"}, []Item{"A"}, 0.9, 1.0),
		rule([]Item{"A", "C"}, []Item{"D"}, 0.5, 2.0),
	}}

	top := rs.Top(MetricConfidence, 2)
	if len(top) != 2 || top[0].Confidence != 0.9 || top[1].Confidence != 0.5 {
		t.Errorf("Top(confidence, 2) = %+v", top)
	}
	if all := rs.Top(MetricLift, 0); len(all) != 3 || all[0].Lift != 3.0 {
		t.Errorf("Top(lift, 0) = %+v", all)
	}
	if rs.Rules[0].Lift != 3.0 || rs.Rules[1].Confidence != 0.9 {
		t.Error("Top() mutated the rule set")
	}

	if got := rs.Matching(Transaction{"A", "C"}); len(got) != 2 {
		t.Errorf("Matching({A,C}) returned %d rules, want 2", len(got))
	}
}
