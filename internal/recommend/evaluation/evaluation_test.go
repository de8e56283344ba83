// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package evaluation

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

func referenceRules() recommend.RuleSet {
	return recommend.RuleSet{
		Metric:       recommend.MetricLift,
		MinThreshold: 1,
		Rules: []recommend.AssociationRule{
			{Antecedent: []recommend.Item{"B"}, Consequent: []recommend.Item{"C"}, Confidence: 0.5, Lift: 1.25},
			{Antecedent: []recommend.Item{"C"}, Consequent: []recommend.Item{"B"}, Confidence: 1.0, Lift: 1.25},
		},
	}
}

func TestRun_HoldoutHits(t *testing.T) {
	t.Parallel()

	ev, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	// {B,C} always hits: masking either item recommends the other.
	test := []recommend.Transaction{{"B", "C"}, {"C", "B"}, {"A", "D"}, {"A"}}
	r, err := ev.Run(context.Background(), test, referenceRules())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if r.Transactions != 4 || r.Evaluated != 3 || r.Skipped != 1 {
		t.Errorf("counts = %d/%d/%d, want 4/3/1", r.Transactions, r.Evaluated, r.Skipped)
	}
	if r.Recommended != 2 || r.Recommendations != 2 || r.Hits != 2 || r.HitTransactions != 2 {
		t.Errorf("report = %+v", r)
	}
	if r.Precision != 1 || r.MicroPrecision != 1 || r.HitRate != 1 {
		t.Errorf("precision = %v, micro = %v, hit rate = %v, want 1", r.Precision, r.MicroPrecision, r.HitRate)
	}
	if want := 2.0 / 3.0; r.Coverage != want {
		t.Errorf("Coverage = %v, want %v", r.Coverage, want)
	}
}

func TestEvaluate_NoRecommendationsIsZero(t *testing.T) {
	t.Parallel()

	p, err := Evaluate(context.Background(), []recommend.Transaction{{"A", "D"}, {"X", "Y"}}, referenceRules())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if p != 0 {
		t.Errorf("Evaluate() = %v, want 0", p)
	}

	p, err = Evaluate(context.Background(), nil, recommend.RuleSet{})
	if err != nil || p != 0 {
		t.Errorf("Evaluate(empty) = %v, %v", p, err)
	}
}

func TestRun_Deterministic(t *testing.T) {
	t.Parallel()

	test := make([]recommend.Transaction, 0, 200)
	labels := []recommend.Item{"A", "B", "C", "D", "E"}
	r := rand.New(rand.NewPCG(7, 7))
	for range 200 {
		n := 2 + r.IntN(3)
		perm := r.Perm(len(labels))[:n]
		items := make([]recommend.Item, n)
		for i, p := range perm {
			items[i] = labels[p]
		}
		tx, err := recommend.NewTransaction(items...)
		if err != nil {
			t.Fatalf("NewTransaction() error = %v", err)
		}
		test = append(test, tx)
	}

	rules := recommend.RuleSet{Rules: []recommend.AssociationRule{
		{Antecedent: []recommend.Item{"A"}, Consequent: []recommend.Item{"B"}, Confidence: 0.6},
		{Antecedent: []recommend.Item{"B"}, Consequent: []recommend.Item{"C"}, Confidence: 0.5},
		{Antecedent: []recommend.Item{"D"}, Consequent: []recommend.Item{"E"}, Confidence: 0.4},
	}}

	run := func(workers int) Report {
		cfg := DefaultConfig()
		cfg.Workers = workers
		ev, err := New(cfg)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		rep, err := ev.Run(context.Background(), test, rules)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		rep.Duration = 0
		return rep
	}

	first := run(1)
	for _, workers := range []int{1, 4, 16} {
		if got := run(workers); got != first {
			t.Errorf("workers=%d: %+v, want %+v", workers, got, first)
		}
	}
	if first.Evaluated != 200 || first.Recommended == 0 {
		t.Errorf("unexpected report %+v", first)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	ev, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = ev.Run(context.Background(), []recommend.Transaction{{"A", "B"}, {"A", "A"}}, referenceRules())
	if !errors.Is(err, recommend.ErrValidation) {
		t.Errorf("Run(duplicate) error = %v, want ErrValidation", err)
	}

	_, err = ev.Run(context.Background(), []recommend.Transaction{{}}, referenceRules())
	if !errors.Is(err, recommend.ErrValidation) {
		t.Errorf("Run(empty transaction) error = %v, want ErrValidation", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ev.Run(ctx, []recommend.Transaction{{"B", "C"}}, referenceRules()); !errors.Is(err, context.Canceled) {
		t.Errorf("Run(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero holdout", Config{HoldoutSize: 0, MaxRecommendations: 6}},
		{"negative max", Config{HoldoutSize: 1, MaxRecommendations: -1}},
		{"negative workers", Config{HoldoutSize: 1, Workers: -2}},
	}
	for _, tt := range tests {
		if _, err := New(tt.cfg); !errors.Is(err, recommend.ErrConfiguration) {
			t.Errorf("%s: New() error = %v, want ErrConfiguration", tt.name, err)
		}
	}
}

func TestMask(t *testing.T) {
	t.Parallel()

	tx := recommend.Transaction{"A", "B", "C", "D"}
	r := rand.New(rand.NewPCG(1, 2))

	observed, held := Mask(tx, 2, r)
	if len(observed) != 2 || len(held) != 2 {
		t.Fatalf("Mask() = %v / %v", observed, held)
	}
	for _, it := range held {
		if observed.Contains(it) {
			t.Errorf("item %s both observed and held", it)
		}
	}
	if !sortedItems(observed) || !sortedItems(held) {
		t.Error("Mask() results are not sorted")
	}

	if _, held := Mask(tx, 4, r); held != nil {
		t.Error("Mask() must not withhold the whole transaction")
	}
}

func sortedItems(items recommend.Transaction) bool {
	for i := 1; i < len(items); i++ {
		if items[i-1] >= items[i] {
			return false
		}
	}
	return true
}
