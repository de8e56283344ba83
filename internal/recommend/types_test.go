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

func TestNewTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		items   []Item
		want    Transaction
		wantErr error
	}{
		{"sorts labels", []Item{"Milk", "Bread", "Eggs"}, Transaction{"Bread", "Eggs", "Milk"}, nil},
		{"trims labels", []Item{" Milk ", "Bread"}, Transaction{"Bread", "Milk"}, nil},
		{"empty", nil, nil, ErrValidation},
		{"blank label", []Item{"Milk", "  "}, nil, ErrValidation},
		{"duplicate", []Item{"Milk", "Bread", "Milk"}, nil, ErrValidation},
		{"duplicate after trim", []Item{"Milk", "Milk "}, nil, ErrValidation},
		{"control character", []Item{"A\x1fB", "C"}, nil, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewTransaction(tt.items...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewTransaction() error = %v, want %v", err, tt.wantErr)
				}
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error %T is not *ValidationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewTransaction() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewTransaction() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransaction_ContainsAll(t *testing.T) {
	t.Parallel()

	tx := Transaction{"A", "C", "D", "F"}
	tests := []struct {
		sub  []Item
		want bool
	}{
		{nil, true},
		{[]Item{"A"}, true},
		{[]Item{"C", "F"}, true},
		{[]Item{"A", "C", "D", "F"}, true},
		{[]Item{"B"}, false},
		{[]Item{"A", "B"}, false},
		{[]Item{"F", "G"}, false},
		{[]Item{"A", "C", "D", "F", "G"}, false},
	}
	for _, tt := range tests {
		if got := tx.ContainsAll(tt.sub); got != tt.want {
			t.Errorf("ContainsAll(%v) = %v, want %v", tt.sub, got, tt.want)
		}
	}
	if !tx.Contains("D") || tx.Contains("E") {
		t.Error("Contains() gave wrong answer")
	}
}

func TestParseMetric(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"lift", "Confidence", " support "} {
		if _, err := ParseMetric(s); err != nil {
			t.Errorf("ParseMetric(%q) error = %v", s, err)
		}
	}
	for _, s := range []string{"", "conviction", "leverage"} {
		if _, err := ParseMetric(s); !errors.Is(err, ErrConfiguration) {
			t.Errorf("ParseMetric(%q) error = %v, want ErrConfiguration", s, err)
		}
	}
}

func TestParseRankMetric(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Metric
	}{
		{" support", MetricSupport},
		{"LIFT", MetricLift},
		{"leverage ", MetricLeverage},
	}
	for _, tt := range tests {
		got, err := ParseRankMetric(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseRankMetric(%q) = %q, %v, want %q", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseRankMetric("conviction"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseRankMetric(conviction) error = %v, want ErrValidation", err)
	}
}

func TestAssociationRule_ValueAndString(t *testing.T) {
	t.Parallel()

	r := AssociationRule{
		Antecedent: []Item{"Bread", "Milk"},
		Consequent: []Item{"Eggs"},
		Support:    0.1,
		Confidence: 0.5,
		Lift:       1.5,
		Leverage:   0.03,
	}
	if r.Value(MetricSupport) != 0.1 || r.Value(MetricConfidence) != 0.5 || r.Value(MetricLift) != 1.5 || r.Value(MetricLeverage) != 0.03 {
		t.Error("Value() returned the wrong metric")
	}
	if got := r.String(); got != "{Bread,Milk} => {Eggs}" {
		t.Errorf("String() = %q", got)
	}
}

func TestItemsKey_Distinct(t *testing.T) {
	t.Parallel()

	lists := [][]Item{
		{"A", "B"},
		{"A\x1fB"},
		{"AB"},
		{"A", "B", "C"},
		{"A,B", "C"},
		{"1:A"},
		{""},
		{},
	}
	seen := make(map[string][]Item, len(lists))
	for _, items := range lists {
		key := ItemsKey(items)
		if prev, dup := seen[key]; dup {
			t.Errorf("ItemsKey(%q) collides with ItemsKey(%q)", items, prev)
		}
		seen[key] = items
	}
}

func TestCompareItems(t *testing.T) {
	t.Parallel()

	if CompareItems([]Item{"Z"}, []Item{"A", "B"}) >= 0 {
		t.Error("shorter lists must sort first")
	}
	if CompareItems([]Item{"A", "C"}, []Item{"A", "B"}) <= 0 {
		t.Error("equal length lists must sort lexicographically")
	}
	if CompareItems([]Item{"A"}, []Item{"A"}) != 0 {
		t.Error("equal lists must compare equal")
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	cerr := &ConfigurationError{Field: "min_support", Value: 2.0, Reason: "must be in (0, 1]"}
	if !errors.Is(cerr, ErrConfiguration) || !IsUserError(cerr) {
		t.Error("ConfigurationError must unwrap to ErrConfiguration")
	}
	verr := &ValidationError{Field: "transaction", Reason: "empty"}
	if !errors.Is(verr, ErrValidation) || !IsUserError(verr) {
		t.Error("ValidationError must unwrap to ErrValidation")
	}
	ierr := InvariantError("antecedent %v", []Item{"A"})
	if !errors.Is(ierr, ErrInvariantViolation) || IsUserError(ierr) {
		t.Error("InvariantError must wrap ErrInvariantViolation and not be a user error")
	}
}
