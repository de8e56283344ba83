// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package algorithms

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"slices"
	"testing"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

const floatTolerance = 1e-9

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

// basketDB builds the five-transaction reference database:
// {A,B} {A,B,C} {A} {B,C} {A,B,D}.
func basketDB(t *testing.T) *recommend.Database {
	t.Helper()
	return mustDB(t, [][]recommend.Item{
		{"A", "B"},
		{"A", "B", "C"},
		{"A"},
		{"B", "C"},
		{"A", "B", "D"},
	})
}

func mustDB(t *testing.T, raw [][]recommend.Item) *recommend.Database {
	t.Helper()
	txs := make([]recommend.Transaction, len(raw))
	for i, items := range raw {
		tx, err := recommend.NewTransaction(items...)
		if err != nil {
			t.Fatalf("NewTransaction(%v) error = %v", items, err)
		}
		txs[i] = tx
	}
	db, err := recommend.NewDatabase(txs)
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	return db
}

// randomDB builds a reproducible random database over a small catalog.
// bruteSupport counts the transactions of db holding every item by scanning
// them one at a time.
func bruteSupport(db *recommend.Database, items []recommend.Item) float64 {
	if db.Len() == 0 {
		return 0
	}
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	count := 0
	for i := range db.Len() {
		if db.Transaction(i).ContainsAll(sorted) {
			count++
		}
	}
	return float64(count) / float64(db.Len())
}

// transactionsOf returns the transactions of db in order.
func transactionsOf(db *recommend.Database) []recommend.Transaction {
	txs := make([]recommend.Transaction, db.Len())
	for i := range txs {
		txs[i] = db.Transaction(i)
	}
	return txs
}

func randomDB(t *testing.T, seed int64, n, catalog, perTx int) *recommend.Database {
	t.Helper()
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic test data
	raw := make([][]recommend.Item, n)
	for i := range raw {
		perm := rng.Perm(catalog)[:perTx]
		items := make([]recommend.Item, perTx)
		for j, p := range perm {
			items[j] = recommend.Item(string(rune('a' + p)))
		}
		raw[i] = items
	}
	return mustDB(t, raw)
}

func TestApriori_ReferenceScenario(t *testing.T) {
	t.Parallel()

	got, err := NewApriori(AprioriConfig{}).Mine(context.Background(), basketDB(t), 0.4)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	want := []struct {
		items   []recommend.Item
		support float64
		count   int
	}{
		{[]recommend.Item{"A"}, 0.8, 4},
		{[]recommend.Item{"B"}, 0.8, 4},
		{[]recommend.Item{"C"}, 0.4, 2},
		{[]recommend.Item{"A", "B"}, 0.6, 3},
		{[]recommend.Item{"B", "C"}, 0.4, 2},
	}

	if len(got) != len(want) {
		t.Fatalf("Mine() returned %d itemsets, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if !reflect.DeepEqual(got[i].Items, w.items) {
			t.Errorf("itemset[%d].Items = %v, want %v", i, got[i].Items, w.items)
		}
		if !approxEqual(got[i].Support, w.support) {
			t.Errorf("itemset[%d].Support = %v, want %v", i, got[i].Support, w.support)
		}
		if got[i].Count != w.count {
			t.Errorf("itemset[%d].Count = %d, want %d", i, got[i].Count, w.count)
		}
	}
}

func TestApriori_InvalidMinSupport(t *testing.T) {
	t.Parallel()

	for _, s := range []float64{0, -0.1, 1.01, math.NaN()} {
		_, err := NewApriori(AprioriConfig{}).Mine(context.Background(), basketDB(t), s)
		if !errors.Is(err, recommend.ErrConfiguration) {
			t.Errorf("Mine(minSupport=%v) error = %v, want ErrConfiguration", s, err)
		}
	}
}

func TestApriori_EmptyResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		db   *recommend.Database
		sup  float64
	}{
		{"nil database", nil, 0.5},
		{"empty database", mustDB(t, nil), 0.5},
		{"nothing frequent", basketDB(t), 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := NewApriori(AprioriConfig{}).Mine(context.Background(), tt.db, tt.sup)
			if err != nil {
				t.Fatalf("Mine() error = %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("Mine() = %v, want empty non-nil slice", got)
			}
		})
	}
}

func TestApriori_MaxItemsetSize(t *testing.T) {
	t.Parallel()

	got, err := NewApriori(AprioriConfig{MaxItemsetSize: 1}).Mine(context.Background(), basketDB(t), 0.4)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	for _, s := range got {
		if s.Size() > 1 {
			t.Errorf("itemset %v exceeds max size 1", s.Items)
		}
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestApriori_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewApriori(AprioriConfig{}).Mine(ctx, basketDB(t), 0.4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Mine() error = %v, want context.Canceled", err)
	}
}

func TestApriori_LevelObserver(t *testing.T) {
	t.Parallel()

	var levels []LevelStats
	miner := NewApriori(AprioriConfig{OnLevel: func(s LevelStats) { levels = append(levels, s) }})
	if _, err := miner.Mine(context.Background(), basketDB(t), 0.4); err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	// Level 1: 4 items, 3 frequent. Level 2: AB, AC, BC counted, AB and BC frequent.
	// Level 3: AB and BC share no prefix, so the search stops.
	if len(levels) != 2 {
		t.Fatalf("observed %d levels, want 2: %+v", len(levels), levels)
	}
	if levels[0].Candidates != 4 || levels[0].Frequent != 3 {
		t.Errorf("level 1 = %+v, want 4 candidates, 3 frequent", levels[0])
	}
	if levels[1].Candidates != 3 || levels[1].Frequent != 2 {
		t.Errorf("level 2 = %+v, want 3 candidates, 2 frequent", levels[1])
	}
}

func TestApriori_DownwardClosureAndMonotonicity(t *testing.T) {
	t.Parallel()

	db := randomDB(t, 7, 400, 12, 5)
	got, err := NewApriori(AprioriConfig{Workers: 3}).Mine(context.Background(), db, 0.05)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	support := make(map[string]float64, len(got))
	for _, s := range got {
		support[s.Key()] = s.Support
	}

	for _, s := range got {
		if s.Support < 0.05-floatTolerance || s.Support > 1 {
			t.Errorf("itemset %v support %v outside [minSupport, 1]", s.Items, s.Support)
		}
		if s.Size() < 2 {
			continue
		}
		for skip := range s.Items {
			sub := make([]recommend.Item, 0, s.Size()-1)
			for i, it := range s.Items {
				if i != skip {
					sub = append(sub, it)
				}
			}
			subSupport, ok := support[recommend.ItemsKey(sub)]
			if !ok {
				t.Errorf("subset %v of frequent %v missing", sub, s.Items)
				continue
			}
			if s.Support > subSupport+floatTolerance {
				t.Errorf("support(%v)=%v > support(%v)=%v", s.Items, s.Support, sub, subSupport)
			}
		}
	}
}

func TestApriori_MatchesBruteForce(t *testing.T) {
	t.Parallel()

	db := randomDB(t, 11, 150, 8, 4)
	const minSupport = 0.08

	got, err := NewApriori(AprioriConfig{Workers: 4}).Mine(context.Background(), db, minSupport)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}

	items := db.Items()
	want := 0
	for mask := 1; mask < 1<<len(items); mask++ {
		var set []recommend.Item
		for i := range items {
			if mask&(1<<i) != 0 {
				set = append(set, items[i])
			}
		}
		if sup := bruteSupport(db, set); sup+floatTolerance >= minSupport {
			want++
		}
	}

	if len(got) != want {
		t.Errorf("Mine() found %d itemsets, brute force found %d", len(got), want)
	}
}

func TestApriori_DeterministicAcrossWorkers(t *testing.T) {
	t.Parallel()

	db := randomDB(t, 3, 300, 10, 4)
	first, err := NewApriori(AprioriConfig{Workers: 1}).Mine(context.Background(), db, 0.03)
	if err != nil {
		t.Fatalf("Mine() error = %v", err)
	}
	for _, w := range []int{2, 5, 16} {
		got, err := NewApriori(AprioriConfig{Workers: w}).Mine(context.Background(), db, 0.03)
		if err != nil {
			t.Fatalf("Mine(workers=%d) error = %v", w, err)
		}
		if !reflect.DeepEqual(first, got) {
			t.Errorf("Mine(workers=%d) differs from single-worker result", w)
		}
	}
}

func TestMinCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sup  float64
		n    int
		want int
	}{
		{0.4, 5, 2},
		{0.01, 1000, 10},
		{0.011, 1000, 11},
		{1.0, 3, 3},
		{1e-12, 10, 1},
	}
	for _, tt := range tests {
		if got := minCount(tt.sup, tt.n); got != tt.want {
			t.Errorf("minCount(%v, %d) = %d, want %d", tt.sup, tt.n, got, tt.want)
		}
	}
}

func TestShardRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, parts int
		want     [][2]int
	}{
		{0, 4, nil},
		{5, 2, [][2]int{{0, 3}, {3, 5}}},
		{3, 8, [][2]int{{0, 1}, {1, 2}, {2, 3}}},
		{4, 1, [][2]int{{0, 4}}},
	}
	for _, tt := range tests {
		if got := shardRanges(tt.n, tt.parts); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("shardRanges(%d, %d) = %v, want %v", tt.n, tt.parts, got, tt.want)
		}
	}
}
