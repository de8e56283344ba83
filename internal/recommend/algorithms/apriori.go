// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package algorithms

import (
	"context"
	"slices"
	"time"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// LevelStats describes one completed level of the level-wise search.
type LevelStats struct {
	// Level is the itemset size k.
	Level int

	// Candidates is the number of k-itemsets whose support was counted.
	Candidates int

	// Frequent is the number of candidates that met the support threshold.
	Frequent int

	// Duration is the wall time spent generating and counting the level.
	Duration time.Duration
}

// AprioriConfig contains configuration for the Apriori miner.
type AprioriConfig struct {
	// MaxItemsetSize stops the search after this level. 0 means unbounded.
	MaxItemsetSize int

	// Workers is the number of transaction shards counted in parallel.
	// Default: GOMAXPROCS.
	Workers int

	// OnLevel, if set, is called after each level completes.
	OnLevel func(LevelStats)
}

// Apriori implements level-wise frequent itemset mining.
//
// Level 1 counts every item. Level k joins pairs of frequent (k-1)-itemsets
// that share their first k-2 items, drops any candidate with an infrequent
// (k-1)-subset (downward closure), then counts the survivors in one pass over
// the transactions. Counting is split into contiguous transaction shards
// whose partial counts are summed before thresholding, so each level is a
// barrier for the next. Cancellation is observed between levels only.
type Apriori struct {
	maxSize int
	workers int
	onLevel func(LevelStats)
}

// NewApriori creates an Apriori miner.
func NewApriori(cfg AprioriConfig) *Apriori {
	return &Apriori{
		maxSize: cfg.MaxItemsetSize,
		workers: defaultWorkers(cfg.Workers),
		onLevel: cfg.OnLevel,
	}
}

// Name returns the algorithm identifier.
func (a *Apriori) Name() string {
	return "apriori"
}

// candidate is an itemset under evaluation, as sorted item IDs.
type candidate struct {
	ids  []uint
	bits *bitset.BitSet
}

// frequentSet is a counted, frequent itemset as sorted item IDs.
type frequentSet struct {
	ids   []uint
	count int
}

// Mine returns every itemset with support >= minSupport, ordered by size and
// then by item labels. An empty database or an empty first level is an empty
// result, not an error.
func (a *Apriori) Mine(ctx context.Context, db *recommend.Database, minSupport float64) ([]recommend.Itemset, error) {
	if err := recommend.ValidateMinSupport(minSupport); err != nil {
		return nil, err
	}
	if db == nil || db.Len() == 0 {
		return []recommend.Itemset{}, nil
	}

	n := db.Len()
	threshold := minCount(minSupport, n)
	result := make([]recommend.Itemset, 0, db.NumItems())

	var level []frequentSet
	for k := 1; ; k++ {
		if a.maxSize > 0 && k > a.maxSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		start := time.Now()
		var cands []candidate
		if k == 1 {
			cands = singletons(db)
		} else {
			cands = joinAndPrune(db, level)
		}
		if len(cands) == 0 {
			break
		}

		counts := a.count(db, cands)

		level = level[:0:0]
		for i, c := range cands {
			if counts[i] >= threshold {
				level = append(level, frequentSet{ids: c.ids, count: counts[i]})
			}
		}

		if a.onLevel != nil {
			a.onLevel(LevelStats{Level: k, Candidates: len(cands), Frequent: len(level), Duration: time.Since(start)})
		}

		for _, f := range level {
			result = append(result, toItemset(db, f, n))
		}
		if len(level) < 2 {
			break
		}
	}

	slices.SortStableFunc(result, func(x, y recommend.Itemset) int {
		return recommend.CompareItems(x.Items, y.Items)
	})
	return result, nil
}

// singletons returns one candidate per item, in ID order.
func singletons(db *recommend.Database) []candidate {
	cands := make([]candidate, db.NumItems())
	for id := range cands {
		ids := []uint{uint(id)}
		cands[id] = candidate{ids: ids, bits: db.ItemBits(ids)}
	}
	return cands
}

// joinAndPrune generates k-candidates from the sorted frequent (k-1)-sets.
// Two sets are joined only when they share the first k-2 IDs; since level is
// sorted, all join partners of level[i] follow it contiguously.
func joinAndPrune(db *recommend.Database, level []frequentSet) []candidate {
	known := make(map[string]struct{}, len(level))
	for _, f := range level {
		known[idsKey(f.ids)] = struct{}{}
	}

	var cands []candidate
	for i := 0; i < len(level); i++ {
		a := level[i].ids
		prefix := a[:len(a)-1]
		for j := i + 1; j < len(level); j++ {
			b := level[j].ids
			if !slices.Equal(prefix, b[:len(b)-1]) {
				break
			}

			ids := make([]uint, len(a)+1)
			copy(ids, a)
			ids[len(a)] = b[len(b)-1]

			if !allSubsetsFrequent(ids, known) {
				continue
			}
			cands = append(cands, candidate{ids: ids, bits: db.ItemBits(ids)})
		}
	}
	return cands
}

// allSubsetsFrequent reports whether every (k-1)-subset of ids is known.
// The two subsets that produced the join are frequent by construction, so
// only the removals of prefix positions are checked.
func allSubsetsFrequent(ids []uint, known map[string]struct{}) bool {
	if len(ids) <= 2 {
		return true
	}
	sub := make([]uint, len(ids)-1)
	for skip := 0; skip < len(ids)-2; skip++ {
		sub = sub[:0]
		for p, id := range ids {
			if p != skip {
				sub = append(sub, id)
			}
		}
		if _, ok := known[idsKey(sub)]; !ok {
			return false
		}
	}
	return true
}

// count returns, for each candidate, the number of transactions containing
// it. Transactions are split into shards counted concurrently; the partial
// counts are summed once every shard is done.
func (a *Apriori) count(db *recommend.Database, cands []candidate) []int {
	shards := shardRanges(db.Len(), a.workers)
	partial := make([][]int, len(shards))

	var g errgroup.Group
	g.SetLimit(a.workers)
	for s, r := range shards {
		g.Go(func() error {
			counts := make([]int, len(cands))
			for t := r[0]; t < r[1]; t++ {
				for c := range cands {
					if db.ContainsSet(t, cands[c].bits) {
						counts[c]++
					}
				}
			}
			partial[s] = counts
			return nil
		})
	}
	_ = g.Wait() // shard workers never fail

	total := make([]int, len(cands))
	for _, counts := range partial {
		for c, v := range counts {
			total[c] += v
		}
	}
	return total
}

func toItemset(db *recommend.Database, f frequentSet, n int) recommend.Itemset {
	items := make([]recommend.Item, len(f.ids))
	for i, id := range f.ids {
		items[i] = db.Item(id)
	}
	return recommend.Itemset{
		Items:   items,
		Support: float64(f.count) / float64(n),
		Count:   f.count,
	}
}
