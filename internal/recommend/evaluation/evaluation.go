// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

// Package evaluation measures recommendation precision with a holdout
// protocol.
//
// For each test transaction, HoldoutSize items are withheld at random and
// recommendations are computed from the remaining items. A hit is a
// recommended item that was withheld. Comparing against the unmasked
// transaction would always score zero, since the matcher never recommends
// an item the basket already holds.
//
// Each transaction draws its holdout from its own PCG stream seeded with
// (Seed, index), so reports are identical across runs and worker counts.
package evaluation

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// Config controls the holdout protocol.
type Config struct {
	// HoldoutSize is the number of items withheld per transaction.
	// Transactions with fewer than HoldoutSize+1 items are skipped.
	// Default: 1.
	HoldoutSize int `json:"holdout_size"`

	// Seed makes holdout selection reproducible.
	// Default: 42.
	Seed uint64 `json:"seed"`

	// MaxRecommendations is passed to the matcher for every transaction.
	// Default: 6.
	MaxRecommendations int `json:"max_recommendations"`

	// Workers is the number of transactions evaluated concurrently.
	// Default: GOMAXPROCS.
	Workers int `json:"workers"`
}

// DefaultConfig returns a single-item holdout seeded with 42.
func DefaultConfig() Config {
	return Config{
		HoldoutSize:        1,
		Seed:               42,
		MaxRecommendations: 6,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.HoldoutSize < 1 {
		return &recommend.ConfigurationError{Field: "holdout_size", Value: c.HoldoutSize, Reason: "must be >= 1"}
	}
	if c.MaxRecommendations < 0 {
		return &recommend.ConfigurationError{Field: "max_recommendations", Value: c.MaxRecommendations, Reason: "must be >= 0"}
	}
	if c.Workers < 0 {
		return &recommend.ConfigurationError{Field: "workers", Value: c.Workers, Reason: "must be >= 0"}
	}
	return nil
}

// Report summarizes one evaluation run. Ratios are 0 when their
// denominator is 0.
type Report struct {
	// Transactions is the number of test transactions supplied.
	Transactions int `json:"transactions"`

	// Evaluated is the number of transactions large enough to mask.
	Evaluated int `json:"evaluated"`

	// Skipped is Transactions - Evaluated.
	Skipped int `json:"skipped"`

	// Recommended is the number of transactions that received at least one
	// recommendation.
	Recommended int `json:"recommended"`

	// Recommendations is the total number of recommended items.
	Recommendations int `json:"recommendations"`

	// Hits is the number of recommended items found in the holdout.
	Hits int `json:"hits"`

	// HitTransactions is the number of transactions with at least one hit.
	HitTransactions int `json:"hit_transactions"`

	// Precision is Hits / Recommended.
	Precision float64 `json:"precision"`

	// MicroPrecision is Hits / Recommendations.
	MicroPrecision float64 `json:"micro_precision"`

	// HitRate is HitTransactions / Recommended.
	HitRate float64 `json:"hit_rate"`

	// Coverage is Recommended / Evaluated.
	Coverage float64 `json:"coverage"`

	// Duration is the wall time of the run.
	Duration time.Duration `json:"duration"`
}

// Evaluator runs the holdout protocol.
type Evaluator struct {
	cfg Config
}

// New creates an evaluator.
func New(cfg Config) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	return &Evaluator{cfg: cfg}, nil
}

// Evaluate returns the holdout precision of rules over test using the
// default configuration.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func Evaluate(ctx context.Context, test []recommend.Transaction, rules recommend.RuleSet) (float64, error) {
	ev, err := New(DefaultConfig())
	if err != nil {
		return 0, err
	}
	report, err := ev.Run(ctx, test, rules)
	if err != nil {
		return 0, err
	}
	return report.Precision, nil
}

// outcome is the result for one transaction.
type outcome struct {
	evaluated   bool
	recommended int
	hits        int
}

// Run evaluates rules against every test transaction.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func (e *Evaluator) Run(ctx context.Context, test []recommend.Transaction, rules recommend.RuleSet) (Report, error) {
	start := time.Now()

	txs := make([]recommend.Transaction, len(test))
	for i, tx := range test {
		norm, err := recommend.NewTransaction(tx...)
		if err != nil {
			return Report{}, fmt.Errorf("test[%d]: %w", i, err)
		}
		txs[i] = norm
	}

	outcomes := make([]outcome, len(txs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i := range txs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := e.evaluateOne(txs[i], uint64(i), rules)
			outcomes[i] = o
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	r := Report{Transactions: len(txs)}
	for _, o := range outcomes {
		if !o.evaluated {
			r.Skipped++
			continue
		}
		r.Evaluated++
		if o.recommended == 0 {
			continue
		}
		r.Recommended++
		r.Recommendations += o.recommended
		r.Hits += o.hits
		if o.hits > 0 {
			r.HitTransactions++
		}
	}

	r.Precision = ratio(r.Hits, r.Recommended)
	r.MicroPrecision = ratio(r.Hits, r.Recommendations)
	r.HitRate = ratio(r.HitTransactions, r.Recommended)
	r.Coverage = ratio(r.Recommended, r.Evaluated)
	r.Duration = time.Since(start)
	return r, nil
}

// evaluateOne masks tx and scores the recommendations for the rest.
//
//nolint:gocritic // RuleSet passed by value, it is immutable
func (e *Evaluator) evaluateOne(tx recommend.Transaction, index uint64, rules recommend.RuleSet) (outcome, error) {
	observed, held := Mask(tx, e.cfg.HoldoutSize, rand.New(rand.NewPCG(e.cfg.Seed, index))) //nolint:gosec // reproducible sampling, not security
	if held == nil {
		return outcome{}, nil
	}

	recs, err := recommend.Recommend(observed, rules, e.cfg.MaxRecommendations)
	if err != nil {
		return outcome{}, err
	}

	o := outcome{evaluated: true, recommended: len(recs)}
	for _, it := range recs {
		if held.Contains(it) {
			o.hits++
		}
	}
	return o, nil
}

// Mask splits a sorted transaction into observed items and size withheld
// items chosen with r. Both results stay sorted. held is nil when tx has
// fewer than size+1 items.
func Mask(tx recommend.Transaction, size int, r *rand.Rand) (observed, held recommend.Transaction) {
	if size < 1 || len(tx) < size+1 {
		return tx, nil
	}

	withheld := make([]bool, len(tx))
	for _, p := range r.Perm(len(tx))[:size] {
		withheld[p] = true
	}

	observed = make(recommend.Transaction, 0, len(tx)-size)
	held = make(recommend.Transaction, 0, size)
	for i, it := range tx {
		if withheld[i] {
			held = append(held, it)
		} else {
			observed = append(observed, it)
		}
	}
	return observed, held
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
