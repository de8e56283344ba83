// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// GenerateConfig controls synthetic basket generation.
type GenerateConfig struct {
	// Transactions is the number of baskets to generate.
	// Default: 1000.
	Transactions int `json:"transactions"`

	// ItemsPerTransaction is the number of distinct items per basket.
	// Default: 6.
	ItemsPerTransaction int `json:"items_per_transaction"`

	// Seed makes generation reproducible.
	// Default: 42.
	Seed uint64 `json:"seed"`

	// Catalog is the item universe. Default: Catalog().
	Catalog []recommend.Item `json:"-"`
}

// DefaultGenerateConfig returns 1000 baskets of 6 groceries.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Transactions:        1000,
		ItemsPerTransaction: 6,
		Seed:                42,
	}
}

// Generate draws cfg.Transactions baskets, each holding
// cfg.ItemsPerTransaction distinct items sampled uniformly from the catalog.
func Generate(cfg GenerateConfig) ([]recommend.Transaction, error) {
	catalog := cfg.Catalog
	if len(catalog) == 0 {
		catalog = Catalog()
	}
	if cfg.Transactions < 0 {
		return nil, &recommend.ConfigurationError{Field: "transactions", Value: cfg.Transactions, Reason: "must be >= 0"}
	}
	if cfg.ItemsPerTransaction < 1 || cfg.ItemsPerTransaction > len(catalog) {
		return nil, &recommend.ConfigurationError{
			Field:  "items_per_transaction",
			Value:  cfg.ItemsPerTransaction,
			Reason: fmt.Sprintf("must be in [1, %d]", len(catalog)),
		}
	}

	r := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible sampling, not security
	txs := make([]recommend.Transaction, 0, cfg.Transactions)
	for i := 0; i < cfg.Transactions; i++ {
		perm := r.Perm(len(catalog))[:cfg.ItemsPerTransaction]
		items := make([]recommend.Item, len(perm))
		for j, p := range perm {
			items[j] = catalog[p]
		}
		tx, err := recommend.NewTransaction(items...)
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// Split shuffles txs with a seeded source and returns the train and test
// partitions. The test partition holds ceil(testFraction * len(txs))
// transactions. The input slice is not modified.
func Split(txs []recommend.Transaction, testFraction float64, seed uint64) (train, test []recommend.Transaction, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return nil, nil, &recommend.ConfigurationError{Field: "test_fraction", Value: testFraction, Reason: "must be in (0, 1)"}
	}

	n := len(txs)
	nTest := int(math.Ceil(testFraction * float64(n)))
	if nTest > n {
		nTest = n
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // reproducible sampling, not security
	perm := r.Perm(n)

	test = make([]recommend.Transaction, 0, nTest)
	train = make([]recommend.Transaction, 0, n-nTest)
	for i, p := range perm {
		if i < nTest {
			test = append(test, txs[p])
		} else {
			train = append(train, txs[p])
		}
	}
	return train, test, nil
}
