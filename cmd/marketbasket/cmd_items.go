// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/config"
	"github.com/tomtom215/marketbasket/internal/database"
	"github.com/tomtom215/marketbasket/internal/dataset"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

func newItemsCmd(a *app) *cobra.Command {
	var (
		src     sourceFlags
		limit   int
		catalog bool
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "items",
		Short: "Print how many baskets contain each item",
		Long: `Items counts the baskets each item appears in, most purchased first.
The database source aggregates in DuckDB. --catalog adds the items of the
synthetic grocery catalog that were never bought.`,
		Example: `  marketbasket items --in tx.csv --limit 10
  marketbasket items --source database --catalog`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			source, path := src.apply(cmd, a.cfg)

			counts, total, err := itemCounts(ctx, a.cfg, source, path)
			if err != nil {
				return err
			}
			if catalog {
				counts = withCatalog(counts, dataset.Catalog())
			}
			if limit > 0 && len(counts) > limit {
				counts = counts[:limit]
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Transactions int                   `json:"transactions"`
					Items        []recommend.ItemCount `json:"items"`
				}{total, counts})
			}
			return printItems(out, counts, total)
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum items to print (0 = all)")
	cmd.Flags().BoolVar(&catalog, "catalog", false, "include catalog items with no purchases")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

// itemCounts returns per-item basket counts and the number of baskets.
func itemCounts(ctx context.Context, cfg *config.Config, source, path string) ([]recommend.ItemCount, int, error) {
	if source != config.SourceDatabase {
		txs, err := loadTransactions(ctx, cfg, source, path)
		if err != nil {
			return nil, 0, err
		}
		db, err := recommend.NewDatabase(txs)
		if err != nil {
			return nil, 0, err
		}
		return db.ItemCounts(), db.Len(), nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("error closing database")
		}
	}()

	counts, err := db.ItemFrequencies(ctx)
	if err != nil {
		return nil, 0, err
	}
	total, err := db.CountTransactions(ctx)
	if err != nil {
		return nil, 0, err
	}
	return counts, total, nil
}

// withCatalog appends a zero count for every catalog item not in counts.
func withCatalog(counts []recommend.ItemCount, catalog []recommend.Item) []recommend.ItemCount {
	seen := make(map[recommend.Item]struct{}, len(counts))
	for _, c := range counts {
		seen[c.Item] = struct{}{}
	}
	for _, it := range catalog {
		if _, ok := seen[it]; !ok {
			counts = append(counts, recommend.ItemCount{Item: it})
		}
	}
	return counts
}

func printItems(out io.Writer, counts []recommend.ItemCount, total int) error {
	t := newTable(out, "Item", "Baskets", "Share")
	for _, c := range counts {
		share := 0.0
		if total > 0 {
			share = float64(c.Count) / float64(total)
		}
		t.row(string(c.Item), strconv.Itoa(c.Count), f3(share))
	}
	if err := t.flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d items over %d baskets", len(counts), total)))
	return err
}
