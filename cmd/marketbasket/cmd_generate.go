// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/dataset"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out   string
		count int
		size  int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic grocery baskets to a CSV file",
		Long: `Generate draws baskets of distinct items from the built-in grocery
catalog and writes one basket per line. The same seed always produces the
same file.`,
		Example: "  marketbasket generate --out tx.csv --count 1000 --size 6 --seed 42",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen := dataset.DefaultGenerateConfig()
			gen.Transactions = a.cfg.Dataset.Transactions
			gen.ItemsPerTransaction = a.cfg.Dataset.ItemsPerTransaction
			gen.Seed = a.cfg.Dataset.Seed
			if cmd.Flags().Changed("count") {
				gen.Transactions = count
			}
			if cmd.Flags().Changed("size") {
				gen.ItemsPerTransaction = size
			}
			if cmd.Flags().Changed("seed") {
				gen.Seed = seed
			}

			txs, err := dataset.Generate(gen)
			if err != nil {
				return err
			}
			if err := dataset.WriteFile(out, txs); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions of %d items to %s\n",
				len(txs), gen.ItemsPerTransaction, out)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output CSV file")
	cmd.Flags().IntVarP(&count, "count", "n", 1000, "number of transactions")
	cmd.Flags().IntVarP(&size, "size", "s", 6, "items per transaction")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}
