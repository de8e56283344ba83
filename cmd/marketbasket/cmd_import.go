// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/database"
	"github.com/tomtom215/marketbasket/internal/dataset"
	"github.com/tomtom215/marketbasket/internal/logging"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		in      string
		replace bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load a CSV file into the DuckDB transaction store",
		Long: `Import appends every basket of a CSV file to the transactions table of
the DuckDB database at database.path. With --replace the table is emptied
first.`,
		Example: "  marketbasket import --in tx.csv",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if in == "" {
				in = a.cfg.Dataset.Path
			}
			if in == "" {
				return errors.New("no input file: pass --in or set dataset.path")
			}

			txs, err := dataset.ReadFile(in)
			if err != nil {
				return err
			}

			db, err := database.New(&a.cfg.Database)
			if err != nil {
				return err
			}
			defer func() {
				if err := db.Close(); err != nil {
					logging.Warn().Err(err).Msg("error closing database")
				}
			}()

			if replace {
				if err := db.DeleteTransactions(ctx); err != nil {
					return err
				}
			}
			n, err := db.InsertTransactions(ctx, txs)
			if err != nil {
				return err
			}
			total, err := db.CountTransactions(ctx)
			if err != nil {
				return err
			}

			logging.Info().Str("file", in).Int("imported", n).Int("total", total).Msg("import complete")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions into %s (%d total)\n",
				n, a.cfg.Database.Path, total)
			return err
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "input CSV file (default: dataset.path)")
	cmd.Flags().BoolVar(&replace, "replace", false, "delete existing transactions first")

	return cmd
}
