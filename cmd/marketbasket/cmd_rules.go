// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/database"
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

func newRulesCmd(a *app) *cobra.Command {
	var (
		version int
		metric  string
		limit   int
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print association rules saved by mine --save-rules",
		Long: `Rules reads a stored rule version from the DuckDB database, ranked by
metric descending. Version 0 selects the most recent one.`,
		Example: `  marketbasket rules
  marketbasket rules --version 2 --metric leverage --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			rank, err := recommend.ParseRankMetric(metric)
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

			if version == 0 {
				if version, err = db.LatestRulesVersion(ctx); err != nil {
					return err
				}
				if version == 0 {
					return fmt.Errorf("no rules saved in %s: run mine --save-rules first", a.cfg.Database.Path)
				}
			}

			rules, err := db.TopRules(ctx, version, rank, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Version int                         `json:"version"`
					Metric  recommend.Metric            `json:"metric"`
					Rules   []recommend.AssociationRule `json:"rules"`
				}{version, rank, rules})
			}

			if _, err := fmt.Fprintf(out, "%s\n\n", titleStyle.Render(fmt.Sprintf("Rules version %d by %s", version, rank))); err != nil {
				return err
			}
			if len(rules) == 0 {
				_, err := fmt.Fprintln(out, mutedStyle.Render("No rules stored for this version."))
				return err
			}
			t := newTable(out, "Antecedent", "Consequent", "Support", "Confidence", "Lift", "Leverage")
			for _, r := range rules {
				t.row(joinItems(r.Antecedent), joinItems(r.Consequent), f3(r.Support), f3(r.Confidence), f3(r.Lift), f3(r.Leverage))
			}
			return t.flush()
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "rule version to print (0 = latest)")
	cmd.Flags().StringVar(&metric, "metric", "lift", "ranking metric: support, confidence, lift or leverage")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rules to print (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}
