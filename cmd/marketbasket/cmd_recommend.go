// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/dataset"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		src    sourceFlags
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "recommend BASKET",
		Short: "Recommend items for a comma-separated basket",
		Long: `Recommend trains on the selected transactions and prints the items whose
rules fire for BASKET, best confidence first. Items already in the basket are
never recommended.`,
		Example: `  marketbasket recommend "Milk, Bread"
  marketbasket recommend --in tx.csv --limit 3 "Eggs"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			basket, err := dataset.ParseTransaction(args[0])
			if err != nil {
				return err
			}

			source, path := src.apply(cmd, a.cfg)
			engine, _, err := trainedEngine(ctx, a.cfg, source, path)
			if err != nil {
				return err
			}

			resp, err := engine.Recommend(ctx, basket, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resp)
			}
			if len(resp.Items) == 0 {
				_, err := fmt.Fprintf(out, "No recommendations for %s.\n", joinItems(resp.Basket))
				return err
			}

			if _, err := fmt.Fprintf(out, "%s %s\n\n", titleStyle.Render("Recommendations for"), joinItems(resp.Basket)); err != nil {
				return err
			}
			t := newTable(out, "#", "Item", "Confidence", "Lift", "Because of")
			for i, s := range resp.Items {
				t.row(strconv.Itoa(i+1), string(s.Item), f3(s.Confidence), f3(s.Lift), joinItems(s.Antecedent))
			}
			return t.flush()
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum items (default: recommend.max_recommendations)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newCoOccurCmd(a *app) *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:     "cooccur ITEM",
		Short:   "Show the item most often bought with ITEM",
		Example: `  marketbasket cooccur "Milk"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			tx, err := recommend.NewTransaction(recommend.Item(args[0]))
			if err != nil {
				return err
			}
			item := tx[0]

			source, path := src.apply(cmd, a.cfg)
			engine, _, err := trainedEngine(ctx, a.cfg, source, path)
			if err != nil {
				return err
			}

			co, ok, err := engine.CoOccurrence(item)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !ok {
				_, err := fmt.Fprintf(out, "No association rule starts from %s.\n", item)
				return err
			}
			_, err = fmt.Fprintf(out, "%.1f%% of the customers who bought %s also bought %s (lift %.2f).\n",
				co.Percentage, co.Item, co.With, co.Lift)
			return err
		},
	}

	src.register(cmd)
	return cmd
}
