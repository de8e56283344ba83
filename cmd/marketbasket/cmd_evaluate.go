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
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend/evaluation"
)

func newEvaluateCmd(a *app) *cobra.Command {
	var (
		src          sourceFlags
		testFraction float64
		holdout      int
		seed         uint64
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure holdout precision of the mined rules",
		Long: `Evaluate shuffles the transactions with a fixed seed, mines rules on the
training split and, for every test basket, withholds items and checks whether
the recommendations for the rest recover them.`,
		Example: `  marketbasket evaluate --in tx.csv --test-fraction 0.2 --seed 42`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			if flags.Changed("test-fraction") {
				a.cfg.Evaluation.TestFraction = testFraction
			}
			if flags.Changed("holdout") {
				a.cfg.Evaluation.HoldoutSize = holdout
			}
			if flags.Changed("seed") {
				a.cfg.Evaluation.Seed = seed
			}

			source, path := src.apply(cmd, a.cfg)
			txs, err := loadTransactions(ctx, a.cfg, source, path)
			if err != nil {
				return fmt.Errorf("load transactions: %w", err)
			}

			train, test, err := dataset.Split(txs, a.cfg.Evaluation.TestFraction, a.cfg.Evaluation.Seed)
			if err != nil {
				return err
			}

			engine, err := newEngine(a.cfg)
			if err != nil {
				return err
			}
			m, err := engine.Build(ctx, train)
			if err != nil {
				return err
			}

			evaluator, err := evaluation.New(a.cfg.EvaluatorConfig())
			if err != nil {
				return err
			}
			report, err := evaluator.Run(ctx, test, m.Rules)
			if err != nil {
				return err
			}

			metrics.RecordEvaluation(report.Precision, report.Coverage, report.HitRate)
			logging.Info().
				Int("train", len(train)).
				Int("test", len(test)).
				Int("rules", m.Rules.Len()).
				Float64("precision", report.Precision).
				Msg("evaluation complete")

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Train  int               `json:"train"`
					Test   int               `json:"test"`
					Rules  int               `json:"rules"`
					Report evaluation.Report `json:"report"`
				}{len(train), len(test), m.Rules.Len(), report})
			}

			if _, err := fmt.Fprintf(out, "%s\n%d training / %d test transactions, %d rules\n\n",
				titleStyle.Render("Holdout evaluation"), len(train), len(test), m.Rules.Len()); err != nil {
				return err
			}
			t := newTable(out, "Measure", "Value")
			t.row("Evaluated", strconv.Itoa(report.Evaluated))
			t.row("Skipped", strconv.Itoa(report.Skipped))
			t.row("Recommended", strconv.Itoa(report.Recommended))
			t.row("Hits", strconv.Itoa(report.Hits))
			t.row("Precision", f3(report.Precision))
			t.row("Micro precision", f3(report.MicroPrecision))
			t.row("Hit rate", f3(report.HitRate))
			t.row("Coverage", f3(report.Coverage))
			return t.flush()
		},
	}

	src.register(cmd)
	cmd.Flags().Float64Var(&testFraction, "test-fraction", 0.2, "fraction of transactions held out for testing")
	cmd.Flags().IntVar(&holdout, "holdout", 1, "items withheld per test transaction")
	cmd.Flags().Uint64Var(&seed, "seed", 42, "split and holdout seed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
