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
	"github.com/tomtom215/marketbasket/internal/logging"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

// sourceFlags selects where one-shot commands read transactions from.
type sourceFlags struct {
	source     string
	in         string
	minSupport float64
	metric     string
	threshold  float64
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "transaction source: dataset or database (default: training.source)")
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "CSV file for the dataset source (default: dataset.path, else synthetic)")
	cmd.Flags().Float64Var(&f.minSupport, "min-support", 0, "minimum itemset support in (0, 1] (default: mining.min_support)")
	cmd.Flags().StringVar(&f.metric, "metric", "", "rule metric: support, confidence or lift (default: rules.metric)")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "minimum rule metric value (default: rules.min_threshold)")
}

// apply folds explicitly set flags into cfg and returns the source and path.
func (f *sourceFlags) apply(cmd *cobra.Command, cfg *config.Config) (source, path string) {
	flags := cmd.Flags()
	if flags.Changed("min-support") {
		cfg.Mining.MinSupport = f.minSupport
	}
	if flags.Changed("metric") {
		cfg.Rules.Metric = f.metric
	}
	if flags.Changed("threshold") {
		cfg.Rules.MinThreshold = f.threshold
	}

	source = cfg.Training.Source
	if f.source != "" {
		source = f.source
	}
	path = cfg.Dataset.Path
	if f.in != "" {
		path = f.in
		if !flags.Changed("source") {
			source = config.SourceDataset
		}
	}
	return source, path
}

func newMineCmd(a *app) *cobra.Command {
	var (
		src       sourceFlags
		limit     int
		asJSON    bool
		saveRules bool
	)

	cmd := &cobra.Command{
		Use:   "mine",
		Short: "Print frequent itemsets and association rules",
		Long: `Mine runs Apriori over the selected transactions and prints the frequent
itemsets and the association rules that pass the metric threshold, strongest
first. --save-rules stores the rules in DuckDB under a new version.`,
		Example: `  marketbasket mine --in tx.csv --min-support 0.02
  marketbasket mine --source database --metric confidence --threshold 0.3 --save-rules`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			source, path := src.apply(cmd, a.cfg)

			_, m, err := trainedEngine(ctx, a.cfg, source, path)
			if err != nil {
				return err
			}

			if saveRules {
				version, err := persistRules(ctx, a.cfg, m.Rules.Rules)
				if err != nil {
					return err
				}
				logging.Info().Int("version", version).Int("rules", m.Rules.Len()).Msg("rules saved to database")
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, struct {
					Transactions int                         `json:"transactions"`
					MinSupport   float64                     `json:"min_support"`
					Itemsets     []recommend.Itemset         `json:"itemsets"`
					Metric       recommend.Metric            `json:"metric"`
					MinThreshold float64                     `json:"min_threshold"`
					Rules        []recommend.AssociationRule `json:"rules"`
				}{m.Transactions, m.MinSupport, m.Itemsets, m.Rules.Metric, m.Rules.MinThreshold, m.Rules.Top(m.Rules.Metric, limit)})
			}
			return printModel(out, m, limit)
		},
	}

	src.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rules to print (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().BoolVar(&saveRules, "save-rules", false, "store the rules in the DuckDB database")

	return cmd
}

func printModel(out io.Writer, m *recommend.Model, limit int) error {
	if _, err := fmt.Fprintf(out, "%s\n%d transactions, min support %g: %d frequent itemsets, %d rules (%s >= %g)\n\n",
		titleStyle.Render("Market basket analysis"),
		m.Transactions, m.MinSupport, len(m.Itemsets), m.Rules.Len(), m.Rules.Metric, m.Rules.MinThreshold); err != nil {
		return err
	}

	sets := newTable(out, "Itemset", "Size", "Support", "Count")
	for _, s := range m.Itemsets {
		if s.Size() < 2 {
			continue
		}
		sets.row(joinItems(s.Items), strconv.Itoa(s.Size()), f3(s.Support), strconv.Itoa(s.Count))
	}
	if err := sets.flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out); err != nil {
		return err
	}
	rules := m.Rules.Top(m.Rules.Metric, limit)
	if len(rules) == 0 {
		_, err := fmt.Fprintln(out, mutedStyle.Render("No rules pass the threshold."))
		return err
	}

	t := newTable(out, "Antecedent", "Consequent", "Support", "Confidence", "Lift", "Leverage")
	for _, r := range rules {
		t.row(joinItems(r.Antecedent), joinItems(r.Consequent), f3(r.Support), f3(r.Confidence), f3(r.Lift), f3(r.Leverage))
	}
	return t.flush()
}

// persistRules stores rules in DuckDB under the next rules version.
func persistRules(ctx context.Context, cfg *config.Config, rules []recommend.AssociationRule) (int, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Warn().Err(err).Msg("error closing database")
		}
	}()

	latest, err := db.LatestRulesVersion(ctx)
	if err != nil {
		return 0, err
	}
	version := latest + 1
	if err := db.SaveRules(ctx, version, rules); err != nil {
		return 0, err
	}
	return version, nil
}
