// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package main

import (
	"github.com/spf13/cobra"

	"github.com/tomtom215/marketbasket/internal/config"
	"github.com/tomtom215/marketbasket/internal/logging"
)

// app carries state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "marketbasket",
		Short: "Association rule mining and item recommendation",
		Long: `marketbasket finds items that are frequently bought together using the
Apriori algorithm, derives association rules ranked by support, confidence
or lift, and recommends items for a shopping basket.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.init,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: ./config.yaml or $CONFIG_PATH)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format override (json, console)")

	root.AddCommand(
		newGenerateCmd(a),
		newImportCmd(a),
		newMineCmd(a),
		newItemsCmd(a),
		newRulesCmd(a),
		newRecommendCmd(a),
		newCoOccurCmd(a),
		newEvaluateCmd(a),
		newServeCmd(a),
	)
	return root
}

// init loads configuration and configures the global logger. Command-line
// log flags win over the config file and environment.
func (a *app) init(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Logging.Format = a.logFormat
	}

	logCfg := cfg.LogConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logging.Init(logCfg)

	a.cfg = cfg
	return nil
}
