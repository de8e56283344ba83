// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

const tableRules = "association_rules"

// metricColumns whitelists the columns TopRules may order by.
var metricColumns = map[recommend.Metric]string{
	recommend.MetricSupport:    "support",
	recommend.MetricConfidence: "confidence",
	recommend.MetricLift:       "lift",
	recommend.MetricLeverage:   "leverage",
}

// SaveRules replaces the rules stored for version.
func (db *DB) SaveRules(ctx context.Context, version int, rules []recommend.AssociationRule) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", tableRules, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	if _, err := tx.ExecContext(ctx, `DELETE FROM association_rules WHERE version = ?`, version); err != nil {
		return fmt.Errorf("failed to clear rules for version %d: %w", version, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO association_rules (
			version, antecedent, consequent, support, antecedent_support,
			consequent_support, confidence, lift, leverage
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare rule insert: %w", err)
	}
	defer closeWithLog(stmt, "rule insert statement")

	for i := range rules {
		r := &rules[i]
		ante, err := json.Marshal(r.Antecedent)
		if err != nil {
			return fmt.Errorf("failed to encode antecedent: %w", err)
		}
		cons, err := json.Marshal(r.Consequent)
		if err != nil {
			return fmt.Errorf("failed to encode consequent: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, version, string(ante), string(cons),
			r.Support, r.AntecedentSupport, r.ConsequentSupport,
			r.Confidence, r.Lift, r.Leverage); err != nil {
			return fmt.Errorf("failed to insert rule %s: %w", r, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rules: %w", err)
	}
	return nil
}

// TopRules returns up to limit rules of version ordered by metric
// descending, then by antecedent and consequent. limit <= 0 returns all.
func (db *DB) TopRules(ctx context.Context, version int, metric recommend.Metric, limit int) (rules []recommend.AssociationRule, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableRules, time.Since(start), err) }()

	column, ok := metricColumns[metric]
	if !ok {
		return nil, &recommend.ConfigurationError{Field: "metric", Value: metric, Reason: "must be one of support, confidence, lift, leverage"}
	}

	query := fmt.Sprintf(`
		SELECT antecedent, consequent, support, antecedent_support,
		       consequent_support, confidence, lift, leverage
		FROM association_rules
		WHERE version = ?
		ORDER BY %s DESC, antecedent, consequent`, column)
	args := []any{version}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer closeWithLog(rows, "rule rows")

	rules = []recommend.AssociationRule{}
	for rows.Next() {
		var r recommend.AssociationRule
		var ante, cons string
		if err := rows.Scan(&ante, &cons, &r.Support, &r.AntecedentSupport,
			&r.ConsequentSupport, &r.Confidence, &r.Lift, &r.Leverage); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if err := json.Unmarshal([]byte(ante), &r.Antecedent); err != nil {
			return nil, fmt.Errorf("failed to decode antecedent: %w", err)
		}
		if err := json.Unmarshal([]byte(cons), &r.Consequent); err != nil {
			return nil, fmt.Errorf("failed to decode consequent: %w", err)
		}
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}

// LatestRulesVersion returns the highest stored rule version, or 0 when no
// rules have been saved.
func (db *DB) LatestRulesVersion(ctx context.Context) (version int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("aggregate", tableRules, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	var v sql.NullInt64
	err = db.conn.QueryRowContext(ctx, `SELECT MAX(version) FROM association_rules`).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read latest rule version: %w", err)
	}
	return int(v.Int64), nil
}
