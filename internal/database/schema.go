// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS transactions (
		transaction_id BIGINT NOT NULL,
		item VARCHAR NOT NULL,
		PRIMARY KEY (transaction_id, item)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_item ON transactions(item)`,
	`CREATE TABLE IF NOT EXISTS association_rules (
		version INTEGER NOT NULL,
		antecedent VARCHAR NOT NULL,
		consequent VARCHAR NOT NULL,
		support DOUBLE NOT NULL,
		antecedent_support DOUBLE NOT NULL,
		consequent_support DOUBLE NOT NULL,
		confidence DOUBLE NOT NULL,
		lift DOUBLE NOT NULL,
		leverage DOUBLE NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_association_rules_version ON association_rules(version)`,
}

// createSchema creates tables and indexes if they do not exist.
func (db *DB) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
