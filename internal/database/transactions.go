// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/marketbasket/internal/metrics"
	"github.com/tomtom215/marketbasket/internal/recommend"
)

const tableTransactions = "transactions"

// InsertTransactions appends baskets to the store and returns the number
// written. Each basket is normalized first; any invalid basket rejects the
// whole batch with a *recommend.ValidationError naming its index. New baskets
// receive IDs following the current maximum.
func (db *DB) InsertTransactions(ctx context.Context, txs []recommend.Transaction) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("insert", tableTransactions, time.Since(start), err) }()

	normalized := make([]recommend.Transaction, len(txs))
	for i, tx := range txs {
		clean, nerr := recommend.NewTransaction(tx...)
		if nerr != nil {
			return 0, fmt.Errorf("transactions[%d]: %w", i, nerr)
		}
		normalized[i] = clean
	}
	if len(normalized) == 0 {
		return 0, nil
	}

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	var next int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(transaction_id), 0) FROM transactions`).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to read next transaction id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO transactions (transaction_id, item) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeWithLog(stmt, "insert statement")

	for _, basket := range normalized {
		next++
		for _, item := range basket {
			if _, err := stmt.ExecContext(ctx, next, string(item)); err != nil {
				return 0, fmt.Errorf("failed to insert transaction %d: %w", next, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return len(normalized), nil
}

// LoadTransactions returns every stored basket ordered by ID, with items in
// lexicographic order. It implements recommend.TransactionSource.
func (db *DB) LoadTransactions(ctx context.Context) (txs []recommend.Transaction, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("select", tableTransactions, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT transaction_id, item FROM transactions ORDER BY transaction_id, item`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer closeWithLog(rows, "transaction rows")

	txs = []recommend.Transaction{}
	current := int64(-1)
	for rows.Next() {
		var id int64
		var item string
		if err := rows.Scan(&id, &item); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		if id != current {
			txs = append(txs, recommend.Transaction{})
			current = id
		}
		last := len(txs) - 1
		txs[last] = append(txs[last], recommend.Item(item))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// CountTransactions returns the number of stored baskets.
func (db *DB) CountTransactions(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("count", tableTransactions, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	var count int64
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT transaction_id) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return int(count), nil
}

// ItemFrequencies returns how many baskets contain each item, most
// purchased first, ties by label.
func (db *DB) ItemFrequencies(ctx context.Context) (counts []recommend.ItemCount, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("aggregate", tableTransactions, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT item, COUNT(DISTINCT transaction_id) AS purchases
		FROM transactions
		GROUP BY item
		ORDER BY purchases DESC, item ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query item frequencies: %w", err)
	}
	defer closeWithLog(rows, "item frequency rows")

	counts = []recommend.ItemCount{}
	for rows.Next() {
		var item string
		var n int64
		if err := rows.Scan(&item, &n); err != nil {
			return nil, fmt.Errorf("failed to scan item frequency: %w", err)
		}
		counts = append(counts, recommend.ItemCount{Item: recommend.Item(item), Count: int(n)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item frequencies: %w", err)
	}
	return counts, nil
}

// DeleteTransactions removes every stored basket.
func (db *DB) DeleteTransactions(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("delete", tableTransactions, time.Since(start), err) }()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
