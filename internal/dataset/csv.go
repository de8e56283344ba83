// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// ParseTransaction parses a comma-separated basket such as
// "milk, bread, eggs".
func ParseTransaction(s string) (recommend.Transaction, error) {
	if strings.TrimSpace(s) == "" {
		return nil, &recommend.ValidationError{Field: "transaction", Reason: "no items"}
	}
	fields := strings.Split(s, ",")
	items := make([]recommend.Item, len(fields))
	for i, f := range fields {
		items[i] = recommend.Item(f)
	}
	return recommend.NewTransaction(items...)
}

// ReadCSV reads one transaction per record. Records may have any number of
// fields; blank lines and lines starting with '#' are ignored.
func ReadCSV(r io.Reader) ([]recommend.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true

	var txs []recommend.Transaction
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		items := make([]recommend.Item, len(record))
		for i, f := range record {
			items[i] = recommend.Item(f)
		}
		tx, err := recommend.NewTransaction(items...)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteCSV writes one transaction per record.
func WriteCSV(w io.Writer, txs []recommend.Transaction) error {
	cw := csv.NewWriter(w)
	for _, tx := range txs {
		if err := cw.Write(tx.Strings()); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadFile reads transactions from a CSV file.
func ReadFile(path string) ([]recommend.Transaction, error) {
	f, err := os.Open(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("open transactions: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	return ReadCSV(f)
}

// WriteFile writes transactions to a CSV file, replacing it.
func WriteFile(path string, txs []recommend.Transaction) error {
	f, err := os.Create(path) //nolint:gosec // path is operator supplied
	if err != nil {
		return fmt.Errorf("create transactions file: %w", err)
	}
	if err := WriteCSV(f, txs); err != nil {
		_ = f.Close() //nolint:errcheck // write error takes precedence
		return err
	}
	return f.Close()
}
