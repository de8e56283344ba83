// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"cmp"
	"errors"
	"slices"
	"strconv"

	"github.com/bits-and-blooms/bitset"
)

// Database is a read-only, indexed collection of transactions.
//
// Items are interned into dense IDs in lexicographic order, so comparing IDs
// is the same as comparing labels. Each transaction is stored as an incidence
// bitset over item IDs, which turns the "transaction contains itemset" test
// into a single superset check. A Database is never mutated after
// NewDatabase returns and is safe for concurrent readers.
type Database struct {
	items []Item
	index map[Item]uint
	txs   []Transaction
	rows  []*bitset.BitSet
}

// NewDatabase validates and indexes transactions. Every transaction must be
// non-empty and duplicate-free; unsorted input is normalized through
// NewTransaction. Transaction order is preserved.
func NewDatabase(transactions []Transaction) (*Database, error) {
	txs := make([]Transaction, len(transactions))
	seen := make(map[Item]struct{})

	for i, raw := range transactions {
		tx, err := NewTransaction(raw...)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Field = "transactions[" + strconv.Itoa(i) + "]"
				return nil, verr
			}
			return nil, err
		}
		txs[i] = tx
		for _, it := range tx {
			seen[it] = struct{}{}
		}
	}

	items := make([]Item, 0, len(seen))
	for it := range seen {
		items = append(items, it)
	}
	slices.Sort(items)

	index := make(map[Item]uint, len(items))
	for id, it := range items {
		index[it] = uint(id)
	}

	rows := make([]*bitset.BitSet, len(txs))
	for i, tx := range txs {
		row := bitset.New(uint(len(items)))
		for _, it := range tx {
			row.Set(index[it])
		}
		rows[i] = row
	}

	return &Database{items: items, index: index, txs: txs, rows: rows}, nil
}

// Len returns the number of transactions.
func (d *Database) Len() int {
	return len(d.txs)
}

// NumItems returns the number of distinct items.
func (d *Database) NumItems() int {
	return len(d.items)
}

// Items returns the distinct items in ascending order.
func (d *Database) Items() []Item {
	return slices.Clone(d.items)
}

// Item returns the label for an item ID.
func (d *Database) Item(id uint) Item {
	return d.items[id]
}

// ItemID returns the dense ID of an item.
func (d *Database) ItemID(item Item) (uint, bool) {
	id, ok := d.index[item]
	return id, ok
}

// Transaction returns the i-th transaction.
func (d *Database) Transaction(i int) Transaction {
	return d.txs[i]
}

// ContainsSet reports whether transaction i contains every item in set.
// set must come from ItemBits or be built over this Database's item IDs.
func (d *Database) ContainsSet(i int, set *bitset.BitSet) bool {
	return d.rows[i].IsSuperSet(set)
}

// ItemBits converts item IDs into an incidence bitset.
func (d *Database) ItemBits(ids []uint) *bitset.BitSet {
	b := bitset.New(uint(len(d.items)))
	for _, id := range ids {
		b.Set(id)
	}
	return b
}

// ItemCounts returns how many transactions each item appears in, most
// frequent first, ties broken by label.
func (d *Database) ItemCounts() []ItemCount {
	counts := make([]int, len(d.items))
	for _, row := range d.rows {
		for id, ok := row.NextSet(0); ok; id, ok = row.NextSet(id + 1) {
			counts[id]++
		}
	}

	out := make([]ItemCount, len(d.items))
	for id, it := range d.items {
		out[id] = ItemCount{Item: it, Count: counts[id]}
	}
	slices.SortStableFunc(out, func(a, b ItemCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Item, b.Item)
	})
	return out
}
