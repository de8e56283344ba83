// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Item is an opaque product label. Items are ordered lexicographically, and
// that order drives candidate generation and every tie-break.
type Item string

// Transaction is a sorted, duplicate-free set of items bought together.
type Transaction []Item

// NewTransaction builds a Transaction from labels. Labels are trimmed. An
// empty transaction, an empty label, a label holding control characters or
// a repeated label is a ValidationError.
func NewTransaction(items ...Item) (Transaction, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Field: "transaction", Reason: "transaction is empty"}
	}

	tx := make(Transaction, 0, len(items))
	for i, it := range items {
		label := Item(strings.TrimSpace(string(it)))
		if label == "" {
			return nil, &ValidationError{Field: "transaction", Reason: "empty item label at position " + strconv.Itoa(i)}
		}
		if strings.ContainsFunc(string(label), unicode.IsControl) {
			return nil, &ValidationError{Field: "transaction", Reason: "control character in item label at position " + strconv.Itoa(i)}
		}
		tx = append(tx, label)
	}

	slices.Sort(tx)
	for i := 1; i < len(tx); i++ {
		if tx[i] == tx[i-1] {
			return nil, &ValidationError{Field: "transaction", Reason: "duplicate item " + string(tx[i])}
		}
	}
	return tx, nil
}

// Contains reports whether item is in the transaction.
func (t Transaction) Contains(item Item) bool {
	_, found := slices.BinarySearch(t, item)
	return found
}

// ContainsAll reports whether every item of sorted is in the transaction.
// sorted must be in ascending order.
func (t Transaction) ContainsAll(sorted []Item) bool {
	if len(sorted) > len(t) {
		return false
	}
	i := 0
	for _, want := range sorted {
		for i < len(t) && t[i] < want {
			i++
		}
		if i == len(t) || t[i] != want {
			return false
		}
		i++
	}
	return true
}

// Strings returns the labels as plain strings.
func (t Transaction) Strings() []string {
	out := make([]string, len(t))
	for i, it := range t {
		out[i] = string(it)
	}
	return out
}

// Itemset is a frequent set of items together with its support.
type Itemset struct {
	// Items are sorted ascending.
	Items []Item `json:"items"`

	// Support is the fraction of transactions containing every item.
	Support float64 `json:"support"`

	// Count is the absolute number of supporting transactions.
	Count int `json:"count"`
}

// Size returns the number of items in the set.
func (s Itemset) Size() int {
	return len(s.Items)
}

// Key returns a stable map key for the item list.
func (s Itemset) Key() string {
	return ItemsKey(s.Items)
}

// ItemsKey encodes sorted items as a single map key. Each label is length
// prefixed, so distinct item lists never share a key.
func ItemsKey(items []Item) string {
	var b strings.Builder
	for _, it := range items {
		b.WriteString(strconv.Itoa(len(it)))
		b.WriteByte(':')
		b.WriteString(string(it))
	}
	return b.String()
}

// CompareItems orders item lists by length, then lexicographically.
func CompareItems(a, b []Item) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	return slices.Compare(a, b)
}

// AssociationRule is an antecedent => consequent implication derived from a
// frequent itemset. Antecedent and consequent are disjoint and sorted.
type AssociationRule struct {
	// Antecedent is the "if" side.
	Antecedent []Item `json:"antecedent"`

	// Consequent is the "then" side.
	Consequent []Item `json:"consequent"`

	// Support is the support of antecedent and consequent together.
	Support float64 `json:"support"`

	// AntecedentSupport is the support of the antecedent alone.
	AntecedentSupport float64 `json:"antecedent_support"`

	// ConsequentSupport is the support of the consequent alone.
	ConsequentSupport float64 `json:"consequent_support"`

	// Confidence is Support / AntecedentSupport.
	Confidence float64 `json:"confidence"`

	// Lift is Confidence / ConsequentSupport.
	Lift float64 `json:"lift"`

	// Leverage is Support - AntecedentSupport*ConsequentSupport.
	Leverage float64 `json:"leverage"`
}

// Value returns the rule's score under the given metric.
//
//nolint:gocritic // value receiver keeps rules immutable
func (r AssociationRule) Value(m Metric) float64 {
	switch m {
	case MetricSupport:
		return r.Support
	case MetricConfidence:
		return r.Confidence
	case MetricLeverage:
		return r.Leverage
	default:
		return r.Lift
	}
}

// String renders the rule as "{a,b} => {c}".
//
//nolint:gocritic // value receiver keeps rules immutable
func (r AssociationRule) String() string {
	return "{" + joinItems(r.Antecedent) + "} => {" + joinItems(r.Consequent) + "}"
}

// Metric names the rule score used for threshold filtering.
type Metric string

const (
	// MetricSupport filters on joint support.
	MetricSupport Metric = "support"
	// MetricConfidence filters on confidence.
	MetricConfidence Metric = "confidence"
	// MetricLift filters on lift.
	MetricLift Metric = "lift"
	// MetricLeverage ranks rules by leverage. It is not a filter metric.
	MetricLeverage Metric = "leverage"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(strings.ToLower(strings.TrimSpace(s))); m {
	case MetricSupport, MetricConfidence, MetricLift:
		return m, nil
	default:
		return "", &ConfigurationError{Field: "metric", Value: s, Reason: "must be one of support, confidence, lift"}
	}
}

// ParseRankMetric validates a metric used to order existing rules. It
// accepts every filter metric plus leverage.
func ParseRankMetric(s string) (Metric, error) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	if m == MetricLeverage {
		return m, nil
	}
	if _, err := ParseMetric(s); err != nil {
		return "", &ValidationError{Field: "metric", Reason: "must be one of support, confidence, lift, leverage"}
	}
	return m, nil
}

// Model is an immutable snapshot of a training run. The engine swaps whole
// models atomically, so readers never observe a partial update.
type Model struct {
	// ID uniquely identifies the training run.
	ID string `json:"id"`

	// Version increases by one on every successful training run.
	Version int `json:"version"`

	// TrainedAt is when the model was built.
	TrainedAt time.Time `json:"trained_at"`

	// Transactions is the number of transactions mined.
	Transactions int `json:"transactions"`

	// MinSupport is the support threshold used for mining.
	MinSupport float64 `json:"min_support"`

	// Itemsets are the frequent itemsets, by size then lexicographic order.
	Itemsets []Itemset `json:"itemsets"`

	// Rules is the filtered rule set.
	Rules RuleSet `json:"rules"`

	// ItemCounts are per-item purchase counts, most purchased first.
	ItemCounts []ItemCount `json:"item_counts"`
}

// ItemCount is the number of transactions an item appears in.
type ItemCount struct {
	Item  Item `json:"item"`
	Count int  `json:"count"`
}

// Miner finds frequent itemsets in a Database.
type Miner interface {
	// Name returns the algorithm identifier (e.g., "apriori").
	Name() string

	// Mine returns all itemsets whose support is at least minSupport.
	Mine(ctx context.Context, db *Database, minSupport float64) ([]Itemset, error)
}

// RuleGenerator derives association rules from frequent itemsets.
type RuleGenerator interface {
	// Generate returns the rules whose metric value is at least minThreshold.
	Generate(ctx context.Context, itemsets []Itemset, metric Metric, minThreshold float64) (RuleSet, error)
}

// TransactionSource supplies training transactions. It is typically
// implemented by the database layer.
type TransactionSource interface {
	LoadTransactions(ctx context.Context) ([]Transaction, error)
}

// ModelStore persists trained models.
type ModelStore interface {
	Save(ctx context.Context, model *Model) error
	Latest(ctx context.Context) (*Model, error)
}

// TrainingStatus represents the current training state.
type TrainingStatus struct {
	// IsTraining indicates whether training is currently in progress.
	IsTraining bool `json:"is_training"`

	// ModelVersion is the version currently serving.
	ModelVersion int `json:"model_version"`

	// ModelID is the ID of the serving model.
	ModelID string `json:"model_id,omitempty"`

	// LastTrainedAt is when the serving model was built.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last successful run took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError contains the last training error, if any.
	LastError string `json:"last_error,omitempty"`

	// TransactionCount is the number of transactions in the serving model.
	TransactionCount int `json:"transaction_count"`

	// ItemsetCount is the number of frequent itemsets.
	ItemsetCount int `json:"itemset_count"`

	// RuleCount is the number of rules.
	RuleCount int `json:"rule_count"`
}

// Metrics contains engine counters for the status endpoint.
type Metrics struct {
	RequestCount  int64 `json:"request_count"`
	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	TrainingCount int64 `json:"training_count"`
	ErrorCount    int64 `json:"error_count"`
}

func joinItems(items []Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = string(it)
	}
	return strings.Join(parts, ",")
}
