// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Note: This package has no dependencies on other internal packages. The
// TransactionSource and ModelStore interfaces let the database and storage
// layers plug in without circular imports.

// Engine owns the serving model: it trains a model from a transaction source,
// swaps it in atomically and answers recommendation queries against it.
// It is safe for concurrent use. Queries never block on training.
type Engine struct {
	config *Config
	logger zerolog.Logger

	miner     Miner
	generator RuleGenerator
	source    TransactionSource
	store     ModelStore
	onTrain   func(m *Model, took time.Duration, err error)

	model    atomic.Pointer[Model]
	training atomic.Bool
	group    singleflight.Group

	statusMu sync.RWMutex
	status   TrainingStatus

	cache *expirable.LRU[string, []ScoredItem]

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	trainingCount atomic.Int64
	errorCount    atomic.Int64
}

// Response is the result of a recommendation query.
type Response struct {
	// Items are the recommendations, best first.
	Items []ScoredItem `json:"items"`

	// Basket is the normalized input transaction.
	Basket Transaction `json:"basket"`

	// ModelVersion is the version of the model that answered.
	ModelVersion int `json:"model_version"`

	// CacheHit reports whether the response came from the cache.
	CacheHit bool `json:"cache_hit"`
}

// StaticSource serves a fixed slice of transactions. The CLI uses it to
// train from a CSV file without a database.
type StaticSource []Transaction

// LoadTransactions returns the transactions.
func (s StaticSource) LoadTransactions(context.Context) ([]Transaction, error) {
	return s, nil
}

// NewEngine creates an engine. miner and generator are required.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, miner Miner, generator RuleGenerator, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if miner == nil || generator == nil {
		return nil, errors.New("miner and rule generator are required")
	}

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		miner:     miner,
		generator: generator,
	}
	if cfg.Cache.Enabled {
		e.cache = expirable.NewLRU[string, []ScoredItem](cfg.Cache.MaxEntries, nil, cfg.Cache.TTL)
	}
	return e, nil
}

// SetTransactionSource sets where Train loads transactions from.
func (e *Engine) SetTransactionSource(src TransactionSource) {
	e.source = src
}

// SetModelStore enables model persistence.
func (e *Engine) SetModelStore(store ModelStore) {
	e.store = store
}

// SetTrainHook registers fn to run after every training attempt, with the
// new model on success or the error on failure. It runs on the training
// goroutine, so it must not call Train.
func (e *Engine) SetTrainHook(fn func(m *Model, took time.Duration, err error)) {
	e.onTrain = fn
}

// Restore loads the latest persisted model, if any, and starts serving it.
// It returns false when the store holds no model.
func (e *Engine) Restore(ctx context.Context) (bool, error) {
	if e.store == nil {
		return false, nil
	}
	m, err := e.store.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load latest model: %w", err)
	}
	if m == nil {
		return false, nil
	}

	e.install(m, 0)
	e.logger.Info().
		Int("version", m.Version).
		Int("rules", m.Rules.Len()).
		Msg("restored persisted model")
	return true, nil
}

// Train loads transactions from the source and builds a new model.
// Concurrent callers share a single run and its result.
func (e *Engine) Train(ctx context.Context) (*Model, error) {
	v, err, _ := e.group.Do("train", func() (any, error) {
		return e.train(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Model), nil
}

// TryTrain is Train that refuses to join a run already in progress.
func (e *Engine) TryTrain(ctx context.Context) (*Model, error) {
	if e.training.Load() {
		return nil, ErrTrainingInProgress
	}
	return e.Train(ctx)
}

func (e *Engine) train(ctx context.Context) (m *Model, err error) {
	if e.source == nil {
		return nil, errors.New("transaction source not set")
	}
	if !e.training.CompareAndSwap(false, true) {
		return nil, ErrTrainingInProgress
	}
	defer e.training.Store(false)

	start := time.Now()
	if e.onTrain != nil {
		defer func() { e.onTrain(m, time.Since(start), err) }()
	}
	e.setTraining(true)
	defer e.setTraining(false)

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	txs, err := e.source.LoadTransactions(trainCtx)
	if err != nil {
		return nil, e.fail(fmt.Errorf("load transactions: %w", err))
	}

	m, err = e.Build(trainCtx, txs)
	if err != nil {
		return nil, e.fail(err)
	}

	if e.store != nil {
		if err := e.store.Save(trainCtx, m); err != nil {
			e.logger.Error().Err(err).Int("version", m.Version).Msg("failed to persist model")
		}
	}

	e.install(m, time.Since(start))
	e.trainingCount.Add(1)

	e.logger.Info().
		Int("version", m.Version).
		Int("transactions", m.Transactions).
		Int("itemsets", len(m.Itemsets)).
		Int("rules", m.Rules.Len()).
		Dur("duration", time.Since(start)).
		Msg("model training complete")
	return m, nil
}

// Build mines txs into a new model without installing it. The returned
// model's Version is one above the serving model's.
func (e *Engine) Build(ctx context.Context, txs []Transaction) (*Model, error) {
	if len(txs) < e.config.Training.MinTransactions {
		return nil, fmt.Errorf("%w: %d < %d transactions", ErrInsufficientData, len(txs), e.config.Training.MinTransactions)
	}

	db, err := NewDatabase(txs)
	if err != nil {
		return nil, fmt.Errorf("build database: %w", err)
	}

	e.logger.Debug().
		Int("transactions", db.Len()).
		Int("items", db.NumItems()).
		Str("miner", e.miner.Name()).
		Msg("mining frequent itemsets")

	itemsets, err := e.miner.Mine(ctx, db, e.config.Mining.MinSupport)
	if err != nil {
		return nil, fmt.Errorf("mine itemsets: %w", err)
	}

	rules, err := e.generator.Generate(ctx, itemsets, e.config.Rules.Metric, e.config.Rules.MinThreshold)
	if err != nil {
		return nil, fmt.Errorf("generate rules: %w", err)
	}

	version := 1
	if cur := e.model.Load(); cur != nil {
		version = cur.Version + 1
	}

	return &Model{
		ID:           uuid.New().String(),
		Version:      version,
		TrainedAt:    time.Now().UTC(),
		Transactions: db.Len(),
		MinSupport:   e.config.Mining.MinSupport,
		Itemsets:     itemsets,
		Rules:        rules,
		ItemCounts:   db.ItemCounts(),
	}, nil
}

// install swaps m in as the serving model.
func (e *Engine) install(m *Model, took time.Duration) {
	e.model.Store(m)
	if e.cache != nil {
		e.cache.Purge()
	}

	e.statusMu.Lock()
	e.status.ModelVersion = m.Version
	e.status.ModelID = m.ID
	e.status.LastTrainedAt = m.TrainedAt
	e.status.TransactionCount = m.Transactions
	e.status.ItemsetCount = len(m.Itemsets)
	e.status.RuleCount = m.Rules.Len()
	e.status.LastError = ""
	if took > 0 {
		e.status.LastTrainingDurationMS = took.Milliseconds()
	}
	e.statusMu.Unlock()
}

func (e *Engine) setTraining(v bool) {
	e.statusMu.Lock()
	e.status.IsTraining = v
	e.statusMu.Unlock()
}

func (e *Engine) fail(err error) error {
	e.errorCount.Add(1)
	e.statusMu.Lock()
	e.status.LastError = err.Error()
	e.statusMu.Unlock()
	e.logger.Error().Err(err).Msg("model training failed")
	return err
}

// Recommend returns up to k items for the basket. k == 0 uses the configured
// default and k above the configured maximum is capped.
func (e *Engine) Recommend(_ context.Context, items []Item, k int) (*Response, error) {
	e.requestCount.Add(1)

	m := e.model.Load()
	if m == nil {
		return nil, ErrModelNotReady
	}

	tx, err := NewTransaction(items...)
	if err != nil {
		return nil, err
	}

	switch {
	case k < 0:
		return nil, &ConfigurationError{Field: "k", Value: k, Reason: "must be >= 0"}
	case k == 0:
		k = e.config.Limits.MaxRecommendations
	case k > e.config.Limits.MaxK:
		k = e.config.Limits.MaxK
	}

	key := strconv.Itoa(m.Version) + ":" + strconv.Itoa(k) + ":" + ItemsKey(tx)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.cacheHits.Add(1)
			return &Response{Items: slices.Clone(cached), Basket: tx, ModelVersion: m.Version, CacheHit: true}, nil
		}
		e.cacheMisses.Add(1)
	}

	scored, err := RecommendScored(tx, m.Rules, k)
	if err != nil {
		e.errorCount.Add(1)
		return nil, err
	}
	if e.cache != nil {
		e.cache.Add(key, slices.Clone(scored))
	}

	e.logger.Debug().
		Int("basket", len(tx)).
		Int("returned", len(scored)).
		Msg("recommendation complete")

	return &Response{Items: scored, Basket: tx, ModelVersion: m.Version}, nil
}

// CoOccurrence returns the item most often bought with item.
func (e *Engine) CoOccurrence(item Item) (CoOccurrence, bool, error) {
	m := e.model.Load()
	if m == nil {
		return CoOccurrence{}, false, ErrModelNotReady
	}
	c, ok := TopCoOccurring(m.Rules, item)
	return c, ok, nil
}

// Model returns the serving model, or nil before the first training run.
// The model must not be modified.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// Metrics returns engine counters.
func (e *Engine) Metrics() Metrics {
	return Metrics{
		RequestCount:  e.requestCount.Load(),
		CacheHits:     e.cacheHits.Load(),
		CacheMisses:   e.cacheMisses.Load(),
		TrainingCount: e.trainingCount.Load(),
		ErrorCount:    e.errorCount.Load(),
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
