// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

// Key prefixes for BadgerDB storage
const (
	metaKeyPrefix = "model:meta:"
	dataKeyPrefix = "model:data:"
	latestKey     = "model:latest"
)

// ErrModelNotFound is returned when a requested model version is not stored.
var ErrModelNotFound = errors.New("model not found")

// ErrChecksumMismatch is returned when stored model data fails verification.
var ErrChecksumMismatch = errors.New("model checksum mismatch")

// Ensure Store satisfies the engine's persistence interface.
var _ recommend.ModelStore = (*Store)(nil)

// Config configures a badger-backed Store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in memory. Used by tests and the CLI.
	InMemory bool

	// SyncWrites fsyncs every write.
	SyncWrites bool
}

// ModelMetadata describes a stored model without its rules.
type ModelMetadata struct {
	// ID is the training run ID.
	ID string `json:"id"`

	// Version is the model version.
	Version int `json:"version"`

	// TrainedAt is when the model was built.
	TrainedAt time.Time `json:"trained_at"`

	// SavedAt is when the model was written.
	SavedAt time.Time `json:"saved_at"`

	// Transactions is the number of transactions mined.
	Transactions int `json:"transactions"`

	// MinSupport is the support threshold used for mining.
	MinSupport float64 `json:"min_support"`

	// Itemsets is the number of frequent itemsets.
	Itemsets int `json:"itemsets"`

	// Rules is the number of rules.
	Rules int `json:"rules"`

	// Checksum is the SHA-256 checksum of the uncompressed model JSON.
	Checksum string `json:"checksum"`

	// SizeBytes is the compressed model size in bytes.
	SizeBytes int64 `json:"size_bytes"`
}

// Store implements recommend.ModelStore using BadgerDB.
type Store struct {
	db     *badger.DB
	ownsDB bool
	mu     sync.Mutex
}

// Open opens (or creates) a BadgerDB-backed store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("storage path is required")
	}

	opts := badger.DefaultOptions(cfg.Path).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &Store{db: db, ownsDB: true}, nil
}

// NewStore wraps an already open BadgerDB. Close will not close db.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Close closes the underlying database if the store opened it.
func (s *Store) Close() error {
	if !s.ownsDB {
		return nil
	}
	return s.db.Close()
}

func versionKey(prefix string, version int) []byte {
	return []byte(fmt.Sprintf("%s%010d", prefix, version))
}

// Save stores a model. The latest pointer moves only forward.
func (s *Store) Save(ctx context.Context, model *recommend.Model) error {
	if model == nil {
		return errors.New("model is nil")
	}
	if model.Version < 1 {
		return fmt.Errorf("invalid model version %d", model.Version)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("marshal model: %w", err)
	}
	hash := sha256.Sum256(raw)

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(raw); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	meta := ModelMetadata{
		ID:           model.ID,
		Version:      model.Version,
		TrainedAt:    model.TrainedAt,
		SavedAt:      time.Now().UTC(),
		Transactions: model.Transactions,
		MinSupport:   model.MinSupport,
		Itemsets:     len(model.Itemsets),
		Rules:        model.Rules.Len(),
		Checksum:     hex.EncodeToString(hash[:]),
		SizeBytes:    int64(compressed.Len()),
	}
	metaData, err := json.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(versionKey(dataKeyPrefix, model.Version), compressed.Bytes()); err != nil {
			return fmt.Errorf("set model data: %w", err)
		}
		if err := txn.Set(versionKey(metaKeyPrefix, model.Version), metaData); err != nil {
			return fmt.Errorf("set model metadata: %w", err)
		}

		current, err := latestVersion(txn)
		if err != nil {
			return err
		}
		if model.Version >= current {
			if err := txn.Set([]byte(latestKey), []byte(strconv.Itoa(model.Version))); err != nil {
				return fmt.Errorf("set latest pointer: %w", err)
			}
		}
		return nil
	})
}

// latestVersion returns the latest pointer, or 0 when unset.
func latestVersion(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(latestKey))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get latest pointer: %w", err)
	}

	var version int
	err = item.Value(func(val []byte) error {
		v, err := strconv.Atoi(string(val))
		version = v
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("parse latest pointer: %w", err)
	}
	return version, nil
}

// Load returns the model with the given version and its metadata.
func (s *Store) Load(ctx context.Context, version int) (*recommend.Model, *ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		meta       ModelMetadata
		compressed []byte
	)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(versionKey(metaKeyPrefix, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model metadata: %w", err)
		}
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return fmt.Errorf("decode model metadata: %w", err)
		}

		item, err = txn.Get(versionKey(dataKeyPrefix, version))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		}
		if err != nil {
			return fmt.Errorf("get model data: %w", err)
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, nil, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	raw, err := io.ReadAll(gzr)
	if err != nil {
		return nil, nil, fmt.Errorf("read decompressed model: %w", err)
	}

	hash := sha256.Sum256(raw)
	if got := hex.EncodeToString(hash[:]); got != meta.Checksum {
		return nil, nil, fmt.Errorf("%w: version %d: expected %s, got %s", ErrChecksumMismatch, version, meta.Checksum, got)
	}

	var model recommend.Model
	if err := json.Unmarshal(raw, &model); err != nil {
		return nil, nil, fmt.Errorf("decode model: %w", err)
	}
	return &model, &meta, nil
}

// Latest returns the newest model, or nil when the store is empty.
func (s *Store) Latest(ctx context.Context) (*recommend.Model, error) {
	var version int
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		version, err = latestVersion(txn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if version == 0 {
		return nil, nil
	}

	model, _, err := s.Load(ctx, version)
	if err != nil {
		return nil, err
	}
	return model, nil
}

// List returns metadata for every stored model, oldest first.
func (s *Store) List(ctx context.Context) ([]ModelMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var models []ModelMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var meta ModelMetadata
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &meta)
			})
			if err != nil {
				return fmt.Errorf("decode model metadata: %w", err)
			}
			models = append(models, meta)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return models, nil
}

// Delete removes one model version. Deleting the latest version moves the
// latest pointer to the newest remaining model.
func (s *Store) Delete(ctx context.Context, version int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(versionKey(metaKeyPrefix, version)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrModelNotFound
		} else if err != nil {
			return fmt.Errorf("get model metadata: %w", err)
		}

		if err := txn.Delete(versionKey(metaKeyPrefix, version)); err != nil {
			return fmt.Errorf("delete model metadata: %w", err)
		}
		if err := txn.Delete(versionKey(dataKeyPrefix, version)); err != nil {
			return fmt.Errorf("delete model data: %w", err)
		}

		current, err := latestVersion(txn)
		if err != nil || current != version {
			return err
		}

		newest := 0
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(metaKeyPrefix)
		seek := append([]byte(metaKeyPrefix), 0xff)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			v, err := strconv.Atoi(string(it.Item().Key()[len(prefix):]))
			if err != nil || v == version {
				continue
			}
			newest = v
			break
		}

		if newest == 0 {
			return txn.Delete([]byte(latestKey))
		}
		return txn.Set([]byte(latestKey), []byte(strconv.Itoa(newest)))
	})
}

// Prune deletes all but the newest keep versions and returns how many were
// removed. keep < 1 is treated as 1.
func (s *Store) Prune(ctx context.Context, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	models, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(models) <= keep {
		return 0, nil
	}

	removed := 0
	for _, meta := range models[:len(models)-keep] {
		if err := s.Delete(ctx, meta.Version); err != nil {
			return removed, fmt.Errorf("prune version %d: %w", meta.Version, err)
		}
		removed++
	}
	return removed, nil
}

// RunGC reclaims value log space left behind by deleted model versions.
// It repeats until badger reports nothing left to rewrite. In-memory stores
// have no value log and return nil.
func (s *Store) RunGC(discardRatio float64) error {
	if discardRatio <= 0 || discardRatio >= 1 {
		discardRatio = 0.5
	}
	for {
		err := s.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run value log gc: %w", err)
		}
	}
}
