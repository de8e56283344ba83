// Marketbasket - Association Rule Mining and Item Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marketbasket

package database

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/marketbasket/internal/recommend"
)

type flakySource struct {
	calls atomic.Int32
	err   error
}

func (s *flakySource) LoadTransactions(ctx context.Context) ([]recommend.Transaction, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []recommend.Transaction{tx("A", "B")}, nil
}

func TestBreakerSource_PassThrough(t *testing.T) {
	t.Parallel()

	src := &flakySource{}
	b := NewBreakerSource("test-pass-through", src)

	got, err := b.LoadTransactions(context.Background())
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if len(got) != 1 || b.State() != "closed" {
		t.Errorf("LoadTransactions() = %v, state %s", got, b.State())
	}
}

func TestBreakerSource_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	boom := errors.New("duckdb: connection lost")
	src := &flakySource{err: boom}
	b := NewBreakerSourceWithSettings("test-opens", src, BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Hour,
		ConsecutiveFailures: 2,
	})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := b.LoadTransactions(ctx); !errors.Is(err, boom) {
			t.Fatalf("call %d error = %v, want source error", i, err)
		}
	}
	if b.State() != "open" {
		t.Fatalf("State() = %s, want open", b.State())
	}

	_, err := b.LoadTransactions(ctx)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("LoadTransactions() while open error = %v, want ErrOpenState", err)
	}
	if src.calls.Load() != 2 {
		t.Errorf("source called %d times, want 2", src.calls.Load())
	}
}

func TestBreakerSource_CancellationDoesNotTrip(t *testing.T) {
	t.Parallel()

	src := &flakySource{err: context.Canceled}
	b := NewBreakerSourceWithSettings("test-cancel", src, BreakerSettings{
		MaxRequests:         1,
		Interval:            time.Minute,
		Timeout:             time.Hour,
		ConsecutiveFailures: 1,
	})

	for i := 0; i < 3; i++ {
		if _, err := b.LoadTransactions(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("State() = %s, want closed", b.State())
	}
}

func TestBreakerSource_WrapsDB(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)
	ctx := context.Background()

	if _, err := db.InsertTransactions(ctx, referenceBaskets()); err != nil {
		t.Fatalf("InsertTransactions() error = %v", err)
	}

	b := NewBreakerSource("test-duckdb", db)
	got, err := b.LoadTransactions(ctx)
	if err != nil {
		t.Fatalf("LoadTransactions() error = %v", err)
	}
	if len(got) != 5 {
		t.Errorf("LoadTransactions() returned %d baskets, want 5", len(got))
	}
}
