// internal/kv/cacheaside_test.go
//
// Unit-tests for the generic cache-aside helper and the in-memory store.
//
// Run: go test ./internal/kv -v

package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yanizio/storefront/internal/metrics"
)

func TestGetOrLoad_MissThenHit(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (string, error) {
		loads++
		return "hello", nil
	}

	got, err := GetOrLoad(ctx, store, "k", time.Minute, load)
	if err != nil {
		t.Fatalf("first GetOrLoad: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}

	got, err = GetOrLoad(ctx, store, "k", time.Minute, load)
	if err != nil {
		t.Fatalf("second GetOrLoad: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if loads != 1 {
		t.Fatalf("loader ran %d times, want 1", loads)
	}
}

func TestGetOrLoad_CountsDistributedTier(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	hits := testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("redis"))
	misses := testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("redis"))

	load := func(context.Context) (string, error) { return "hello", nil }
	if _, err := GetOrLoad(ctx, store, "k", time.Minute, load); err != nil {
		t.Fatalf("miss GetOrLoad: %v", err)
	}
	if _, err := GetOrLoad(ctx, store, "k", time.Minute, load); err != nil {
		t.Fatalf("hit GetOrLoad: %v", err)
	}

	if d := testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("redis")) - misses; d != 1 {
		t.Fatalf("redis misses grew by %v, want 1", d)
	}
	if d := testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("redis")) - hits; d != 1 {
		t.Fatalf("redis hits grew by %v, want 1", d)
	}

	// A corrupt entry counts as a miss, not a hit.
	if err := store.Set(ctx, "bad", []byte("{not json"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}
	misses = testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("redis"))
	if _, err := GetOrLoad(ctx, store, "bad", time.Minute, load); err != nil {
		t.Fatalf("corrupt GetOrLoad: %v", err)
	}
	if d := testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("redis")) - misses; d != 1 {
		t.Fatalf("corrupt entry grew misses by %v, want 1", d)
	}
}

func TestGetOrLoad_LoaderErrorPassesThrough(t *testing.T) {
	store := NewMemory()
	sentinel := errors.New("registry down")

	_, err := GetOrLoad(context.Background(), store, "k", time.Minute,
		func(context.Context) (int, error) { return 0, sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel to pass through", err)
	}
	if store.Sets != 0 {
		t.Fatalf("failed load must not populate the cache, got %d sets", store.Sets)
	}
}

func TestGetOrLoad_CorruptEntryReloaded(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("{not json"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}

	type rec struct{ Name string }
	got, err := GetOrLoad(ctx, store, "k", time.Minute,
		func(context.Context) (rec, error) { return rec{Name: "fresh"}, nil })
	if err != nil {
		t.Fatalf("GetOrLoad: %v", err)
	}
	if got.Name != "fresh" {
		t.Fatalf("got %q, want reload to win over corrupt entry", got.Name)
	}
}

func TestMemory_DeletePrefix(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.Set(ctx, "products:7:{}", []byte("a"), time.Minute)
	_ = store.Set(ctx, "products:7:{\"limit\":4}", []byte("b"), time.Minute)
	_ = store.Set(ctx, "products:8:{}", []byte("c"), time.Minute)

	n, err := store.DeletePrefix(ctx, "products:7:")
	if err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted %d keys, want 2", n)
	}
	if _, err := store.Get(ctx, "products:8:{}"); err != nil {
		t.Fatalf("unrelated tenant key was deleted: %v", err)
	}
}

func TestMemory_TTLExpiry(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	_ = store.Set(ctx, "k", []byte("v"), time.Nanosecond)
	time.Sleep(2 * time.Millisecond)

	if _, err := store.Get(ctx, "k"); !errors.Is(err, ErrMiss) {
		t.Fatalf("expired key returned %v, want ErrMiss", err)
	}
}
