package usercache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/msgsearch/internal/domain/user"
)

func TestGet_MissThenHit(t *testing.T) {
	c, counter := newTestCache(t, Config{}, nil)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "42"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Put(ctx, user.New("42", "alice", "abc"))
	got, ok := c.Get(ctx, "42")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Username() != "alice" || got.Avatar() != "https://cdn.discordapp.com/avatars/42/abc.png" {
		t.Errorf("unexpected user: %+v", got)
	}

	if v := testutil.ToFloat64(counter.WithLabelValues("miss")); v != 1 {
		t.Errorf("miss = %v, want 1", v)
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit = %v, want 1", v)
	}
}

func TestFallback_ExpiresSooner(t *testing.T) {
	c, _ := newTestCache(t, Config{ResolvedTTL: time.Hour, FallbackTTL: 20 * time.Millisecond}, nil)
	ctx := context.Background()

	c.Put(ctx, user.Fallback("1111"))
	c.Put(ctx, user.New("2222", "bob", ""))

	if _, ok := c.Get(ctx, "1111"); !ok {
		t.Fatal("fallback should be cached initially")
	}

	time.Sleep(50 * time.Millisecond)

	if _, ok := c.Get(ctx, "1111"); ok {
		t.Error("fallback should have expired")
	}
	if _, ok := c.Get(ctx, "2222"); !ok {
		t.Error("resolved user should still be cached")
	}
}

func TestResolvedSupersedesFallback(t *testing.T) {
	c, _ := newTestCache(t, Config{}, nil)
	ctx := context.Background()

	c.Put(ctx, user.Fallback("123456"))
	c.Put(ctx, user.New("123456", "carol", ""))

	got, ok := c.Get(ctx, "123456")
	if !ok || got.IsFallback() {
		t.Fatalf("expected resolved identity, got %+v ok=%v", got, ok)
	}
	if resolved, fallback := c.Len(); resolved != 1 || fallback != 0 {
		t.Errorf("Len() = %d/%d, want 1/0", resolved, fallback)
	}
}

func TestCapacity_EvictsOldest(t *testing.T) {
	c, _ := newTestCache(t, Config{Capacity: 2}, nil)
	ctx := context.Background()

	c.Put(ctx, user.New("1", "a", ""))
	c.Put(ctx, user.New("2", "b", ""))
	c.Put(ctx, user.New("3", "c", ""))

	if _, ok := c.Get(ctx, "1"); ok {
		t.Error("oldest entry should be evicted")
	}
	if _, ok := c.Get(ctx, "3"); !ok {
		t.Error("newest entry should be present")
	}
}

func TestShared_WritesWithKindTTL(t *testing.T) {
	kv := newMockKVStore()
	c, _ := newTestCache(t, Config{ResolvedTTL: time.Hour, FallbackTTL: time.Minute}, kv)
	ctx := context.Background()

	c.Put(ctx, user.New("10", "dave", "hash"))
	c.Put(ctx, user.Fallback("20"))

	if ttl := kv.ttls[keyPrefix+"10"]; ttl != time.Hour {
		t.Errorf("resolved ttl = %v", ttl)
	}
	if ttl := kv.ttls[keyPrefix+"20"]; ttl != time.Minute {
		t.Errorf("fallback ttl = %v", ttl)
	}

	var e entry
	if err := json.Unmarshal(kv.data[keyPrefix+"20"], &e); err != nil {
		t.Fatalf("stored entry: %v", err)
	}
	if e.Avatar != nil || !e.Fallback || e.Username != "User 20" {
		t.Errorf("unexpected fallback entry: %+v", e)
	}
}

func TestShared_HitPopulatesMemory(t *testing.T) {
	kv := newMockKVStore()
	kv.data[keyPrefix+"77"] = []byte(`{"id":"77","username":"eve","avatar":"https://cdn.discordapp.com/avatars/77/x.png"}`)

	c, _ := newTestCache(t, Config{}, kv)
	ctx := context.Background()

	got, ok := c.Get(ctx, "77")
	if !ok || got.Username() != "eve" {
		t.Fatalf("expected shared hit, got %+v ok=%v", got, ok)
	}
	if resolved, _ := c.Len(); resolved != 1 {
		t.Errorf("memory tier not populated: %d", resolved)
	}
}

func TestShared_ErrorsDegradeToMiss(t *testing.T) {
	kv := newMockKVStore()
	kv.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	kv.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	c, _ := newTestCache(t, Config{}, kv)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "1"); ok {
		t.Fatal("expected miss")
	}
	c.Put(ctx, user.New("1", "frank", ""))
	if _, ok := c.Get(ctx, "1"); !ok {
		t.Error("memory tier must still serve after shared write failure")
	}
}

func TestShared_CorruptEntryIsMiss(t *testing.T) {
	kv := newMockKVStore()
	kv.data[keyPrefix+"5"] = []byte(`not json`)

	c, _ := newTestCache(t, Config{}, kv)
	if _, ok := c.Get(context.Background(), "5"); ok {
		t.Fatal("corrupt entry must be a miss")
	}
	if len(kv.dels) != 1 || kv.dels[0] != keyPrefix+"5" {
		t.Errorf("corrupt entry must be deleted, dels = %v", kv.dels)
	}
	if _, ok := kv.data[keyPrefix+"5"]; ok {
		t.Error("corrupt entry still present")
	}
}

func TestShared_MismatchedEntryIsDropped(t *testing.T) {
	kv := newMockKVStore()
	kv.data[keyPrefix+"6"] = []byte(`{"id":"7","username":"someone else"}`)

	c, _ := newTestCache(t, Config{}, kv)
	if _, ok := c.Get(context.Background(), "6"); ok {
		t.Fatal("entry for another id must be a miss")
	}
	if len(kv.dels) != 1 {
		t.Errorf("dels = %v", kv.dels)
	}
}
