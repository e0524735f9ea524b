package rankcache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/assessrank/internal/db"
	"github.com/kailas-cloud/assessrank/internal/domain/search/result"
)

func TestGet_Miss(t *testing.T) {
	c, _, counter := newTestCache(t)

	entries, ok := c.Get(context.Background(), "fp", "java developer", 5)
	if ok || entries != nil {
		t.Fatalf("expected miss, got %v", entries)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss counter: got %v, want 1", got)
	}
}

func TestPutThenGet_Hit(t *testing.T) {
	c, ms, counter := newTestCache(t)
	stored := map[string][]byte{}
	var gotTTL time.Duration
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		stored[key] = value
		gotTTL = ttl
		return nil
	}
	ms.getFn = func(_ context.Context, key string) ([]byte, error) {
		v, ok := stored[key]
		if !ok {
			return nil, db.ErrKeyNotFound
		}
		return v, nil
	}

	want := []result.Ref{{Index: 3, Score: 0.75}, {Index: 0, Score: 0.5}, {Index: 7, Score: 0}}
	c.Put(context.Background(), "fp", "java developer", 3, want)

	if gotTTL != time.Minute {
		t.Errorf("ttl: got %v, want 1m", gotTTL)
	}

	got, ok := c.Get(context.Background(), "fp", "java developer", 3)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("hit")); v != 1 {
		t.Errorf("hit counter: got %v, want 1", v)
	}
}

func TestGet_StoreErrorIsMiss(t *testing.T) {
	c, ms, counter := newTestCache(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection reset")
	}

	if _, ok := c.Get(context.Background(), "fp", "q", 1); ok {
		t.Fatal("expected miss on store error")
	}
	if v := testutil.ToFloat64(counter.WithLabelValues("error")); v != 1 {
		t.Errorf("error counter: got %v, want 1", v)
	}
}

func TestGet_CorruptData(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte{1, 2, 3}, nil
	}

	if _, ok := c.Get(context.Background(), "fp", "q", 1); ok {
		t.Fatal("expected miss on corrupt data")
	}
}

func TestPut_ErrorSwallowed(t *testing.T) {
	c, ms, _ := newTestCache(t)
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("READONLY")
	}

	// Must not panic.
	c.Put(context.Background(), "fp", "q", 1, []result.Ref{{Index: 1, Score: 1}})
}

func TestKey(t *testing.T) {
	a := Key("fp1", "java", 5)
	if !strings.HasPrefix(a, "assessrank:rank:fp1:") {
		t.Errorf("unexpected prefix: %q", a)
	}
	if a != Key("fp1", "java", 5) {
		t.Error("key must be deterministic")
	}
	if a == Key("fp2", "java", 5) {
		t.Error("fingerprint must change the key")
	}
	if a == Key("fp1", "java", 6) {
		t.Error("k must change the key")
	}
	if Key("fp", "a1", 0) == Key("fp", "a", 10) {
		t.Error("query and k must not collide")
	}
}

func TestNilCounter(t *testing.T) {
	c := New(&mockKVStore{}, 0, nil, nil)
	// Miss path never touches the logger.
	if _, ok := c.Get(context.Background(), "fp", "q", 1); ok {
		t.Fatal("expected miss")
	}
}
