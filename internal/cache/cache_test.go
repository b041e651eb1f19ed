package cache

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tunescout/tunescout/internal/recommend"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleItems() []recommend.Item {
	return []recommend.Item{
		{Artist: "Low", Album: "Secret Name", Genre: "slowcore"},
		{Artist: "Slint", Album: "Spiderland"},
	}
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put("key1", "ollama:llama3.1", sampleItems()); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry, ok, err := s.Get("key1", 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a hit")
	}
	if entry.ModelKey != "ollama:llama3.1" {
		t.Errorf("model key: got %q", entry.ModelKey)
	}
	if len(entry.Items) != 2 || entry.Items[0].Artist != "Low" {
		t.Errorf("items round-trip: %+v", entry.Items)
	}
}

func TestStore_Get_Miss(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Get("absent", 0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a miss")
	}
}

func TestStore_Put_Replaces(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put("key1", "m1", sampleItems()); err != nil {
		t.Fatal(err)
	}
	if err := s.Put("key1", "m2", sampleItems()[:1]); err != nil {
		t.Fatal(err)
	}
	entry, ok, _ := s.Get("key1", 0)
	if !ok || entry.ModelKey != "m2" || len(entry.Items) != 1 {
		t.Errorf("expected replacement, got %+v ok=%v", entry, ok)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put("key1", "m", sampleItems()); err != nil {
		t.Fatal(err)
	}
	// A generous TTL keeps the entry visible.
	if _, ok, _ := s.Get("key1", time.Hour); !ok {
		t.Error("entry should be fresh within the TTL")
	}
	// A nanosecond TTL ages it out immediately.
	time.Sleep(10 * time.Millisecond)
	if _, ok, _ := s.Get("key1", time.Nanosecond); ok {
		t.Error("entry should be expired")
	}
}

func TestStore_Cached_ComputesOncePerKey(t *testing.T) {
	s := openTestStore(t)

	var calls atomic.Int32
	compute := func() ([]recommend.Item, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return sampleItems(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			items, err := s.Cached("shared", "m", time.Hour, compute)
			if err != nil {
				t.Errorf("Cached: %v", err)
				return
			}
			if len(items) != 2 {
				t.Errorf("got %d items, want 2", len(items))
			}
		}()
	}
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("compute ran %d times for one key, want 1", got)
	}

	// A later call hits the stored row without recomputing.
	if _, err := s.Cached("shared", "m", time.Hour, compute); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("compute ran %d times after warm cache, want 1", got)
	}
}

func TestStore_Cached_ErrorNotCached(t *testing.T) {
	s := openTestStore(t)

	boom := errors.New("provider down")
	if _, err := s.Cached("k", "m", time.Hour, func() ([]recommend.Item, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Errorf("expected compute error, got %v", err)
	}

	// The failure left nothing behind; the next call recomputes.
	items, err := s.Cached("k", "m", time.Hour, func() ([]recommend.Item, error) {
		return sampleItems(), nil
	})
	if err != nil || len(items) != 2 {
		t.Errorf("recompute after failure: items=%v err=%v", items, err)
	}
}

func TestStore_Prune(t *testing.T) {
	s := openTestStore(t)
	if err := s.Put("old", "m", sampleItems()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)

	n, err := s.Prune(time.Nanosecond)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d rows, want 1", n)
	}
	if _, ok, _ := s.Get("old", 0); ok {
		t.Error("pruned entry should be gone")
	}
}
