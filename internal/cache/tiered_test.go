package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestManagerLookupMiss(t *testing.T) {
	manager := newTestManager(t)

	payload, tier, err := manager.Lookup(context.Background(), "missing")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if tier != TierNone || payload != nil {
		t.Fatalf("expected clean miss, got tier=%q payload=%q", tier, payload)
	}
}

func TestManagerStoreThenLookup(t *testing.T) {
	manager := newTestManager(t)

	if err := manager.Store(context.Background(), "key", []byte("var x = 1;")); err != nil {
		t.Fatalf("store error: %v", err)
	}

	payload, tier, err := manager.Lookup(context.Background(), "key")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if tier != TierMemory {
		t.Fatalf("expected memory hit after store, got %q", tier)
	}
	if string(payload) != "var x = 1;" {
		t.Fatalf("payload mismatch: %s", string(payload))
	}
}

func TestManagerDiskPromotion(t *testing.T) {
	disk := newTestStore(t)
	memory := NewMemory(10, time.Minute)
	t.Cleanup(memory.Stop)
	manager := NewManager(memory, disk)

	// 条目只存在于磁盘层，模拟进程重启后的首次访问。
	if err := disk.Put(context.Background(), "key", []byte("var x = 1;")); err != nil {
		t.Fatalf("seed disk error: %v", err)
	}

	payload, tier, err := manager.Lookup(context.Background(), "key")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if tier != TierDisk {
		t.Fatalf("expected disk hit, got %q", tier)
	}
	if string(payload) != "var x = 1;" {
		t.Fatalf("payload mismatch: %s", string(payload))
	}

	// 回填后第二次查找应落在内存层。
	if _, ok := memory.Get("key"); !ok {
		t.Fatalf("expected write-through promotion into memory")
	}
	_, tier, err = manager.Lookup(context.Background(), "key")
	if err != nil {
		t.Fatalf("second lookup error: %v", err)
	}
	if tier != TierMemory {
		t.Fatalf("expected memory hit after promotion, got %q", tier)
	}
}

func TestManagerEvictedEntryFallsBackToDisk(t *testing.T) {
	disk := newTestStore(t)
	memory := NewMemory(1, time.Minute)
	t.Cleanup(memory.Stop)
	manager := NewManager(memory, disk)

	if err := manager.Store(context.Background(), "first", []byte("a")); err != nil {
		t.Fatalf("store error: %v", err)
	}
	if err := manager.Store(context.Background(), "second", []byte("b")); err != nil {
		t.Fatalf("store error: %v", err)
	}

	// 容量为 1，first 已被逐出内存，但仍能从磁盘命中。
	payload, tier, err := manager.Lookup(context.Background(), "first")
	if err != nil {
		t.Fatalf("lookup error: %v", err)
	}
	if tier != TierDisk {
		t.Fatalf("expected disk fallback after eviction, got %q", tier)
	}
	if string(payload) != "a" {
		t.Fatalf("payload mismatch: %s", string(payload))
	}
}

func TestManagerStoreFailureLeavesMemoryUntouched(t *testing.T) {
	memory := NewMemory(10, time.Minute)
	t.Cleanup(memory.Stop)
	manager := NewManager(memory, failingStore{})

	err := manager.Store(context.Background(), "key", []byte("payload"))
	if err == nil {
		t.Fatalf("expected store failure")
	}
	if _, ok := memory.Get("key"); ok {
		t.Fatalf("memory must not be populated when the disk write fails")
	}
}

func TestManagerDiskErrorSurfaces(t *testing.T) {
	memory := NewMemory(10, time.Minute)
	t.Cleanup(memory.Stop)
	manager := NewManager(memory, failingStore{})

	if _, _, err := manager.Lookup(context.Background(), "key"); err == nil {
		t.Fatalf("expected disk read error to surface")
	}
}

type failingStore struct{}

var errDiskBroken = errors.New("disk broken")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDiskBroken }
func (failingStore) Put(context.Context, string, []byte) error   { return errDiskBroken }

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	memory := NewMemory(10, time.Minute)
	t.Cleanup(memory.Stop)
	return NewManager(memory, newTestStore(t))
}
