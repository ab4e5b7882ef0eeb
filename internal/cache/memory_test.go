package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestMemoryGetSet(t *testing.T) {
	mem := NewMemory(10, time.Minute)
	defer mem.Stop()

	if _, ok := mem.Get("missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}

	mem.Set("key", []byte("payload"))
	got, ok := mem.Get("key")
	if !ok {
		t.Fatalf("expected hit after set")
	}
	if string(got) != "payload" {
		t.Fatalf("payload mismatch: %s", string(got))
	}
	if mem.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", mem.Len())
	}
}

func TestMemoryExpiry(t *testing.T) {
	mem := NewMemory(10, 30*time.Millisecond)
	defer mem.Stop()

	mem.Set("key", []byte("payload"))
	if _, ok := mem.Get("key"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	time.Sleep(60 * time.Millisecond)
	if _, ok := mem.Get("key"); ok {
		t.Fatalf("expected miss after ttl elapsed")
	}
}

func TestMemoryExpiryNotExtendedByReads(t *testing.T) {
	mem := NewMemory(10, 80*time.Millisecond)
	defer mem.Stop()

	mem.Set("key", []byte("payload"))
	// 持续读取也不应推迟过期时刻。
	for i := 0; i < 4; i++ {
		time.Sleep(30 * time.Millisecond)
		mem.Get("key")
	}
	if _, ok := mem.Get("key"); ok {
		t.Fatalf("reads must not extend the ttl")
	}
}

func TestMemoryCapacityEvictsLRU(t *testing.T) {
	mem := NewMemory(3, time.Minute)
	defer mem.Stop()

	for i := 0; i < 3; i++ {
		mem.Set(fmt.Sprintf("key-%d", i), []byte("v"))
	}

	// 访问 key-0，使 key-1 成为最久未使用的条目。
	if _, ok := mem.Get("key-0"); !ok {
		t.Fatalf("expected key-0 present")
	}

	mem.Set("key-3", []byte("v"))

	if _, ok := mem.Get("key-1"); ok {
		t.Fatalf("expected key-1 evicted as LRU victim")
	}
	for _, key := range []string{"key-0", "key-2", "key-3"} {
		if _, ok := mem.Get(key); !ok {
			t.Fatalf("expected %s to survive eviction", key)
		}
	}
}
