package cache

import (
	"testing"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

func TestKey_StableAndDistinct(t *testing.T) {
	k1 := Key("annotate", "同一句话。")
	k2 := Key("annotate", "同一句话。")
	k3 := Key("annotate", "另一句话。")
	k4 := Key("classify", "同一句话。")

	if k1 != k2 {
		t.Error("same namespace and sentence must produce the same key")
	}
	if k1 == k3 {
		t.Error("different sentences must produce different keys")
	}
	if k1 == k4 {
		t.Error("different namespaces must produce different keys")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	key := Key("annotate", "句子。")

	if _, found := c.Get(key); found {
		t.Error("unexpected hit on empty cache")
	}

	if err := c.Set(key, []byte("payload"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("expected payload, got %q (found=%v)", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("hit after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)
	key := Key("annotate", "句子。")

	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Errorf("expected payload, got %q (found=%v)", val, found)
	}

	// An already-expired entry is dropped on read.
	if err := c.Set(key, []byte("stale"), -time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("expired entry should not be returned")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed only the disk tier.
	disk := NewDiskCache(dir, time.Minute)
	key := Key("annotate", "句子。")
	if err := disk.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	layered := NewLayeredCache(time.Minute, dir, time.Minute)
	val, found := layered.Get(key)
	if !found || string(val) != "payload" {
		t.Fatalf("expected disk hit, got %q (found=%v)", val, found)
	}

	// A second read should come from memory even after the disk entry is gone.
	_ = disk.Delete(key)
	if _, found := layered.Get(key); !found {
		t.Error("expected promoted memory hit after disk delete")
	}
}

func TestNew_FromConfig(t *testing.T) {
	if c := New(model.CacheConfig{Enabled: false}); c != nil {
		t.Error("disabled cache config must yield nil")
	}

	if c := New(model.CacheConfig{Enabled: true, MemoryTTL: time.Minute}); c == nil {
		t.Error("expected memory cache")
	} else if _, ok := c.(*MemoryCache); !ok {
		t.Errorf("expected *MemoryCache, got %T", c)
	}

	c := New(model.CacheConfig{Enabled: true, Dir: t.TempDir(), MemoryTTL: time.Minute, DiskTTL: time.Hour})
	if _, ok := c.(*LayeredCache); !ok {
		t.Errorf("expected *LayeredCache, got %T", c)
	}
}
