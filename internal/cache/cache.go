package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/zw021029/know-more-about-our-futures/internal/model"
)

// Cache defines the interface for caching annotation results.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a namespace and the sentence text.
// Sentences are hashed: they are arbitrary user text and must not leak into
// file names.
func Key(namespace, sentence string) string {
	hash := sha256.Sum256([]byte(sentence))
	return "factfuse:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}

// New builds a cache from configuration: memory-only by default, layered
// with a disk tier when a directory is configured. Returns nil when caching
// is disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.Dir != "" {
		return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
	}
	return NewMemoryCache(cfg.MemoryTTL, 10*time.Minute)
}
