package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface shared by the probe and search result caches
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a namespaced cache key for a probe or search lookup
func Key(kind, value string) string {
	hash := sha256.Sum256([]byte(value))
	return "veridraft:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}
