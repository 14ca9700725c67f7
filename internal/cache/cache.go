// Package cache provides byte-level caching with memory, disk and layered
// backends. Fetched pages and computed reports are cached under separate
// namespaces so either can be invalidated without touching the other.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the interface shared by all backends.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key builds a namespaced cache key from its parts. Parts are hashed with
// separators so ("ab","c") and ("a","bc") cannot collide.
func Key(namespace string, parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "claimgraph:v1:" + namespace + ":" + hex.EncodeToString(h.Sum(nil))
}
