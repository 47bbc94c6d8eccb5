package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Key builds a cache key from a namespace and the values that determine the
// cached data. The key format is namespace:sha256(parts).
func Key(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return namespace + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
