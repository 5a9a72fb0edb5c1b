package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hash"
)

// hashKey generates a cache key by hashing the components.
// The key format is: prefix:hash(parts...)
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	// Use full SHA-256 hash (64 hex chars / 256 bits) to prevent collisions
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Hasher accumulates the content hash of several inputs. Every part is
// length-prefixed, so ("ab", "c") and ("a", "bc") hash differently.
// The zero value is ready to use.
type Hasher struct {
	h hash.Hash
}

// Write adds one input part.
func (h *Hasher) Write(part []byte) {
	if h.h == nil {
		h.h = sha256.New()
	}
	fmt.Fprintf(h.h, "%d:", len(part))
	h.h.Write(part)
}

// WriteJSON adds the JSON encoding of v as one part.
func (h *Hasher) WriteJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Write(data)
	return nil
}

// Sum returns the hex SHA-256 of all parts written so far.
func (h *Hasher) Sum() string {
	if h.h == nil {
		h.h = sha256.New()
	}
	return hex.EncodeToString(h.h.Sum(nil))
}
