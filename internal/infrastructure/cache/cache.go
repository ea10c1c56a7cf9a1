// Package cache holds short-lived copies of collaborator report payloads so
// repeated generation with identical filters does not hit the POS API again.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed cache
var ErrClosed = errors.New("payload cache is closed")

// PayloadCache stores raw payload bodies by key
type PayloadCache interface {
	// Get returns the cached value and whether it was present and unexpired
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value for ttl; a non-positive ttl stores nothing
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key if present
	Delete(ctx context.Context, key string) error
	Close() error
}
