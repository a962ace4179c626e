// Package metadata is a small key/value repository over the local SQLite
// "metadata" table. Cookies, the device fingerprint and similar client state
// live here.
package metadata

import (
	"context"
)

// Repository reads and writes opaque values by key.
//
// Get returns (nil, nil) for a missing key. Delete and DeleteMany are
// idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys ...string) error
	ListPrefix(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
