// Package fingerprint keeps the server-issued device fingerprint in local
// storage. The client never generates a fingerprint itself.
package fingerprint

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/jobportal/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/jobportal/internal/common"
	"github.com/dmitrijs2005/jobportal/internal/logging"
)

// Placeholder is returned by a headless cache when the server sent nothing.
const Placeholder = "server-fingerprint"

type Cache struct {
	mu     sync.Mutex
	repo   metadata.Repository
	logger logging.Logger
}

// NewCache returns a cache backed by repo.
func NewCache(repo metadata.Repository, logger logging.Logger) *Cache {
	return &Cache{repo: repo, logger: logger}
}

// NewHeadless returns a cache with no storage behind it.
func NewHeadless() *Cache {
	return &Cache{logger: logging.Discard()}
}

// GetOrSet stores and returns serverValue when it is non-empty. Otherwise it
// returns the stored value, or "" if there is none. Storage failures are
// logged and never returned.
func (c *Cache) GetOrSet(ctx context.Context, serverValue string) string {
	if c.repo == nil {
		if serverValue != "" {
			return serverValue
		}
		return Placeholder
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if serverValue != "" {
		if err := c.repo.Set(ctx, common.FingerprintStorageKey, []byte(serverValue)); err != nil {
			c.logger.Warn(ctx, "fingerprint write failed", "error", err)
		}
		return serverValue
	}

	v, err := c.repo.Get(ctx, common.FingerprintStorageKey)
	if err != nil {
		c.logger.Warn(ctx, "fingerprint read failed", "error", err)
		return ""
	}
	return string(v)
}

// Get returns the stored value without changing it.
func (c *Cache) Get(ctx context.Context) string {
	if c.repo == nil {
		return ""
	}
	return c.GetOrSet(ctx, "")
}
