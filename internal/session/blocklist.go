// File: internal/session/blocklist.go
package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ldw80203/house-video/internal/shared"
)

// RevocationCache is an in-memory shared.TokenBlocklist. Entries expire when
// the underlying token would have expired anyway.
type RevocationCache struct {
	cache *cache.Cache
}

// RevocationCacheConfig holds the configuration for the RevocationCache.
type RevocationCacheConfig struct {
	DefaultExpiration time.Duration
	CleanupInterval   time.Duration
}

// NewRevocationCache creates a new in-memory revocation cache.
func NewRevocationCache(cfg RevocationCacheConfig) *RevocationCache {
	return &RevocationCache{
		cache: cache.New(cfg.DefaultExpiration, cfg.CleanupInterval),
	}
}

// NewDefaultRevocationCache uses hourly expiry matching Firebase ID token
// lifetimes.
func NewDefaultRevocationCache() *RevocationCache {
	return NewRevocationCache(RevocationCacheConfig{
		DefaultExpiration: time.Hour,
		CleanupInterval:   10 * time.Minute,
	})
}

var _ shared.TokenBlocklist = (*RevocationCache)(nil)

// Revoke records the token until its natural expiry.
func (s *RevocationCache) Revoke(ctx context.Context, idToken string, expiresAt time.Time) error {
	duration := time.Until(expiresAt)
	// An already-expired token needs no entry.
	if duration <= 0 {
		return nil
	}
	s.cache.Set(idToken, true, duration)
	return nil
}

// IsRevoked checks whether the token was revoked by a sign-out.
func (s *RevocationCache) IsRevoked(ctx context.Context, idToken string) (bool, error) {
	_, found := s.cache.Get(idToken)
	return found, nil
}
