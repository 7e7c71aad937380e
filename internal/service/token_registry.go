package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prperemyshlev/storefront/pkg/database"
)

// RevocationList remembers refresh token digests that were rotated out so a
// later presentation can be told apart from a random invalid token
type RevocationList interface {
	Revoke(ctx context.Context, digest string, until time.Time) error
	IsRevoked(ctx context.Context, digest string) (bool, error)
}

// RefreshTokenRegistry keeps rotated refresh token digests in Redis until
// the token would have expired anyway
type RefreshTokenRegistry struct {
	redis *database.Redis
}

// NewRefreshTokenRegistry creates a new Redis backed registry
func NewRefreshTokenRegistry(redis *database.Redis) *RefreshTokenRegistry {
	return &RefreshTokenRegistry{redis: redis}
}

func registryKey(digest string) string {
	return fmt.Sprintf("revoked:refresh:%s", digest)
}

// Revoke records the digest. Tokens already past until are not stored.
func (s *RefreshTokenRegistry) Revoke(ctx context.Context, digest string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	if err := s.redis.Client.Set(ctx, registryKey(digest), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// IsRevoked checks if the digest belongs to a rotated-out token
func (s *RefreshTokenRegistry) IsRevoked(ctx context.Context, digest string) (bool, error) {
	exists, err := s.redis.Client.Exists(ctx, registryKey(digest)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked refresh token: %w", err)
	}
	return exists > 0, nil
}

// MemoryRevocationList is an in-process RevocationList
type MemoryRevocationList struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryRevocationList) Revoke(_ context.Context, digest string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if until.After(m.now()) {
		m.entries[digest] = until
	}
	return nil
}

func (m *MemoryRevocationList) IsRevoked(_ context.Context, digest string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.entries[digest]
	if !ok {
		return false, nil
	}
	if !until.After(m.now()) {
		delete(m.entries, digest)
		return false, nil
	}
	return true, nil
}
