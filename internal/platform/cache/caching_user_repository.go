// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis read-through
// cache for FindByID. Writes go to the inner repository first and then drop
// the cached entry. Username and email lookups always hit the inner store so
// availability checks and logins see committed state.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
// A nil rdb disables caching.
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create passes through to the inner repository.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	return c.inner.Create(ctx, user)
}

// FindByID checks the cache first and falls back to the inner repository.
func (c *CachingUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out entity.User
		if err := json.Unmarshal(b, &out); err == nil {
			return &out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	out, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// FindByUsername passes through to the inner repository.
func (c *CachingUserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return c.inner.FindByUsername(ctx, username)
}

// FindByEmail passes through to the inner repository.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// UpdatePartial updates the inner repository and invalidates the cached user.
func (c *CachingUserRepository) UpdatePartial(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	out, err := c.inner.UpdatePartial(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return out, nil
}

// TouchLastLogin updates the inner repository and invalidates the cached user.
func (c *CachingUserRepository) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := c.inner.TouchLastLogin(ctx, id, at); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

// invalidate drops the cached entry. Best effort: the TTL bounds staleness if Redis fails.
func (c *CachingUserRepository) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(id)).Err()
}

// cacheKey generates a cache key for a user ID.
func (c *CachingUserRepository) cacheKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
