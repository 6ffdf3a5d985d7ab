// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	useradapters "account_backend/internal/feature/user/adapters"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/cache"
)

// NewUserRepository creates the UserRepository for the configured store.
// A non-nil mdb selects MongoDB, otherwise db is used.
// When rdb is available, FindByID goes through the Redis cache.
func NewUserRepository(db *gorm.DB, mdb *mongo.Database, rdb *redis.Client, ttl time.Duration) usecase.UserRepository {
	var repo usecase.UserRepository
	if mdb != nil {
		repo = useradapters.NewUserMongo(mdb)
	} else {
		repo = useradapters.NewUserGorm(db)
	}
	if rdb == nil {
		return repo
	}
	return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
}
