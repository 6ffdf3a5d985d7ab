package di

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"account_backend/internal/platform/cache"
)

func TestNewUserRepository(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	t.Run("gorm without cache", func(t *testing.T) {
		repo := NewUserRepository(db, nil, nil, time.Minute)

		_, cached := repo.(*cache.CachingUserRepository)
		assert.False(t, cached)
		assert.Equal(t, "*adapters.userGorm", fmt.Sprintf("%T", repo))
	})

	t.Run("cache wraps the store when redis is available", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		t.Cleanup(func() { _ = rdb.Close() })

		repo := NewUserRepository(db, nil, rdb, time.Minute)

		_, cached := repo.(*cache.CachingUserRepository)
		assert.True(t, cached)
	})

	t.Run("mongo when a database is given", func(t *testing.T) {
		client, err := mongo.Connect()
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

		repo := NewUserRepository(nil, client.Database("accounts_test"), nil, time.Minute)

		assert.Equal(t, "*adapters.userMongo", fmt.Sprintf("%T", repo))
	})
}
