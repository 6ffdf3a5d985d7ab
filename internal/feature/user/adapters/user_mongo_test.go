package adapters

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

func TestMongoDuplicateKeyError(t *testing.T) {
	t.Parallel()

	writeErr := func(code int, msg string) error {
		return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: code, Message: msg}}}
	}

	tests := []struct {
		name      string
		err       error
		wantNil   bool
		wantField string
	}{
		{
			name:      "username index",
			err:       writeErr(11000, `E11000 duplicate key error collection: app.users index: uniq_username dup key: { username: "alice123" }`),
			wantField: "username",
		},
		{
			name:      "email index wrapped",
			err:       fmt.Errorf("insert: %w", writeErr(11000, `E11000 duplicate key error collection: app.users index: uniq_email dup key: { email: "a@b.com" }`)),
			wantField: "email",
		},
		{
			name:    "other write error",
			err:     writeErr(121, "Document failed validation"),
			wantNil: true,
		},
		{
			name:    "not a write error",
			err:     errors.New("server selection timeout"),
			wantNil: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dup := mongoDuplicateKeyError(tt.err)
			if tt.wantNil {
				assert.Nil(t, dup)
				return
			}
			require.NotNil(t, dup)
			assert.Equal(t, tt.wantField, dup.Field)
		})
	}
}

func TestNewUserMongo(t *testing.T) {
	// mongo.Connect does not dial until the first operation.
	client, err := mongo.Connect()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	repo := NewUserMongo(client.Database("accounts_test"))

	require.NotNil(t, repo.coll)
	assert.Equal(t, usersCollection, repo.coll.Name())
}

// setupTestMongo returns a repository over a fresh database with indexes in place.
// It skips unless MONGO_URI points at a reachable server.
func setupTestMongo(t *testing.T) *userMongo {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
	require.NoError(t, client.Ping(ctx, nil), "mongo not reachable")

	db := client.Database("accounts_test_" + bson.NewObjectID().Hex())
	t.Cleanup(func() { _ = db.Drop(context.Background()) })

	repo := NewUserMongo(db)
	require.NoError(t, repo.EnsureIndexes(ctx))
	return repo
}

func TestUserMongo_EnsureIndexes(t *testing.T) {
	repo := setupTestMongo(t)

	// A second call is a no-op.
	require.NoError(t, repo.EnsureIndexes(context.Background()))

	specs, err := repo.coll.Indexes().ListSpecifications(context.Background())
	require.NoError(t, err)
	unique := map[string]bool{}
	for _, s := range specs {
		unique[s.Name] = s.Unique != nil && *s.Unique
	}
	assert.True(t, unique[usernameIndexName])
	assert.True(t, unique[emailIndexName])
}

func TestUserMongo_Create(t *testing.T) {
	t.Run("successful user creation", func(t *testing.T) {
		repo := setupTestMongo(t)

		user := newUser("alice123", "a@b.com")
		err := repo.Create(context.Background(), user)

		require.NoError(t, err)
		assert.Len(t, user.ID, 36, "ID should be a UUID")
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("duplicate username error", func(t *testing.T) {
		repo := setupTestMongo(t)
		require.NoError(t, repo.Create(context.Background(), newUser("alice123", "a@b.com")))

		err := repo.Create(context.Background(), newUser("alice123", "other@b.com"))

		var dup *usecase.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)
	})

	t.Run("duplicate email error", func(t *testing.T) {
		repo := setupTestMongo(t)
		require.NoError(t, repo.Create(context.Background(), newUser("alice123", "a@b.com")))

		err := repo.Create(context.Background(), newUser("bob12345", "a@b.com"))

		var dup *usecase.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "email", dup.Field)
	})

	t.Run("nil user error", func(t *testing.T) {
		repo := setupTestMongo(t)

		assert.Error(t, repo.Create(context.Background(), nil))
	})
}

func TestUserMongo_Find(t *testing.T) {
	repo := setupTestMongo(t)

	users := []*entity.User{
		newUser("user00001", "user1@example.com"),
		newUser("user00002", "user2@example.com"),
		newUser("user00003", "user3@example.com"),
	}
	for _, u := range users {
		require.NoError(t, repo.Create(context.Background(), u))
	}

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(context.Background(), users[1].ID)
		require.NoError(t, err)
		assert.Equal(t, users[1].ID, found.ID, "_id decodes into the string ID")
		assert.Equal(t, "user00002", found.Username)
		assert.Equal(t, "hashed_password", found.PasswordHash)
		assert.Nil(t, found.LastLogin)
	})

	t.Run("by username", func(t *testing.T) {
		found, err := repo.FindByUsername(context.Background(), "user00003")
		require.NoError(t, err)
		assert.Equal(t, users[2].ID, found.ID)
	})

	t.Run("by email", func(t *testing.T) {
		found, err := repo.FindByEmail(context.Background(), "user1@example.com")
		require.NoError(t, err)
		assert.Equal(t, users[0].ID, found.ID)
	})

	notFound := []struct {
		name string
		find func() (*entity.User, error)
	}{
		{"unknown id", func() (*entity.User, error) { return repo.FindByID(context.Background(), "missing") }},
		{"empty id", func() (*entity.User, error) { return repo.FindByID(context.Background(), "") }},
		{"unknown username", func() (*entity.User, error) { return repo.FindByUsername(context.Background(), "nobody") }},
		{"unknown email", func() (*entity.User, error) { return repo.FindByEmail(context.Background(), "no@example.com") }},
	}
	for _, tt := range notFound {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find()
			assert.Nil(t, found)
			assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		})
	}
}

func TestUserMongo_UpdatePartial(t *testing.T) {
	t.Run("returns the document after the update", func(t *testing.T) {
		repo := setupTestMongo(t)
		user := newUser("alice123", "a@b.com")
		require.NoError(t, repo.Create(context.Background(), user))

		updated, err := repo.UpdatePartial(context.Background(), user.ID, map[string]any{
			usecase.StoreFieldEmail: "new@b.com",
		})

		require.NoError(t, err)
		assert.Equal(t, "new@b.com", updated.Email)
		assert.Equal(t, "alice123", updated.Username)
		assert.Equal(t, user.ID, updated.ID)
		assert.Equal(t, user.SignupDate.Unix(), updated.SignupDate.Unix(), "signup date must not change")
		assert.False(t, updated.UpdatedAt.Before(user.UpdatedAt.Truncate(time.Millisecond)))
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := setupTestMongo(t)

		_, err := repo.UpdatePartial(context.Background(), "missing", map[string]any{usecase.StoreFieldEmail: "x@y.com"})

		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo := setupTestMongo(t)
		require.NoError(t, repo.Create(context.Background(), newUser("alice123", "a@b.com")))
		bob := newUser("bob12345", "b@b.com")
		require.NoError(t, repo.Create(context.Background(), bob))

		_, err := repo.UpdatePartial(context.Background(), bob.ID, map[string]any{usecase.StoreFieldUsername: "alice123"})

		var dup *usecase.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "username", dup.Field)
	})
}

func TestUserMongo_TouchLastLogin(t *testing.T) {
	repo := setupTestMongo(t)
	user := newUser("alice123", "a@b.com")
	require.NoError(t, repo.Create(context.Background(), user))

	at := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(context.Background(), user.ID, at))

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.LastLogin)
	assert.True(t, found.LastLogin.Equal(at))

	assert.ErrorIs(t, repo.TouchLastLogin(context.Background(), "missing", at), usecase.ErrUserNotFound)
}
