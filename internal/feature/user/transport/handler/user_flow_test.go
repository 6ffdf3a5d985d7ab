package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"account_backend/internal/feature/user/adapters"
	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/password"
)

const flowSecret = "flow-test-secret"

// newFlowRouter wires the real usecase over an in-memory SQLite store.
func newFlowRouter(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	uc := usecase.NewUserUsecase(
		adapters.NewUserGorm(db),
		password.NewBcryptHasher(bcrypt.MinCost),
		jwtmw.NewGenerator(flowSecret, time.Hour),
		usecase.Options{},
	)
	return newTestRouter(uc)
}

func TestUserFlow_RegisterAuthenticateCheck(t *testing.T) {
	r := newFlowRouter(t)
	creds := gin.H{"email": "a@b.com", "username": "alice123", "password": "Abcdef1!"}

	w, body := doJSON(t, r, http.MethodPost, "/api/user/register", creds)
	require.Equal(t, http.StatusCreated, w.Code, body)
	assert.Equal(t, gin.H{"success": true, "message": MsgRegistered}, body)

	w, body = doJSON(t, r, http.MethodPost, "/api/user/register", gin.H{"email": "other@b.com", "username": "alice123", "password": "Abcdef1!"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, gin.H{"success": false, "message": MsgDuplicate}, body)

	w, body = doJSON(t, r, http.MethodPost, "/api/user/authenticate", gin.H{"username": "alice123", "password": "Abcdef1!"})
	require.Equal(t, http.StatusOK, w.Code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, map[string]any{"username": "alice123"}, body["user"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	claims, err := jwtmw.ParseToken(token, []byte(flowSecret))
	require.NoError(t, err)
	assert.Equal(t, "alice123", claims.Username)

	w, body = doJSON(t, r, http.MethodPost, "/api/user/authenticate", gin.H{"username": "alice123", "password": "Wrong1!x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, gin.H{"success": false, "message": MsgPasswordInvalid}, body)

	w, body = doJSON(t, r, http.MethodGet, "/api/user/checkUsername/alice123", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gin.H{"success": false, "message": MsgTaken}, body)

	w, body = doJSON(t, r, http.MethodGet, "/api/user/checkUsername/bob12345", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, gin.H{"success": true, "message": MsgAvailable}, body)

	// lastLogin is recorded by the successful login above.
	w, body = doJSON(t, r, http.MethodGet, "/api/user/profile/"+claims.UserID, nil)
	require.Equal(t, http.StatusOK, w.Code, body)
	user := body["user"].(map[string]any)
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotEmpty(t, user["lastLogin"])
}

func TestUserFlow_UpdateRejectsImmutableAndRehashes(t *testing.T) {
	r := newFlowRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/user/register", gin.H{"email": "a@b.com", "username": "alice123", "password": "Abcdef1!"})
	require.Equal(t, http.StatusCreated, w.Code)

	_, body := doJSON(t, r, http.MethodPost, "/api/user/profile", gin.H{"username": "ALICE123"})
	id := body["user"].(map[string]any)["id"].(string)

	w, _ = doJSON(t, r, http.MethodPut, "/api/user/update/"+id, gin.H{"signupDate": "2000-01-01T00:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPut, "/api/user/update/"+id, gin.H{"password": "Newpass1!"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/user/authenticate", gin.H{"username": "alice123", "password": "Abcdef1!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "old password must stop working")

	w, _ = doJSON(t, r, http.MethodPost, "/api/user/authenticate", gin.H{"username": "alice123", "password": "Newpass1!"})
	assert.Equal(t, http.StatusOK, w.Code)
}
