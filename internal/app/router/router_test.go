package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	employeeentity "account_backend/internal/feature/employee/domain/entity"
	employeehandler "account_backend/internal/feature/employee/transport/handler"
	employeeusecase "account_backend/internal/feature/employee/usecase"
	"account_backend/internal/feature/user/domain/entity"
	userhandler "account_backend/internal/feature/user/transport/handler"
	"account_backend/internal/feature/user/usecase"
	platformhandler "account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
)

const testSecret = "router-secret"

type stubUsers struct{}

func (stubUsers) Register(ctx context.Context, in usecase.RegisterInput) (*entity.User, error) {
	return &entity.User{ID: "u-1", Username: in.Username}, nil
}
func (stubUsers) Authenticate(ctx context.Context, username, password string) (*usecase.AuthResult, error) {
	return nil, usecase.ErrInvalidPassword
}
func (stubUsers) CheckUsername(ctx context.Context, username string) (bool, error) { return true, nil }
func (stubUsers) CheckEmail(ctx context.Context, email string) (bool, error)       { return true, nil }
func (stubUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return &entity.User{ID: id, Username: "alice123", Email: "a@b.com"}, nil
}
func (stubUsers) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return &entity.User{ID: "u-1", Username: username}, nil
}
func (stubUsers) UpdateUser(ctx context.Context, id string, fields map[string]any) (*entity.User, error) {
	return nil, usecase.ErrUserNotFound
}

type stubEmployees struct{}

func (stubEmployees) CreateSection(ctx context.Context, name string) (*employeeentity.Section, error) {
	return &employeeentity.Section{ID: 1, Name: name}, nil
}
func (stubEmployees) ListSections(ctx context.Context) ([]employeeentity.Section, error) {
	return nil, nil
}
func (stubEmployees) CreateEmployee(ctx context.Context, in employeeusecase.CreateEmployeeInput) (*employeeentity.Employee, error) {
	return &employeeentity.Employee{ID: 1, Name: in.Name}, nil
}
func (stubEmployees) ListEmployees(ctx context.Context) ([]employeeentity.Employee, error) {
	return nil, nil
}
func (stubEmployees) GetEmployee(ctx context.Context, id uint) (*employeeentity.Employee, error) {
	return nil, employeeusecase.ErrEmployeeNotFound
}

func newTestEngine(t *testing.T, opts Options) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	opts.JWTSecret = testSecret
	ready := platformhandler.NewReadiness(time.Second, map[string]platformhandler.Probe{
		"store": func(ctx context.Context) error { return nil },
	})
	return NewRouter(opts,
		userhandler.NewUserHandler(stubUsers{}),
		employeehandler.NewEmployeeHandler(stubEmployees{}),
		ready,
	)
}

func bearer(t *testing.T) string {
	t.Helper()
	token, err := jwtmw.NewGenerator(testSecret, time.Hour).GenerateToken("u-1", "alice123")
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRouter_Routes(t *testing.T) {
	r := newTestEngine(t, Options{})

	tests := []struct {
		name           string
		method         string
		path           string
		auth           bool
		expectedStatus int
	}{
		{"health", http.MethodGet, "/healthz", false, http.StatusOK},
		{"ready", http.MethodGet, "/readyz", false, http.StatusOK},
		{"check username is public", http.MethodGet, "/api/user/checkUsername/alice123", false, http.StatusOK},
		{"profile requires token", http.MethodGet, "/api/user/profile/u-1", false, http.StatusUnauthorized},
		{"profile with token", http.MethodGet, "/api/user/profile/u-1", true, http.StatusOK},
		{"sections require token", http.MethodGet, "/api/sections", false, http.StatusUnauthorized},
		{"sections with token", http.MethodGet, "/api/sections", true, http.StatusOK},
		{"employee lookup with token", http.MethodGet, "/api/employees/5", true, http.StatusNotFound},
		{"unknown api path", http.MethodGet, "/api/nope", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", bearer(t))
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}

func TestRouter_StaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o600))

	r := newTestEngine(t, Options{StaticDir: dir})

	tests := []struct {
		path     string
		contains string
	}{
		{"/app.js", "console.log"},
		{"/dashboard/profile", "<html>app</html>"},
		{"/missing.css", "<html>app</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.contains)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	r := newTestEngine(t, Options{AllowedOrigins: []string{"http://localhost:4200"}})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
