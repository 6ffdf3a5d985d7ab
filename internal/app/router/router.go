// Package router assembles the gin engine and its routes.
package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	employeehandler "account_backend/internal/feature/employee/transport/handler"
	userhandler "account_backend/internal/feature/user/transport/handler"
	platformhandler "account_backend/internal/platform/http/handler"
	"account_backend/internal/platform/http/middleware"
	jwtmw "account_backend/internal/platform/jwt"
)

// Options configures cross-cutting router behavior.
type Options struct {
	JWTSecret string
	// AllowedOrigins restricts CORS. Empty allows any origin.
	AllowedOrigins []string
	// StaticDir, when set, is served for every non-API path with index.html as fallback.
	StaticDir string
}

// NewRouter builds the engine with every route.
func NewRouter(opts Options, users *userhandler.UserHandler, employees *employeehandler.EmployeeHandler,
	ready *platformhandler.Readiness) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), corsMiddleware(opts.AllowedOrigins))

	// Probes
	r.GET("/healthz", platformhandler.Health)
	r.HEAD("/healthz", platformhandler.Health)
	r.OPTIONS("/healthz", platformhandler.Health)
	r.GET("/readyz", ready.Ready)

	requireAuth := jwtmw.AuthRequired(opts.JWTSecret)

	api := r.Group("/api")

	user := api.Group("/user")
	{
		user.POST("/register", users.Register)
		user.POST("/authenticate", users.Authenticate)
		user.GET("/checkUsername/:username", users.CheckUsername)
		user.GET("/checkEmail/:email", users.CheckEmail)
		user.PUT("/update/:userId", users.Update)

		user.GET("/profile/:userId", requireAuth, users.GetProfile)
		user.POST("/profile", requireAuth, users.GetProfileByUsername)
	}

	records := api.Group("/")
	records.Use(requireAuth)
	{
		records.POST("/sections", employees.CreateSection)
		records.GET("/sections", employees.ListSections)
		records.POST("/employees", employees.CreateEmployee)
		records.GET("/employees", employees.ListEmployees)
		records.GET("/employees/:id", employees.GetEmployee)
	}

	r.NoRoute(notFound(opts.StaticDir))
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cors.New(cfg)
}

// notFound answers unknown API paths with JSON and, when dir is set, serves the
// single-page client for everything else.
func notFound(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if dir == "" || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}

		file := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
