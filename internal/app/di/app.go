package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"

	"account_backend/internal/app/config"
	"account_backend/internal/app/router"
	employeeadapters "account_backend/internal/feature/employee/adapters"
	employeeentity "account_backend/internal/feature/employee/domain/entity"
	employeehandler "account_backend/internal/feature/employee/transport/handler"
	employeeusecase "account_backend/internal/feature/employee/usecase"
	useradapters "account_backend/internal/feature/user/adapters"
	"account_backend/internal/feature/user/domain/entity"
	userhandler "account_backend/internal/feature/user/transport/handler"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/db"
	platformhandler "account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/mongodb"
	"account_backend/internal/platform/password"
	infraredis "account_backend/internal/platform/redis"
)

// Models lists every gorm model migrated at startup or by the migrate command.
var Models = []any{&entity.User{}, &employeeentity.Section{}, &employeeentity.Employee{}}

// App is the wired application.
type App struct {
	Router  *gin.Engine
	closers []func()
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build opens every connection described by cfg and wires handlers into a router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	gin.SetMode(cfg.GinMode)
	app := &App{}

	st, err := openStores(ctx, cfg, app)
	if err != nil {
		app.Close()
		return nil, err
	}

	// Redis is optional; the cache is skipped when it is unreachable.
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		tmp, err := infraredis.NewRedisClient(pingCtx, cfg.Redis)
		cancel()
		if err != nil {
			slog.Warn("Redis unavailable. Running without cache.", "error", err)
		} else {
			rdb = tmp
			app.closers = append(app.closers, func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			})
		}
	}

	// Repository
	userRepo := NewUserRepository(st.gorm, st.mongo, rdb, cfg.Redis.CacheTTL)
	employeeRepo := employeeadapters.NewEmployeeRepository(st.gorm)

	// Usecase
	userUC := usecase.NewUserUsecase(
		userRepo,
		password.NewBcryptHasher(cfg.BcryptCost),
		jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration),
		usecase.Options{StoreTimeout: cfg.StoreTimeout, RequireVerified: cfg.EmailVerificationEnabled},
	)
	employeeUC := employeeusecase.NewEmployeeUsecase(employeeRepo)

	// Handler
	userH := userhandler.NewUserHandler(userUC)
	employeeH := employeehandler.NewEmployeeHandler(employeeUC)
	ready := platformhandler.NewReadiness(cfg.StoreTimeout, readinessProbes(st, rdb))

	app.Router = router.NewRouter(router.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:      cfg.StaticDir,
	}, userH, employeeH, ready)
	return app, nil
}

// Migrate creates tables and indexes for the configured stores and exits.
func Migrate(ctx context.Context, cfg config.Config) error {
	cfg.DB.RunMigrations = true
	app := &App{}
	defer app.Close()

	_, err := openStores(ctx, cfg, app)
	return err
}

// Seams over the MongoDB calls in openStores.
var (
	connectMongo       = mongodb.Connect
	ensureMongoIndexes = func(ctx context.Context, mdb *mongo.Database) error {
		return useradapters.NewUserMongo(mdb).EnsureIndexes(ctx)
	}
)

type stores struct {
	gorm        *gorm.DB
	mongo       *mongo.Database
	mongoClient *mongo.Client
}

// openStores connects the relational store and, for STORE_DRIVER=mongo, MongoDB.
// Sections and employees always live in the relational store; with the mongo
// driver that store is SQLite at SQLITE_PATH.
func openStores(ctx context.Context, cfg config.Config, app *App) (*stores, error) {
	out := &stores{}

	dbCfg := cfg.DB
	if cfg.UsesMongo() {
		dbCfg.Driver = db.DriverSQLite
	}
	gdb, err := db.OpenDB(dbCfg, Models...)
	if err != nil {
		return nil, err
	}
	out.gorm = gdb
	app.closers = append(app.closers, func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if !cfg.UsesMongo() {
		return out, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DB.ConnectTimeout)
	defer cancel()
	client, err := connectMongo(connectCtx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, func() {
		_ = client.Disconnect(context.Background())
	})
	out.mongoClient = client
	out.mongo = client.Database(cfg.Mongo.Database)

	// Registration relies on the unique indexes, not on a prior lookup.
	if err := ensureMongoIndexes(connectCtx, out.mongo); err != nil {
		return nil, fmt.Errorf("ensure mongo indexes: %w", err)
	}
	return out, nil
}

func readinessProbes(s *stores, rdb *redis.Client) map[string]platformhandler.Probe {
	probes := map[string]platformhandler.Probe{
		"database": func(ctx context.Context) error { return db.Ping(ctx, s.gorm) },
	}
	if s.mongoClient != nil {
		probes["mongo"] = func(ctx context.Context) error { return mongodb.Ping(ctx, s.mongoClient) }
	}
	if rdb != nil {
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return probes
}
