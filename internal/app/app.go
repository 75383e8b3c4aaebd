// Package app builds the Fiber application: global middleware, dependency
// wiring and route registration.
package app

import (
	"context"

	"fintrack-backend/internal/advisory"
	"fintrack-backend/internal/config"
	"fintrack-backend/internal/health"
	"fintrack-backend/internal/infrastructure/database"
	"fintrack-backend/internal/ledger"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/portfolio"
	"fintrack-backend/internal/session"
	"fintrack-backend/internal/snapshot"
	"fintrack-backend/internal/state"
	"fintrack-backend/internal/store"
	"fintrack-backend/internal/syncsched"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration. db is nil when DATABASE_URL is unset; the API then runs
// cache-only and only guest sessions are available.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, *syncsched.Scheduler, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	// CORS (before session)
	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	rdb, err := openRedis(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	// Session (Redis-backed), then request stats marker
	app.Use(middleware.Session(rdb))
	app.Use(middleware.HealthMarker(rdb))

	// Tracing + route logger
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, nil, err
		}
	}

	// Storage tiers and the debounced sync pipeline
	cache := &store.Cache{Rdb: rdb}
	var remote store.RemoteStore
	if db != nil {
		remote = &store.GormRemote{DB: db}
	}
	gateway := store.NewGateway(remote, cache)
	sched := syncsched.New(gateway, cfg.SyncQuietPeriod)
	snapshots := &snapshot.Service{
		Gateway: gateway,
		State:   state.NewManager(),
		Sched:   sched,
	}

	advisor, err := advisory.New(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	resolver := &session.Resolver{Cache: cache}
	if db != nil {
		resolver.Provider = &session.GormProvider{DB: db}
	}
	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	// --- Routes (no auth) ---
	healthHandlers := &health.Handlers{
		Rdb:            rdb,
		DB:             dbPinger(db),
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	authHandlers := &session.Handlers{
		Resolver:  resolver,
		Snapshots: snapshots,
		Rdb:       rdb,
		Config:    sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/register", authHandlers.Register)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Post("/guest", authHandlers.Guest)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// --- Protected routes (auth required) ---
	snapshotHandlers := &snapshot.Handlers{Service: snapshots}
	app.Get("/api/v1/snapshot", middleware.RequireAuth(), snapshotHandlers.Get)

	ledgerHandlers := &ledger.Handlers{Snapshots: snapshots}
	txGroup := app.Group("/api/v1/transactions", middleware.RequireAuth())
	txGroup.Post("/record", ledgerHandlers.Record)
	acctGroup := app.Group("/api/v1/accounts", middleware.RequireAuth())
	acctGroup.Post("/", ledgerHandlers.CreateAccount)
	acctGroup.Delete("/:id", ledgerHandlers.RemoveAccount)

	portfolioHandlers := &portfolio.Handlers{Snapshots: snapshots, Advisor: advisor}
	invGroup := app.Group("/api/v1/investments", middleware.RequireAuth())
	invGroup.Post("/", portfolioHandlers.CreateHolding)
	invGroup.Delete("/:id", portfolioHandlers.RemoveHolding)
	invGroup.Post("/refresh-prices", portfolioHandlers.RefreshPrices)
	invGroup.Get("/summary", portfolioHandlers.Summary)

	adviceHandlers := &advisory.Handlers{Snapshots: snapshots, Advisor: advisor}
	app.Get("/api/v1/advice", middleware.RequireAuth(), adviceHandlers.Advice)

	return app, db, rdb, sched, nil
}

func openRedis(url string) (*redis.Client, error) {
	if url == "" {
		return redis.NewClient(&redis.Options{Addr: "localhost:6379"}), nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// dbPinger adapts the GORM handle to the health check, nil-safe.
func dbPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	return gormPinger{db: db}
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
