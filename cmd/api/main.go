// Copyright (c) 2026 Roster. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Roster HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the record store (PostgreSQL + migrations, or memory).
//  4. Open the session store (Redis, or memory with a janitor).
//  5. Seed the default admin account.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/roster/internal/api"
	"github.com/taibuivan/roster/internal/auth"
	"github.com/taibuivan/roster/internal/geo"
	"github.com/taibuivan/roster/internal/platform/config"
	"github.com/taibuivan/roster/internal/platform/constants"
	"github.com/taibuivan/roster/internal/platform/migration"
	pgstore "github.com/taibuivan/roster/internal/platform/postgres"
	redisstore "github.com/taibuivan/roster/internal/platform/redis"
	"github.com/taibuivan/roster/internal/platform/sec"
	"github.com/taibuivan/roster/internal/registrant"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		level.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_driver", cfg.StorageDriver),
	)

	if cfg.UsesInsecureSessionSecret() {
		log.Warn("insecure_session_secret",
			slog.String("hint", "set SESSION_SECRET to a long random value"),
		)
	}

	// Root context cancelled on shutdown; background workers stop with it.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration is caught quickly.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	health := api.HealthDependencies{}

	// ── 3. Record Store ───────────────────────────────────────────────────
	var (
		userRepository  registrant.Repository
		adminRepository auth.AdminRepository
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		health.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
		userRepository = registrant.NewPostgresRepository(pool)
		adminRepository = auth.NewPostgresAdminRepository(pool)

	case config.StorageMemory:
		log.Warn("memory_storage_enabled", slog.String("hint", "records are lost on restart"))
		userRepository = registrant.NewMemoryRepository()
		adminRepository = auth.NewMemoryAdminRepository()
	}

	// ── 4. Session Store ──────────────────────────────────────────────────
	var sessionRepository auth.SessionRepository

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		health.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
		sessionRepository = auth.NewRedisSessionRepository(rdb)
	} else {
		memorySessions := auth.NewMemorySessionRepository()
		memorySessions.StartJanitor(rootCtx, cfg.SessionPruneInterval, log)
		sessionRepository = memorySessions
	}

	// ── 5. Auth Service ───────────────────────────────────────────────────
	signer, err := sec.NewSessionSigner(cfg.SessionSecret, constants.SessionIssuer)
	must(log, err, "initialize session signer")

	authService := auth.NewService(adminRepository, sessionRepository, signer, log)
	must(log, authService.Initialize(startupCtx, cfg.AdminSeedPassword), "seed admin account")

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	resolver := geo.NewResolver(geo.Options{
		BaseURL:       cfg.GeoIPBaseURL,
		Timeout:       cfg.GeoIPTimeout,
		RatePerMinute: cfg.GeoIPRatePerMinute,
	}, log)

	registrantService := registrant.NewService(userRepository, resolver, log)

	liveness, readiness := api.NewHealthHandlers(health, log)

	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService, cfg.IsProduction()),
		Registrant: registrant.NewHandler(registrantService),
	}

	server := api.NewServer(cfg, log, authService, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	rootCancel()

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
