// Copyright (c) 2026 Cinevault. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Cinevault HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
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

	"github.com/joho/godotenv"

	"github.com/taibuivan/cinevault/internal/api"
	"github.com/taibuivan/cinevault/internal/catalog"
	"github.com/taibuivan/cinevault/internal/platform/config"
	"github.com/taibuivan/cinevault/internal/platform/constants"
	"github.com/taibuivan/cinevault/internal/platform/mailer"
	"github.com/taibuivan/cinevault/internal/platform/migration"
	pgstore "github.com/taibuivan/cinevault/internal/platform/postgres"
	redisstore "github.com/taibuivan/cinevault/internal/platform/redis"
	"github.com/taibuivan/cinevault/internal/platform/sec"
	"github.com/taibuivan/cinevault/internal/shop"
	"github.com/taibuivan/cinevault/internal/social"
	"github.com/taibuivan/cinevault/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "cinevault"))
	slog.SetDefault(log)

	log.Info("[Cinevault] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	// A local .env is a development convenience; its absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Info("dotenv_loaded")
	}

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "cinevault"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Token Service & Mailer ─────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	must(log, err, "initialize jwt service")

	// Outbound mail is logged rather than delivered until an SMTP provider
	// is configured.
	mail := mailer.NewLogMailer(log)

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────

	// Users: account and token lifecycle.
	userRepository := auth.NewUserRepository(pool)
	activationRepository := auth.NewActivationTokenRepository(pool)
	resetRepository := auth.NewResetTokenRepository(pool)
	refreshRepository := auth.NewRefreshTokenRepository(pool)
	authService := auth.NewService(
		userRepository,
		activationRepository,
		resetRepository,
		refreshRepository,
		jwtSvc,
		mail,
		auth.TTLConfig{
			Access:     cfg.AccessTokenTTL,
			Refresh:    cfg.RefreshTokenTTL,
			Activation: cfg.ActivationTokenTTL,
			Reset:      cfg.ResetTokenTTL,
		},
		cfg.PublicBaseURL,
	)
	authHandler := auth.NewHandler(authService)

	// Catalog: movies, taxonomy, and the Redis detail cache.
	movieRepository := catalog.NewMovieRepository(pool)
	referenceRepository := catalog.NewReferenceRepository(pool)
	movieCache := catalog.NewMovieCache(rdb, cfg.MovieCacheTTL)
	catalogService := catalog.NewService(movieRepository, referenceRepository, movieCache)

	// Social: comments and reactions, nested under the movie subtree.
	commentRepository := social.NewCommentRepository(pool)
	reactionRepository := social.NewReactionRepository(pool)
	socialService := social.NewService(commentRepository, reactionRepository, catalogService, movieCache)
	socialHandler := social.NewHandler(socialService)

	catalogHandler := catalog.NewHandler(catalogService, socialHandler)

	// Shop: carts, orders, and the purchase ledger.
	cartRepository := shop.NewCartRepository(pool)
	purchaseRepository := shop.NewPurchaseRepository(pool)
	orderRepository := shop.NewOrderRepository(pool)
	cartService := shop.NewCartService(cartRepository, purchaseRepository, catalogService)
	orderService := shop.NewOrderService(cartRepository, purchaseRepository, orderRepository)
	shopHandler := shop.NewHandler(cartService, orderService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Catalog:   catalogHandler,
		Shop:      shopHandler,
	}

	// The server context outlives startup: the rate limiter's cleanup loop
	// runs on it for the whole process lifetime.
	server := api.NewServer(context.Background(), cfg, log, jwtSvc, authService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
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

	// Give in-flight requests enough time to complete.
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
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
