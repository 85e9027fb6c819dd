// Copyright 2026 The LocalDeals Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/localdeals/localdeals/docs"
	"github.com/localdeals/localdeals/internal/analytics"
	"github.com/localdeals/localdeals/internal/audit"
	"github.com/localdeals/localdeals/internal/authz"
	"github.com/localdeals/localdeals/internal/config"
	"github.com/localdeals/localdeals/internal/deal"
	"github.com/localdeals/localdeals/internal/identity"
	"github.com/localdeals/localdeals/internal/news"
	"github.com/localdeals/localdeals/internal/observability/logger"
	"github.com/localdeals/localdeals/internal/observability/metrics"
	"github.com/localdeals/localdeals/internal/observability/tracing"
	"github.com/localdeals/localdeals/internal/order"
	"github.com/localdeals/localdeals/internal/platform"
	"github.com/localdeals/localdeals/internal/session"
	"github.com/localdeals/localdeals/internal/settings"
	"github.com/localdeals/localdeals/internal/shop"
	"github.com/localdeals/localdeals/internal/store/postgres"
	transportHTTP "github.com/localdeals/localdeals/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting localdeals marketplace")

	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   1.0,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	meter, err := metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}
	counters, err := metrics.NewCounters(meter)
	if err != nil {
		slog.Error("failed to initialize counters", logger.Error(err))
		os.Exit(1)
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := db.MigrateInitial(ctx); err != nil {
			slog.Error("migration failed", logger.Error(err))
			os.Exit(1)
		}
		slog.Info("migration successful")
		os.Exit(0)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	shopRepo := postgres.NewShopRepository(db)
	dealRepo := postgres.NewDealRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	newsRepo := postgres.NewNewsRepository(db)
	platformRepo := postgres.NewPlatformRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	analyticsRepo := postgres.NewAnalyticsRepository(db)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	guard := authz.NewGuard(authz.DefaultMatrix(), auditLogger)
	guard.SetDenialRecorder(counters)
	passwordHasher := identity.NewPasswordHasher(
		cfg.Security.Argon2Memory,
		cfg.Security.Argon2Iterations,
		cfg.Security.Argon2Parallelism,
		cfg.Security.Argon2SaltLength,
		cfg.Security.Argon2KeyLength,
	)

	// Initialize services
	identityService := identity.NewService(
		userRepo,
		passwordHasher,
		guard,
		auditLogger,
		cfg.Security.LockoutMaxAttempts,
		cfg.Security.LockoutDuration,
	)
	sessionService := session.NewService(
		sessionRepo,
		[]byte(cfg.Session.SigningKey),
		cfg.Session.Lifetime,
		cfg.Session.IdleTimeout,
		auditLogger,
	)
	shopService := shop.NewService(shopRepo, guard, auditLogger)
	dealService := deal.NewService(dealRepo, shopRepo, guard, auditLogger)
	orderService := order.NewService(orderRepo, shopRepo, dealRepo, auditLogger)
	newsService := news.NewService(newsRepo, guard, auditLogger)
	platformService := platform.NewService(platformRepo, guard, auditLogger)
	settingsService := settings.NewService(settingsRepo, guard, auditLogger)
	analyticsService := analytics.NewService(analyticsRepo, guard)

	// Run bootstrap (ENV driven, no-op once an admin exists)
	bootstrapService := identity.NewBootstrapService(userRepo, passwordHasher, auditLogger)
	if err := bootstrapService.Bootstrap(ctx); err != nil {
		slog.Error("bootstrap failed", logger.Error(err))
		os.Exit(1)
	}

	// Rate limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		identityService,
		sessionService,
		shopService,
		dealService,
		orderService,
		newsService,
		platformService,
		settingsService,
		analyticsService,
		auditLogger,
		counters,
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start session cleanup goroutine
	go func() {
		ticker := time.NewTicker(cfg.Session.CleanupTick)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := sessionService.CleanupExpired(ctx); err != nil {
				slog.ErrorContext(ctx, "failed to cleanup expired sessions", logger.Error(err))
			}
		}
	}()

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}
