// Package main is the entry point for the stationdesk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"

	"stationdesk/internal/config"
	"stationdesk/internal/domain/auth"
	v1 "stationdesk/internal/infrastructure/http/v1"
	"stationdesk/internal/infrastructure/http/v1/handlers"
	"stationdesk/internal/infrastructure/storage/postgres"
	"stationdesk/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development(),
		Service:     "stationdesk-api",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx := context.Background()
	log.Infow("starting stationdesk server", "version", version)

	// --- Migrations ---
	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	// --- Database ---
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.WithMaxConns(cfg.DBMaxConns))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- JWT ---
	jwtService := auth.NewJWTService(auth.JWTConfig{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		AccessTokenTTL: cfg.JWTTokenTTL,
	})

	// --- Services ---
	services := v1.NewServices(v1.ServiceDeps{
		TxManager:         postgres.NewTxManager(pool),
		Location:          cfg.Location(),
		ATMTolerance:      cfg.Tolerance(),
		SettlementAccount: cfg.Settlement(),
		Grades:            cfg.FuelGrades,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Services:     services,
		DB:           pool,
		Logger:       log,
		JWTValidator: jwtService,
		Info:         handlers.BuildInfo{App: "stationdesk", Version: version},
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      gzhttp.GzipHandler(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "timezone", cfg.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
