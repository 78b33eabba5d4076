package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lenormand-api/config"
	httpHandler "lenormand-api/internal/adapter/http/handler"
	pgStorage "lenormand-api/internal/adapter/storage/postgres"
	redisStorage "lenormand-api/internal/adapter/storage/redis"
	"lenormand-api/internal/core/ports"
	"lenormand-api/internal/service"
	"lenormand-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Lenormand API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	readingRepo := pgStorage.NewReadingRepo(pool)

	// Initialize Redis stores
	codeStore := redisStorage.NewCodeStore(rdb, cfg.Auth.CodeTTL)
	sessionStore := redisStorage.NewSessionStore(rdb, cfg.Auth.SessionTTL)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// SMS dispatch: a configured vendor sends real messages, otherwise the
	// server runs in demo mode and only logs issued codes.
	var smsSender ports.SMSSender
	if cfg.SMS.Configured() {
		sigSvc := service.NewRPCSignatureService()
		smsSender = service.NewAliyunSMSService(cfg.SMS, sigSvc, &http.Client{Timeout: cfg.SMS.Timeout}, log)
		log.Info().Str("sign_name", cfg.SMS.SignName).Msg("SMS vendor configured")
	} else {
		log.Warn().Msg("SMS vendor not configured, running in demo mode")
	}

	// Initialize business services
	authSvc := service.NewAuthService(userRepo, codeStore, sessionStore, smsSender, !cfg.Server.Production(), log)
	readingSvc := service.NewReadingService(readingRepo)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		ReadingSvc:     readingSvc,
		Sessions:       sessionStore,
		UserRepo:       userRepo,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
