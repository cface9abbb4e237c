package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"transcatalog/internal/cache"
	"transcatalog/internal/config"
	"transcatalog/internal/db"
	"transcatalog/internal/handler"
	transport "transcatalog/internal/http"
	"transcatalog/internal/logger"
	"transcatalog/internal/repository"
	"transcatalog/internal/scheduler"
	"transcatalog/internal/service"
	"transcatalog/internal/snowflake"
)

// @title Translation Catalog API
// @version 1.0
// @description Multi-locale translation catalog with cached per-locale export.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger.Init(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := snowflake.Init(cfg.SnowflakeNode); err != nil {
		log.Fatalf("init snowflake: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbConn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer dbConn.Close()

	translationRepo := repository.NewTranslationRepository(dbConn)
	userRepo := repository.NewUserRepository(dbConn)
	settingsRepo := repository.NewSettingsRepository(dbConn)

	cacheOpts := []cache.Option{cache.WithTTL(cfg.ExportTTL)}
	if cfg.RedisURL != "" {
		store, err := cache.NewRedisStore(ctx, cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer store.Close()
		cacheOpts = append(cacheOpts, cache.WithStore(store))
		logger.Info("export cache uses redis", "module", "main", "action", "init", "resource", "cache", "result", "ok", "prefix", cfg.RedisPrefix)
	}
	exportCache := cache.NewExportCache(translationRepo, cacheOpts...)

	translationService := service.NewTranslationService(translationRepo, exportCache)
	authService, err := service.NewAuthService(ctx, userRepo, settingsRepo, cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatalf("init auth: %v", err)
	}
	if cfg.AdminEmail != "" {
		if err := authService.EnsureUser(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatalf("ensure admin user: %v", err)
		}
	}

	warmLocales := cfg.WarmLocales
	if len(warmLocales) == 0 {
		if warmLocales, err = translationRepo.Locales(ctx); err != nil {
			logger.Warn("list locales failed", "module", "main", "action", "warm", "resource", "cache", "result", "failed", "error", err)
		}
	}
	if len(warmLocales) > 0 {
		if err := exportCache.Warm(ctx, warmLocales...); err != nil {
			logger.Warn("export warmup failed", "module", "main", "action", "warm", "resource", "cache", "result", "failed", "error", err)
		} else {
			logger.Info("export cache warmed", "module", "main", "action", "warm", "resource", "cache", "result", "ok", "locales", len(warmLocales))
		}
	}

	router := transport.NewRouter(
		handler.NewTranslationHandler(translationService),
		handler.NewAuthHandler(authService),
		authService,
		transport.NewIPRateLimiter(cfg.LoginRPS, cfg.LoginBurst),
	)

	sched := scheduler.New(exportCache, cfg.SweepInterval)
	sched.Start()
	defer sched.Stop()

	go func() {
		logger.Info("server listening", "module", "main", "action", "start", "resource", "http", "result", "ok", "addr", cfg.Addr)
		if err := router.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "module", "main", "action", "start", "resource", "http", "result", "failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down", "module", "main", "action", "stop", "resource", "http", "result", "ok")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := router.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "module", "main", "action", "stop", "resource", "http", "result", "failed", "error", err)
	}
}
