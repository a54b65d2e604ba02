package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"library_backend/internal/app/di"
	"library_backend/internal/app/router"
	"library_backend/internal/platform/config"
	platformdb "library_backend/internal/platform/db"
	healthhandler "library_backend/internal/platform/http/handler"
	"library_backend/internal/platform/logging"
	infraredis "library_backend/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// ロガー設定前なのでデフォルト出力で終了
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// db
	db, err := platformdb.Open(platformdb.Config{
		Driver:        cfg.DBDriver,
		DatabaseURL:   cfg.DatabaseURL,
		SQLitePath:    cfg.SQLitePath,
		RunMigrations: cfg.RunMigrations,
	}, di.Models()...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to get sql.DB")
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	// Redis（任意）。接続できなければキャッシュなしで起動する
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without catalog cache")
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close redis client")
			}
		}()
	}

	checks := map[string]healthhandler.Check{
		"database": func(ctx context.Context) error { return sqlDB.PingContext(ctx) },
	}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	if cfg.GoogleBooksAPIKey == "" {
		log.Warn().Msg("GOOGLE_BOOKS_API_KEY is not set; /books/search will return 503")
	}

	// ルータ生成
	engine := router.NewRouter(router.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		MaxBodyBytes:   cfg.MaxRequestBodySize,

		AuthRatePerMinute: cfg.AuthRatePerMinute,
		AuthRateBurst:     cfg.AuthRateBurst,
	}, router.Handlers{
		Auth:    di.NewAuthHandler(db, cfg),
		Library: di.NewLibraryHandler(db),
		Catalog: di.NewCatalogHandler(di.NewCatalog(cfg, rdb)),
		Health:  healthhandler.NewHealthHandler(checks),
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("env", cfg.AppEnv).Str("db_driver", cfg.DBDriver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
