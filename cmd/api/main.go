// @title        Accounts API
// @version      1.0
// @description  User registration, login and JWT session management.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/wowlabz/accounts-api/docs"
	"github.com/wowlabz/accounts-api/internal/api"
	"github.com/wowlabz/accounts-api/internal/core/service"
	"github.com/wowlabz/accounts-api/internal/jobs"
	"github.com/wowlabz/accounts-api/internal/notify"
	"github.com/wowlabz/accounts-api/internal/pkg/config"
	"github.com/wowlabz/accounts-api/internal/redis"
	"github.com/wowlabz/accounts-api/internal/store"
	"github.com/wowlabz/accounts-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := store.Connect(ctx, store.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := store.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	dataStore := store.New(db)
	tokens := service.NewTokenManager(cfg.JWTSecret)
	notifier := notify.NewLogNotifier(log)
	throttle := redis.NewPasswordThrottle(rdb)

	dispatcher := jobs.NewDispatcher(cfg.JobWorkers, log)
	dispatcher.Start(ctx)

	authService := service.NewAuthService(dataStore, tokens, notifier, throttle, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		DB:     db,
		Redis:  rdb,
		Store:  dataStore,
		Auth:   authService,
		Tokens: tokens,
		Queue:  dispatcher,
		Config: cfg,
		Log:    log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("accounts api started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
