// @title          Todo API
// @version        1.0
// @description    A todo-list service with token-based authentication.
//
// @securityDefinitions.apikey AuthToken
// @in    header
// @name  Auth
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taskbox/todo-api/internal/api"
	"github.com/taskbox/todo-api/internal/core/ports"
	"github.com/taskbox/todo-api/internal/infrastructure/config"
	"github.com/taskbox/todo-api/internal/infrastructure/db"
	"github.com/taskbox/todo-api/internal/infrastructure/db/memory"
	redisdb "github.com/taskbox/todo-api/internal/infrastructure/db/redis"
	"github.com/taskbox/todo-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.Env, nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, db.Config{
		Env:        cfg.Env,
		URL:        cfg.DB.URL,
		SQLitePath: cfg.DB.SQLitePath,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	// The deny-list survives restarts only when Redis is configured; the
	// in-process fallback suits single-node development setups.
	var (
		rdb      *goredis.Client
		denylist ports.TokenDenylist
	)
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		denylist = redisdb.NewDenylist(rdb)
	} else {
		denylist = memory.NewDenylist()
		log.Info().Msg("using in-process token deny-list")
	}

	e, err := api.NewRouter(store, rdb, denylist, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
