package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/dkurbatov/datingapp-backend/internal/app"
	"github.com/dkurbatov/datingapp-backend/internal/cache"
	"github.com/dkurbatov/datingapp-backend/internal/config"
	"github.com/dkurbatov/datingapp-backend/internal/db"
	"github.com/dkurbatov/datingapp-backend/internal/logger"
	"github.com/dkurbatov/datingapp-backend/internal/server"
	"github.com/dkurbatov/datingapp-backend/internal/service/auth"
	"github.com/dkurbatov/datingapp-backend/internal/service/profile"
	"github.com/dkurbatov/datingapp-backend/internal/service/social"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB (migrates the schema, create-if-not-exists)
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	router := server.NewRouter(cfg, appCtx,
		auth.NewRegistrar(appCtx),
		profile.NewRegistrar(appCtx),
		social.NewRegistrar(appCtx),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(ctx, cfg, router); err != nil {
		log.Error("server stopped with error", "err", err)
	}
}
