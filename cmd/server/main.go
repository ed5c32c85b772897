package main

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/cors"

	"github.com/JustAdi10/MomentumTracker/internal/api"
	"github.com/JustAdi10/MomentumTracker/internal/cache"
	"github.com/JustAdi10/MomentumTracker/internal/config"
	"github.com/JustAdi10/MomentumTracker/internal/database"
	"github.com/JustAdi10/MomentumTracker/internal/engine"
	"github.com/JustAdi10/MomentumTracker/internal/handler"
	"github.com/JustAdi10/MomentumTracker/internal/logger"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Empty database host selects the in-memory store, useful for local
	// development and demos.
	var st store.Store
	if cfg.Database.Host != "" {
		pool, err := database.ConnectPostgres(cfg)
		if err != nil {
			logger.Error("Database connection failed: %v", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgresStore(pool)
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("Migration failed: %v", err)
			os.Exit(1)
		}
		st = pg
	} else {
		logger.Warning("No database configured, using in-memory store")
		st = store.NewMemoryStore()
	}

	if err := st.SeedAchievements(ctx, engine.DefaultAchievements()); err != nil {
		logger.Error("Could not seed achievements: %v", err)
		os.Exit(1)
	}

	// Redis is optional; a nil cache is a no-op.
	var boards *cache.Leaderboard
	if cfg.Redis.Addr != "" {
		boards, err = cache.NewLeaderboard(cfg.Redis)
		if err != nil {
			logger.Warning("Redis unavailable, running without leaderboard cache: %v", err)
			boards = nil
		}
	}

	eng := engine.New(st)
	h := handler.New(eng, st, boards)
	router := api.SetupRouter(h, st)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(router)

	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsHandler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
