package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-planner/internal/api"
	"github.com/ignite/campaign-planner/internal/cache"
	"github.com/ignite/campaign-planner/internal/calendar"
	"github.com/ignite/campaign-planner/internal/config"
	"github.com/ignite/campaign-planner/internal/history"
	"github.com/ignite/campaign-planner/internal/pkg/logger"
	"github.com/ignite/campaign-planner/internal/planner"
	"github.com/ignite/campaign-planner/internal/segments"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(logger.ParseLevel(cfg.Log.Level))

	// Optional Postgres: segment catalog and analytics-fed history table.
	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		cancel()
		defer db.Close()
		logger.Info("database connected")
	}

	table := loadHistoryTable(cfg, db)

	var catalog segments.Repository
	if db != nil {
		catalog = segments.NewPostgresRepository(db)
	} else {
		catalog = segments.Seeded()
		logger.Info("no database configured, using seeded segment catalog")
	}

	// Optional Redis: recommendation cache. The no-op cache keeps the call
	// sites unconditional.
	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Error("invalid redis url", "error", err)
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		logger.Info("redis connected", "addr", opts.Addr)
	}
	recCache := cache.New(redisClient, cfg.Redis.CacheTTL())

	rec := planner.NewRecommender(table)
	board := calendar.NewBoard()

	server := api.NewServer(cfg.Server, cfg.Planner, rec, board, catalog, recCache)

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
		close(done)
	}()

	if err := server.Start(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
	<-done
}

// loadHistoryTable picks the performance table source: explicit file beats
// the analytics database, which beats the builtin constants.
func loadHistoryTable(cfg *config.Config, db *sql.DB) history.Table {
	if cfg.Planner.HistoryFile != "" {
		table, err := history.LoadFile(cfg.Planner.HistoryFile)
		if err != nil {
			logger.Error("failed to load history file", "path", cfg.Planner.HistoryFile, "error", err)
			os.Exit(1)
		}
		logger.Info("history table loaded from file", "path", cfg.Planner.HistoryFile, "labels", len(table))
		return table
	}
	if cfg.Planner.HistoryFromDatabase && db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		table, err := history.NewPostgresSource(db).Load(ctx)
		if err != nil {
			logger.Error("failed to load history from database", "error", err)
			os.Exit(1)
		}
		logger.Info("history table loaded from database", "labels", len(table))
		return table
	}
	logger.Info("using builtin history table")
	return history.Builtin()
}
