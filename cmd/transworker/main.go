// cmd/transworker/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/toynews-backend/internal/config"
	"github.com/javajoker/toynews-backend/internal/database"
	"github.com/javajoker/toynews-backend/internal/translation"
)

func main() {
	once := flag.Bool("once", false, "drain the pending queue and exit instead of polling")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.Translator.APIKey == "" {
		log.Fatal("DEEPSEEK_API_KEY is required for the translation worker")
	}
	if cfg.Environment == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatal("Failed to connect to Redis:", err)
		}
		cancel()
		defer rdb.Close()
	}

	queue := translation.NewQueue(db)
	cache := translation.NewCache(db, rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)
	translator, err := translation.NewDeepSeekTranslator(cfg.Translator)
	if err != nil {
		log.Fatal("Failed to build translator:", err)
	}
	worker := translation.NewWorker(db, queue, cache, translator, cfg.Translation)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *once {
		processed, err := worker.Drain(ctx)
		if err != nil {
			log.Fatal("Drain failed:", err)
		}
		log.Printf("Drained pending queue, %d items translated", processed)
		return
	}

	worker.Run(ctx)
}
