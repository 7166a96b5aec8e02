// internal/router/router.go
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/config"
	"github.com/javajoker/toynews-backend/internal/handlers"
	"github.com/javajoker/toynews-backend/internal/ingest"
	"github.com/javajoker/toynews-backend/internal/mappers"
	"github.com/javajoker/toynews-backend/internal/middleware"
	"github.com/javajoker/toynews-backend/internal/notify"
	"github.com/javajoker/toynews-backend/internal/store"
	"github.com/javajoker/toynews-backend/internal/translation"
)

func Initialize(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	// Wire the ingestion pipeline.
	registry := mappers.NewDefaultRegistry()
	st := store.NewStore(db)
	queue := translation.NewQueue(db)
	cache := translation.NewCache(db, rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second)

	var notifier notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewWeComNotifier(cfg.Notify)
	}
	orchestrator := ingest.NewOrchestrator(registry, st, queue, notifier)

	ingestHandler := handlers.NewIngestHandler(orchestrator)
	productHandler := handlers.NewProductHandler(st, db, queue, cache)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		ingestGroup := v1.Group("/ingest")
		ingestGroup.Use(middleware.IngestRateLimit())
		ingestGroup.Use(middleware.ServiceAuthRequired(cfg.Auth.SecretKey))
		{
			ingestGroup.POST("/records", ingestHandler.IngestRecords)
		}

		products := v1.Group("/products")
		products.Use(middleware.QueryRateLimit())
		{
			products.GET("", productHandler.ListProducts)
			products.GET("/:hash", productHandler.GetProduct)
			products.GET("/:hash/history", productHandler.GetProductHistory)
		}

		translations := v1.Group("/translations")
		translations.Use(middleware.QueryRateLimit())
		{
			translations.GET("/stats", productHandler.GetTranslationStats)
		}
	}

	return r
}
