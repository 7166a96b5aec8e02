// internal/translation/cache.go
package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/utils"
)

// Cache is the durable translation cache keyed by content hash, with an
// optional redis hot layer in front of it. usage_count tracks how many
// product-field slots a cached translation has served, including the one
// that created it.
type Cache struct {
	db  *gorm.DB
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(db *gorm.DB, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{db: db, rdb: rdb, ttl: ttl}
}

func (c *Cache) redisKey(textHash string) string {
	return "trans:cache:" + textHash
}

// Lookup returns the cached translation for text, if any, bumping
// usage_count on a hit. Redis misses fall through to the database and
// backfill the hot layer.
func (c *Cache) Lookup(ctx context.Context, text string) (string, bool, error) {
	textHash := utils.TextHash(text)

	if c.rdb != nil {
		cached, err := c.rdb.Get(ctx, c.redisKey(textHash)).Result()
		if err == nil {
			c.bumpUsage(ctx, textHash, 1)
			return cached, true, nil
		}
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("Redis lookup failed, falling back to database")
		}
	}

	var entry models.TranslationCache
	err := c.db.WithContext(ctx).Where("text_hash = ?", textHash).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup %s: %w", textHash, err)
	}

	c.bumpUsage(ctx, textHash, 1)
	c.backfillRedis(ctx, textHash, entry.TranslatedText)
	return entry.TranslatedText, true, nil
}

// Store upserts the translation for a source text. uses is the number of
// product-field slots served by this write; on conflict usage_count grows
// by that amount.
func (c *Cache) Store(ctx context.Context, originalText, translatedText string, uses int) error {
	if uses < 1 {
		uses = 1
	}
	textHash := utils.TextHash(originalText)

	entry := models.TranslationCache{
		TextHash:       textHash,
		OriginalText:   originalText,
		TranslatedText: translatedText,
		UsageCount:     uses,
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "text_hash"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"translated_text": translatedText,
			"usage_count":     gorm.Expr("usage_count + ?", uses),
			"updated_at":      time.Now().UTC(),
		}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("cache store %s: %w", textHash, err)
	}

	c.backfillRedis(ctx, textHash, translatedText)
	return nil
}

func (c *Cache) bumpUsage(ctx context.Context, textHash string, by int) {
	err := c.db.WithContext(ctx).Model(&models.TranslationCache{}).
		Where("text_hash = ?", textHash).
		Updates(map[string]interface{}{
			"usage_count": gorm.Expr("usage_count + ?", by),
			"updated_at":  time.Now().UTC(),
		}).Error
	if err != nil {
		logrus.WithError(err).WithField("text_hash", textHash).Warn("Failed to bump cache usage")
	}
}

func (c *Cache) backfillRedis(ctx context.Context, textHash, translatedText string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, c.redisKey(textHash), translatedText, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to backfill redis translation cache")
	}
}

// CacheStats summarizes the durable cache.
type CacheStats struct {
	Entries    int64 `json:"entries"`
	TotalUsage int64 `json:"total_usage"`
}

func (c *Cache) Stats(ctx context.Context) (*CacheStats, error) {
	var stats CacheStats
	if err := c.db.WithContext(ctx).Model(&models.TranslationCache{}).Count(&stats.Entries).Error; err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	if err := c.db.WithContext(ctx).Model(&models.TranslationCache{}).
		Select("COALESCE(SUM(usage_count), 0)").Scan(&stats.TotalUsage).Error; err != nil {
		return nil, fmt.Errorf("cache stats: %w", err)
	}
	return &stats, nil
}
