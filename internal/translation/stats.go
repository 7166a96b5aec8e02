// internal/translation/stats.go
package translation

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/models"
)

// Stats summarizes translation progress: queue depth, how many products
// carry at least one translated slot, and cache reuse.
type Stats struct {
	Pending            int64       `json:"pending"`
	TranslatedProducts int64       `json:"translated_products"`
	TotalProducts      int64       `json:"total_products"`
	Cache              *CacheStats `json:"cache"`
}

func CollectStats(ctx context.Context, db *gorm.DB, queue *Queue, cache *Cache) (*Stats, error) {
	pending, err := queue.PendingCount(ctx)
	if err != nil {
		return nil, err
	}

	stats := Stats{Pending: pending}

	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("stats: count products: %w", err)
	}
	if err := db.WithContext(ctx).Model(&models.Product{}).
		Where("name_cn IS NOT NULL OR description_cn IS NOT NULL").
		Count(&stats.TranslatedProducts).Error; err != nil {
		return nil, fmt.Errorf("stats: count translated: %w", err)
	}

	cacheStats, err := cache.Stats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Cache = cacheStats
	return &stats, nil
}
