// internal/translation/cache_test.go
package translation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/utils"
)

func TestCacheMissThenHit(t *testing.T) {
	db := newTestDB(t)
	cache := NewCache(db, nil, 0)
	ctx := context.Background()

	_, hit, err := cache.Lookup(ctx, "ワンピース")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Store(ctx, "ワンピース", "海贼王", 1))

	translated, hit, err := cache.Lookup(ctx, "ワンピース")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "海贼王", translated)
}

func TestCacheUsageCount(t *testing.T) {
	db := newTestDB(t)
	cache := NewCache(db, nil, 0)
	ctx := context.Background()

	// Two products shared the same source text in one batch.
	require.NoError(t, cache.Store(ctx, "ワンピース", "海贼王", 2))

	var entry models.TranslationCache
	require.NoError(t, db.Where("text_hash = ?", utils.TextHash("ワンピース")).First(&entry).Error)
	assert.Equal(t, 2, entry.UsageCount)

	// A later hit serves one more slot.
	_, hit, err := cache.Lookup(ctx, "ワンピース")
	require.NoError(t, err)
	require.True(t, hit)

	require.NoError(t, db.Where("text_hash = ?", utils.TextHash("ワンピース")).First(&entry).Error)
	assert.Equal(t, 3, entry.UsageCount)
}

func TestCacheStoreUpsertsOnConflict(t *testing.T) {
	db := newTestDB(t)
	cache := NewCache(db, nil, 0)
	ctx := context.Background()

	require.NoError(t, cache.Store(ctx, "ワンピース", "海贼王", 1))
	require.NoError(t, cache.Store(ctx, "ワンピース", "航海王", 1))

	var entries []models.TranslationCache
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "航海王", entries[0].TranslatedText)
	assert.Equal(t, 2, entries[0].UsageCount)
}

func TestCacheStats(t *testing.T) {
	db := newTestDB(t)
	cache := NewCache(db, nil, 0)
	ctx := context.Background()

	stats, err := cache.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
	assert.Zero(t, stats.TotalUsage)

	require.NoError(t, cache.Store(ctx, "ワンピース", "海贼王", 2))
	require.NoError(t, cache.Store(ctx, "ナルト", "火影忍者", 1))

	stats, err = cache.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Entries)
	assert.Equal(t, int64(3), stats.TotalUsage)
}
