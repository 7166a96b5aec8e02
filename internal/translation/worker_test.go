// internal/translation/worker_test.go
package translation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/config"
	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/utils"
)

// stubTranslator records batch calls and answers from a canned table.
type stubTranslator struct {
	answers map[string]string
	err     error
	// short drops the tail of each result list to simulate a model that
	// skipped entries.
	short int
	calls [][]string
}

func (s *stubTranslator) TranslateBatch(ctx context.Context, texts []string) ([]string, error) {
	s.calls = append(s.calls, texts)
	if s.err != nil {
		return nil, s.err
	}
	results := make([]string, 0, len(texts))
	for _, text := range texts {
		results = append(results, s.answers[text])
	}
	if s.short > 0 && s.short < len(results) {
		results = results[:len(results)-s.short]
	} else if s.short >= len(results) {
		results = nil
	}
	return results, nil
}

func newTestWorker(db *gorm.DB, translator Translator) (*Worker, *Queue, *Cache) {
	queue := NewQueue(db)
	cache := NewCache(db, nil, 0)
	worker := NewWorker(db, queue, cache, translator, config.TranslationConfig{
		BatchSize:    10,
		PollInterval: 1,
	})
	return worker, queue, cache
}

func enqueueProduct(t *testing.T, db *gorm.DB, queue *Queue, hash, name, description string) *models.Product {
	t.Helper()
	product := &models.Product{
		ProductHash: hash,
		Source:      "tamashii_web",
		Name:        name,
		Description: description,
		Version:     1,
	}
	require.NoError(t, db.Create(product).Error)
	require.NoError(t, queue.EnqueueIfIncomplete(context.Background(), product, models.TranslatableFields))
	return product
}

func TestProcessBatchTranslatesAndCompletes(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{answers: map[string]string{
		"フィギュアーツ ルフィ": "手办 路飞",
		"ギア5 Ver.":          "五档版",
	}}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_aaaa0001", "フィギュアーツ ルフィ", "ギア5 Ver.")

	processed, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	var product models.Product
	require.NoError(t, db.Where("product_hash = ?", "tw_aaaa0001").First(&product).Error)
	require.NotNil(t, product.NameCN)
	assert.Equal(t, "手办 路飞", *product.NameCN)
	require.NotNil(t, product.DescriptionCN)
	assert.Equal(t, "五档版", *product.DescriptionCN)

	count, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	// One call per translatable field.
	assert.Len(t, translator.calls, 2)
}

func TestProcessBatchDeduplicatesSharedText(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{answers: map[string]string{
		"ワンピース": "海贼王",
	}}
	worker, queue, _ := newTestWorker(db, translator)

	// Two distinct products carry the same name text.
	enqueueProduct(t, db, queue, "tw_bbbb0001", "ワンピース", "")
	enqueueProduct(t, db, queue, "tw_bbbb0002", "ワンピース", "")

	processed, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	// Translated once, applied twice.
	require.Len(t, translator.calls, 1)
	assert.Equal(t, []string{"ワンピース"}, translator.calls[0])

	for _, hash := range []string{"tw_bbbb0001", "tw_bbbb0002"} {
		var product models.Product
		require.NoError(t, db.Where("product_hash = ?", hash).First(&product).Error)
		require.NotNil(t, product.NameCN)
		assert.Equal(t, "海贼王", *product.NameCN)
	}

	var entry models.TranslationCache
	require.NoError(t, db.Where("text_hash = ?", utils.TextHash("ワンピース")).First(&entry).Error)
	assert.Equal(t, 2, entry.UsageCount)
}

func TestProcessBatchUsesCacheOnSecondCycle(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{answers: map[string]string{
		"ワンピース": "海贼王",
	}}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_cccc0001", "ワンピース", "")
	_, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	// A later product with the same text is served from the cache.
	enqueueProduct(t, db, queue, "tw_cccc0002", "ワンピース", "")
	_, err = worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	assert.Len(t, translator.calls, 1)

	var product models.Product
	require.NoError(t, db.Where("product_hash = ?", "tw_cccc0002").First(&product).Error)
	require.NotNil(t, product.NameCN)
	assert.Equal(t, "海贼王", *product.NameCN)

	var entry models.TranslationCache
	require.NoError(t, db.Where("text_hash = ?", utils.TextHash("ワンピース")).First(&entry).Error)
	assert.Equal(t, 2, entry.UsageCount)
}

func TestProcessBatchPadsShortResults(t *testing.T) {
	db := newTestDB(t)
	// Three input texts, one usable result.
	translator := &stubTranslator{
		answers: map[string]string{
			"ワンピース": "海贼王",
			"ナルト":     "火影忍者",
			"ドラゴンボール": "龙珠",
		},
		short: 2,
	}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_dddd0001", "ワンピース", "")
	enqueueProduct(t, db, queue, "tw_dddd0002", "ナルト", "")
	enqueueProduct(t, db, queue, "tw_dddd0003", "ドラゴンボール", "")

	processed, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, processed)

	// The first text translated normally.
	var first models.Product
	require.NoError(t, db.Where("product_hash = ?", "tw_dddd0001").First(&first).Error)
	require.NotNil(t, first.NameCN)
	assert.Equal(t, "海贼王", *first.NameCN)

	// The dropped tail falls back to the source text and stays pending, so
	// a later cycle can retry it.
	for _, hash := range []string{"tw_dddd0002", "tw_dddd0003"} {
		var padded models.Product
		require.NoError(t, db.Where("product_hash = ?", hash).First(&padded).Error)
		require.NotNil(t, padded.NameCN)
		assert.Equal(t, padded.Name, *padded.NameCN)
	}

	count, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// The stand-in never enters the cache.
	var cached int64
	require.NoError(t, db.Model(&models.TranslationCache{}).Count(&cached).Error)
	assert.Equal(t, int64(1), cached)
}

func TestProcessBatchDefersOnTranslatorError(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{err: errors.New("upstream unavailable")}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_eeee0001", "ワンピース", "")

	processed, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)

	// Nothing applied, item stays queued for the next cycle.
	var product models.Product
	require.NoError(t, db.Where("product_hash = ?", "tw_eeee0001").First(&product).Error)
	assert.Nil(t, product.NameCN)

	count, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{}
	worker, _, _ := newTestWorker(db, translator)

	processed, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Empty(t, translator.calls)
}

func TestDrainEmptiesQueue(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{answers: map[string]string{
		"ワンピース": "海贼王",
		"ナルト":     "火影忍者",
	}}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_ffff0001", "ワンピース", "")
	enqueueProduct(t, db, queue, "tw_ffff0002", "ナルト", "")

	total, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	count, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDrainStopsWhenQueueStopsShrinking(t *testing.T) {
	db := newTestDB(t)
	// Every call returns an empty result list, so every item is padded and
	// stays pending. Drain must still terminate.
	translator := &stubTranslator{short: 100}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_hhhh0001", "ワンピース", "")
	enqueueProduct(t, db, queue, "tw_hhhh0002", "ナルト", "")

	total, err := worker.Drain(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// One translator call per batch, not an endless retry loop.
	assert.Len(t, translator.calls, 1)

	count, err := queue.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestWorkerStats(t *testing.T) {
	db := newTestDB(t)
	translator := &stubTranslator{answers: map[string]string{
		"ワンピース": "海贼王",
		"ナルト":     "火影忍者",
	}}
	worker, queue, _ := newTestWorker(db, translator)

	enqueueProduct(t, db, queue, "tw_gggg0001", "ワンピース", "")
	enqueueProduct(t, db, queue, "tw_gggg0002", "ナルト", "")

	_, err := worker.ProcessBatch(context.Background())
	require.NoError(t, err)

	stats, err := worker.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(2), stats.TranslatedProducts)
	assert.Zero(t, stats.Pending)
	require.NotNil(t, stats.Cache)
	assert.Equal(t, int64(2), stats.Cache.Entries)
}
