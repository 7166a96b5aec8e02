// internal/translation/worker.go
package translation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/config"
	"github.com/javajoker/toynews-backend/internal/models"
)

// Worker is the single long-lived batch loop draining the pending queue.
// All intermediate state lives in the durable queue and cache, so a crash
// mid-batch resumes on restart with nothing lost beyond the uncommitted
// translator call.
type Worker struct {
	db         *gorm.DB
	queue      *Queue
	cache      *Cache
	translator Translator
	batchSize  int
	interval   time.Duration
}

func NewWorker(db *gorm.DB, queue *Queue, cache *Cache, translator Translator, cfg config.TranslationConfig) *Worker {
	return &Worker{
		db:         db,
		queue:      queue,
		cache:      cache,
		translator: translator,
		batchSize:  cfg.BatchSize,
		interval:   time.Duration(cfg.PollInterval) * time.Second,
	}
}

// Run polls the queue until ctx is cancelled. The in-flight batch always
// finishes before Run returns.
func (w *Worker) Run(ctx context.Context) {
	logrus.WithFields(logrus.Fields{
		"batch_size":    w.batchSize,
		"poll_interval": w.interval.String(),
	}).Info("Translation worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logrus.WithError(err).Error("Translation batch failed")
		} else if processed > 0 {
			logrus.WithField("processed", processed).Info("Translation batch completed")
		}

		select {
		case <-ctx.Done():
			logrus.Info("Translation worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// Drain processes batches until the queue is empty or stops shrinking,
// for one-shot runs. Padded stand-ins leave their rows pending, so the
// shrink check keeps a persistently short-answering translator from
// looping forever. Returns the number of items that received translations.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	last := int64(-1)
	for {
		pending, err := w.queue.PendingCount(ctx)
		if err != nil {
			return total, err
		}
		if pending == 0 || pending == last {
			return total, nil
		}
		last = pending

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			return total, err
		}
		if processed == 0 {
			return total, nil
		}
		total += processed
	}
}

// ProcessBatch handles one batch: dequeue oldest-first, partition each
// field's texts into cache hits and unique misses, translate the misses
// with one call per field, cache the results, and fan them back out to
// every product that needed them. Padded results (translator returned
// fewer lines than texts) are applied but never cached, and their fields
// stay pending so the next cycle retries them.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	items, err := w.queue.Dequeue(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	// Per item: translations safe to complete, and padded stand-ins that
	// must stay pending.
	completed := make([]map[string]string, len(items))
	padded := make([]map[string]string, len(items))
	for i := range items {
		completed[i] = map[string]string{}
		padded[i] = map[string]string{}
	}

	cacheHits, cacheMisses := 0, 0

	for _, field := range models.TranslatableFields {
		// Unique cache-miss texts for this field, in first-seen order.
		var order []string
		missing := map[string][]int{}

		for i := range items {
			text, ok := items[i].FieldText(field)
			if !ok || text == "" {
				continue
			}

			translated, hit, err := w.cache.Lookup(ctx, text)
			if err != nil {
				logrus.WithError(err).WithFields(logrus.Fields{
					"product_hash": items[i].ProductHash,
					"field":        field,
				}).Warn("Cache lookup failed, deferring item")
				continue
			}
			if hit {
				completed[i][field] = translated
				cacheHits++
				continue
			}

			if _, seen := missing[text]; !seen {
				order = append(order, text)
			}
			missing[text] = append(missing[text], i)
			cacheMisses++
		}

		if len(order) == 0 {
			continue
		}

		results, err := w.translator.TranslateBatch(ctx, order)
		if err != nil {
			// Items stay queued and retry next cycle.
			logrus.WithError(err).WithFields(logrus.Fields{
				"field": field,
				"texts": len(order),
			}).Error("Translator call failed, batch deferred")
			continue
		}
		if len(results) < len(order) {
			logrus.WithFields(logrus.Fields{
				"field":    field,
				"expected": len(order),
				"got":      len(results),
			}).Warn("Translator returned short result list, padding with source text")
		}

		for j, text := range order {
			if j >= len(results) {
				for _, i := range missing[text] {
					padded[i][field] = text
				}
				continue
			}

			translated := results[j]
			if err := w.cache.Store(ctx, text, translated, len(missing[text])); err != nil {
				logrus.WithError(err).WithField("field", field).Warn("Failed to cache translation")
			}
			for _, i := range missing[text] {
				completed[i][field] = translated
			}
		}
	}

	applied := 0
	for i := range items {
		if len(completed[i]) == 0 && len(padded[i]) == 0 {
			continue
		}
		if err := w.applyItem(ctx, &items[i], completed[i], padded[i]); err != nil {
			logrus.WithError(err).WithField("product_hash", items[i].ProductHash).
				Error("Failed to apply translations")
			continue
		}
		applied++
	}

	logrus.WithFields(logrus.Fields{
		"items":        len(items),
		"applied":      applied,
		"cache_hits":   cacheHits,
		"cache_misses": cacheMisses,
	}).Info("Translation cycle stats")

	return applied, nil
}

// applyItem writes translated slots onto the product and strips completed
// fields from the pending row in one transaction. Padded fields are
// written too, but stay pending for retranslation.
func (w *Worker) applyItem(ctx context.Context, item *models.PendingTranslation, completed, padded map[string]string) error {
	updates := map[string]interface{}{}
	doneFields := make([]string, 0, len(completed))
	for field, translated := range completed {
		updates[translatedColumn(field)] = translated
		doneFields = append(doneFields, field)
	}
	for field, standIn := range padded {
		updates[translatedColumn(field)] = standIn
	}

	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			err := tx.Model(&models.Product{}).
				Where("product_hash = ?", item.ProductHash).
				Updates(updates).Error
			if err != nil {
				return fmt.Errorf("update product: %w", err)
			}
		}
		if len(doneFields) > 0 {
			if err := w.queue.RemoveFields(tx, item.ProductHash, doneFields); err != nil {
				return fmt.Errorf("remove pending fields: %w", err)
			}
		}
		return nil
	})
}

func translatedColumn(field string) string {
	return field + "_cn"
}

// Stats exposes the same operational summary the worker logs between
// cycles, for the query API.
func (w *Worker) Stats(ctx context.Context) (*Stats, error) {
	return CollectStats(ctx, w.db, w.queue, w.cache)
}
