// internal/translation/queue.go
package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/models"
)

// Queue is the durable set of products with at least one untranslated
// field: one row per product hash, holding the field -> source-text pairs
// still outstanding. Enqueueing is idempotent and merging; rows disappear
// once every field is translated.
type Queue struct {
	db *gorm.DB
}

func NewQueue(db *gorm.DB) *Queue {
	return &Queue{db: db}
}

// EnqueueIfIncomplete queues the given translatable fields of a product,
// skipping any field whose translated slot is already populated on the
// STORED row (not the in-memory one) and any field with empty source text.
// Repeated calls merge fields into the single pending row.
func (q *Queue) EnqueueIfIncomplete(ctx context.Context, product *models.Product, fields []string) error {
	var stored models.Product
	err := q.db.WithContext(ctx).
		Where("product_hash = ?", product.ProductHash).
		First(&stored).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("enqueue %s: lookup stored product: %w", product.ProductHash, err)
	}
	haveStored := err == nil

	pending := models.JSONB{}
	for _, field := range fields {
		if haveStored && stored.TranslatedField(field) != nil {
			continue
		}
		if text := product.SourceText(field); text != "" {
			pending[field] = text
		}
	}
	if len(pending) == 0 {
		logrus.WithField("product_hash", product.ProductHash).Debug("Nothing to translate")
		return nil
	}

	if err := q.mergeUpsert(ctx, product.ProductHash, pending); err != nil {
		return fmt.Errorf("enqueue %s: %w", product.ProductHash, err)
	}

	logrus.WithFields(logrus.Fields{
		"product_hash": product.ProductHash,
		"fields":       len(pending),
	}).Debug("Added to translation queue")
	return nil
}

// mergeUpsert merges fields into the pending row for productHash, creating
// it when absent. A lost insert race is resolved by retrying as a merge.
func (q *Queue) mergeUpsert(ctx context.Context, productHash string, fields models.JSONB) error {
	merge := func(tx *gorm.DB) error {
		var row models.PendingTranslation
		err := tx.Where("product_hash = ?", productHash).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(&models.PendingTranslation{
				ProductHash: productHash,
				Fields:      fields,
			}).Error
		}
		if err != nil {
			return err
		}

		merged := models.JSONB{}
		for k, v := range row.Fields {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
		return tx.Model(&row).Update("fields", merged).Error
	}

	err := q.db.WithContext(ctx).Transaction(merge)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Concurrent enqueue created the row first; merge into it.
		return q.db.WithContext(ctx).Transaction(merge)
	}
	return err
}

// Dequeue returns up to limit pending rows, oldest first. Rows are not
// locked or removed; completion is what removes them.
func (q *Queue) Dequeue(ctx context.Context, limit int) ([]models.PendingTranslation, error) {
	var rows []models.PendingTranslation
	err := q.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("dequeue: %w", err)
	}
	return rows, nil
}

// RemoveFields strips translated fields from a pending row and deletes the
// row once nothing is outstanding. Runs inside the given transaction so
// the product write and queue cleanup commit together.
func (q *Queue) RemoveFields(tx *gorm.DB, productHash string, fields []string) error {
	var row models.PendingTranslation
	err := tx.Where("product_hash = ?", productHash).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	remaining := models.JSONB{}
	for k, v := range row.Fields {
		remaining[k] = v
	}
	for _, field := range fields {
		delete(remaining, field)
	}

	if len(remaining) == 0 {
		return tx.Delete(&row).Error
	}
	return tx.Model(&row).Update("fields", remaining).Error
}

// PendingCount reports the queue depth.
func (q *Queue) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.PendingTranslation{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("pending count: %w", err)
	}
	return count, nil
}
