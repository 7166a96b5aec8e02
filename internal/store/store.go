// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/models"
)

// IdentityKey selects the column a product is deduplicated on. Normalized
// product collections key on the product hash; URL keying exists for
// collections where one page is one logical record.
type IdentityKey int

const (
	ByProductHash IdentityKey = iota
	ByURL
)

func (k IdentityKey) Column() string {
	if k == ByURL {
		return "url"
	}
	return "product_hash"
}

func (k IdentityKey) ValueOf(p *models.Product) string {
	if k == ByURL {
		return p.URL
	}
	return p.ProductHash
}

// UpsertResult reports what one upsert did. Skipped is set when a
// concurrent writer won the insert race; the call is then a benign no-op.
type UpsertResult struct {
	Version int              `json:"version"`
	IsNew   bool             `json:"is_new"`
	Changed models.ChangeSet `json:"changed_fields"`
	Skipped bool             `json:"skipped,omitempty"`
}

// HasChanges reports whether the upsert created the product or altered at
// least one business field.
func (r *UpsertResult) HasChanges() bool {
	return r.IsNew || !r.Changed.IsEmpty()
}

// Store owns the Product and ProductHistory lifecycles: every version bump
// appends exactly one immutable history row, in the same transaction as the
// product write.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Upsert inserts or updates the product identified by key.
//
// Insert path: version 1, initial history row. Update path: field diff
// against the stored row; a non-empty diff bumps the version and appends a
// history row carrying the diff, an empty diff only touches updated_at.
// A unique-violation race on insert, or an update that loses the version
// race, is logged and swallowed: the other writer's result stands.
func (s *Store) Upsert(ctx context.Context, p *models.Product, key IdentityKey) (*UpsertResult, error) {
	if key.ValueOf(p) == "" {
		return nil, fmt.Errorf("upsert: empty identity value for column %s", key.Column())
	}

	var existing models.Product
	err := s.db.WithContext(ctx).
		Where(key.Column()+" = ?", key.ValueOf(p)).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.insert(ctx, p, key)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert: lookup %s=%s: %w", key.Column(), key.ValueOf(p), err)
	}

	return s.update(ctx, &existing, p)
}

func (s *Store) insert(ctx context.Context, p *models.Product, key IdentityKey) (*UpsertResult, error) {
	now := time.Now().UTC()
	p.Version = 1

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return tx.Create(models.NewInitialHistory(p, now)).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the insert race; another writer is handling this identity.
		logrus.WithFields(logrus.Fields{
			"identity": key.ValueOf(p),
			"column":   key.Column(),
			"source":   p.Source,
		}).Warn("Duplicate identity on insert, skipping")
		return &UpsertResult{Version: 0, IsNew: false, Changed: models.ChangeSet{}, Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upsert: insert %s: %w", p.ProductHash, err)
	}

	logrus.WithFields(logrus.Fields{
		"product_hash": p.ProductHash,
		"source":       p.Source,
		"url":          p.URL,
	}).Info("New product created")

	return &UpsertResult{Version: 1, IsNew: true, Changed: models.ChangeSet{}}, nil
}

func (s *Store) update(ctx context.Context, existing, incoming *models.Product) (*UpsertResult, error) {
	changes := diffProducts(existing, incoming)
	if changes.IsEmpty() {
		if err := s.db.WithContext(ctx).Model(existing).
			UpdateColumn("updated_at", time.Now().UTC()).Error; err != nil {
			return nil, fmt.Errorf("upsert: touch %s: %w", existing.ProductHash, err)
		}
		logrus.WithField("product_hash", existing.ProductHash).Debug("No changes detected")
		return &UpsertResult{Version: existing.Version, IsNew: false, Changed: models.ChangeSet{}}, nil
	}

	now := time.Now().UTC()
	newVersion := existing.Version + 1

	updates := map[string]interface{}{
		"version":    newVersion,
		"updated_at": now,
	}
	newFields := incoming.BusinessFields()
	for field := range changes {
		updates[field] = columnValue(incoming, field, newFields)
	}

	// Merged view of the row after the update, for the history snapshot.
	merged := *existing
	merged.Name = incoming.Name
	merged.Description = incoming.Description
	merged.Price = incoming.Price
	merged.Category = incoming.Category
	merged.ReleaseDate = incoming.ReleaseDate
	merged.Manufacturer = incoming.Manufacturer
	merged.Images = incoming.Images
	merged.CDNKeys = incoming.CDNKeys
	merged.ExtraFields = incoming.ExtraFields
	merged.Version = newVersion

	var stale bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{}).
			Where("id = ? AND version = ?", existing.ID, existing.Version).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another writer bumped the version first; nothing was written,
			// so no history row may be appended either.
			stale = true
			return nil
		}
		return tx.Create(models.NewDiffHistory(&merged, changes, newVersion, now)).Error
	})
	if err != nil {
		return nil, fmt.Errorf("upsert: update %s to v%d: %w", existing.ProductHash, newVersion, err)
	}
	if stale {
		logrus.WithFields(logrus.Fields{
			"product_hash": existing.ProductHash,
			"version":      existing.Version,
		}).Warn("Concurrent update won the version race, skipping")
		return &UpsertResult{Version: 0, IsNew: false, Changed: models.ChangeSet{}, Skipped: true}, nil
	}

	logrus.WithFields(logrus.Fields{
		"product_hash": existing.ProductHash,
		"version":      newVersion,
		"changed":      len(changes),
	}).Info("Product updated")

	return &UpsertResult{Version: newVersion, IsNew: false, Changed: changes}, nil
}

// columnValue maps a diffed field name onto the value written to that
// column, preserving the concrete gorm types for the JSON-backed columns.
func columnValue(p *models.Product, field string, plain map[string]interface{}) interface{} {
	switch field {
	case models.FieldImages:
		return p.Images
	case models.FieldCDNKeys:
		return p.CDNKeys
	case models.FieldExtraFields:
		return p.ExtraFields
	default:
		return plain[field]
	}
}

// GetByHash fetches one product by its identity hash.
func (s *Store) GetByHash(ctx context.Context, productHash string) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Where("product_hash = ?", productHash).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", productHash, err)
	}
	return &product, nil
}

// History returns the append-only version trail for a product, oldest first.
func (s *Store) History(ctx context.Context, productHash string) ([]models.ProductHistory, error) {
	var entries []models.ProductHistory
	err := s.db.WithContext(ctx).
		Where("product_hash = ?", productHash).
		Order("version ASC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("history %s: %w", productHash, err)
	}
	return entries, nil
}
