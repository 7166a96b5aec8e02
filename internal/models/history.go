// internal/models/history.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductHistory is an immutable, append-only snapshot of a product at one
// version. For a given product the rows form a gapless sequence of versions
// starting at 1, and the newest row's version equals the product's version.
// Rows are never edited or deleted.
type ProductHistory struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProductID   uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index:idx_history_product_version,priority:1"`
	ProductHash string    `json:"product_hash" gorm:"size:64;index"`
	URL         string    `json:"url" gorm:"size:2048;index:idx_history_url_time,priority:1"`
	Version     int       `json:"version" gorm:"not null;index:idx_history_product_version,priority:2"`

	// Full field copy at this version, for point-in-time reconstruction.
	Snapshot JSONB `json:"snapshot" gorm:"type:jsonb"`

	// Tagged union: either the initial-creation marker or a field diff.
	// Exactly one of IsInitial / Changes is meaningful; use NewInitialHistory
	// and NewDiffHistory instead of filling these by hand.
	IsInitial bool  `json:"is_initial"`
	Changes   JSONB `json:"changes,omitempty" gorm:"type:jsonb"`

	Source     string    `json:"source" gorm:"size:50"`
	SpiderName string    `json:"spider_name" gorm:"size:100"`
	Timestamp  time.Time `json:"timestamp" gorm:"not null;index:idx_history_url_time,priority:2"`
}

func (h *ProductHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// NewInitialHistory builds the version-1 entry written when a product is
// first created. It carries the initial marker instead of a diff.
func NewInitialHistory(p *Product, now time.Time) *ProductHistory {
	return &ProductHistory{
		ProductID:   p.ID,
		ProductHash: p.ProductHash,
		URL:         p.URL,
		Version:     1,
		Snapshot:    p.Snapshot(),
		IsInitial:   true,
		Source:      p.Source,
		SpiderName:  p.SpiderName,
		Timestamp:   now,
	}
}

// NewDiffHistory builds the entry for a detected change at the given
// (already bumped) version.
func NewDiffHistory(p *Product, changes ChangeSet, version int, now time.Time) *ProductHistory {
	return &ProductHistory{
		ProductID:   p.ID,
		ProductHash: p.ProductHash,
		URL:         p.URL,
		Version:     version,
		Snapshot:    p.Snapshot(),
		IsInitial:   false,
		Changes:     changes.ToJSONB(),
		Source:      p.Source,
		SpiderName:  p.SpiderName,
		Timestamp:   now,
	}
}
