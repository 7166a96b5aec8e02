// internal/models/product.go
package models

import (
	"gorm.io/datatypes"
)

// Field names shared by the diff engine, the translation queue and the
// notification trigger. They match the database column names.
const (
	FieldName         = "name"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldCategory     = "category"
	FieldReleaseDate  = "release_date"
	FieldManufacturer = "manufacturer"
	FieldImages       = "images"
	FieldCDNKeys      = "cdn_keys"
	FieldExtraFields  = "extra_fields"
)

// TranslatableFields are the text fields the translation pipeline fills into
// the *_cn slots.
var TranslatableFields = []string{FieldName, FieldDescription}

// ExtraField carries a source-specific attribute that has no canonical
// column. Order is preserved as scraped.
type ExtraField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is the canonical entity every source maps into. One logical
// product is exactly one row, keyed by ProductHash; rows are updated in
// place and never deleted.
type Product struct {
	BaseModel
	ProductHash string `json:"product_hash" gorm:"size:64;uniqueIndex;not null"`

	// Provenance, immutable after creation. URL is not unique: two sources
	// may legitimately claim the same page under distinct product hashes.
	Source     string `json:"source" gorm:"size:50;not null;index:idx_products_source_ip,priority:1"`
	SpiderName string `json:"spider_name" gorm:"size:100"`
	IP         string `json:"ip" gorm:"column:ip;size:100;index:idx_products_source_ip,priority:2"`
	URL        string `json:"url" gorm:"size:2048;index"`

	Name         string `json:"name" gorm:"size:512"`
	Description  string `json:"description" gorm:"type:text"`
	Price        string `json:"price" gorm:"size:100"`
	Category     string `json:"category" gorm:"size:100;index"`
	ReleaseDate  string `json:"release_date" gorm:"size:100"`
	Manufacturer string `json:"manufacturer" gorm:"size:255"`

	Images      datatypes.JSONSlice[string]     `json:"images"`
	CDNKeys     datatypes.JSONSlice[string]     `json:"cdn_keys" gorm:"column:cdn_keys"`
	ExtraFields datatypes.JSONSlice[ExtraField] `json:"extra_fields"`

	// Translated slots, owned by the translation subsystem. nil means "not
	// yet translated"; an empty string is a valid translation.
	NameCN        *string `json:"name_cn,omitempty" gorm:"column:name_cn;size:512"`
	DescriptionCN *string `json:"description_cn,omitempty" gorm:"column:description_cn;type:text"`

	Version int `json:"version" gorm:"not null;default:1"`
}

// BusinessFields returns the mutable fields the versioned store diffs and
// snapshots. System columns, provenance and the translated slots are
// deliberately absent.
func (p *Product) BusinessFields() map[string]interface{} {
	return map[string]interface{}{
		FieldName:         p.Name,
		FieldDescription:  p.Description,
		FieldPrice:        p.Price,
		FieldCategory:     p.Category,
		FieldReleaseDate:  p.ReleaseDate,
		FieldManufacturer: p.Manufacturer,
		FieldImages:       []string(p.Images),
		FieldCDNKeys:      []string(p.CDNKeys),
		FieldExtraFields:  []ExtraField(p.ExtraFields),
	}
}

// Snapshot returns the full field copy stored on history rows.
func (p *Product) Snapshot() JSONB {
	snap := JSONB{
		"product_hash": p.ProductHash,
		"source":       p.Source,
		"spider_name":  p.SpiderName,
		"ip":           p.IP,
		"url":          p.URL,
		"version":      p.Version,
	}
	for k, v := range p.BusinessFields() {
		snap[k] = v
	}
	if p.NameCN != nil {
		snap["name_cn"] = *p.NameCN
	}
	if p.DescriptionCN != nil {
		snap["description_cn"] = *p.DescriptionCN
	}
	return snap
}

// TranslatedField reports the stored translation slot for a field.
func (p *Product) TranslatedField(field string) *string {
	switch field {
	case FieldName:
		return p.NameCN
	case FieldDescription:
		return p.DescriptionCN
	default:
		return nil
	}
}

// SourceText returns the untranslated text for a translatable field.
func (p *Product) SourceText(field string) string {
	switch field {
	case FieldName:
		return p.Name
	case FieldDescription:
		return p.Description
	default:
		return ""
	}
}
