// internal/models/translation.go
package models

// PendingTranslation is the durable queue row for a product with at least
// one untranslated field. There is at most one row per product hash;
// repeated enqueues merge into Fields. The row disappears once every field
// has been translated.
type PendingTranslation struct {
	BaseModel
	ProductHash string `json:"product_hash" gorm:"size:64;uniqueIndex;not null"`

	// Fields maps field name to the source text awaiting translation.
	Fields JSONB `json:"fields" gorm:"type:jsonb;not null"`
}

// FieldText returns the queued source text for a field, if present.
func (p *PendingTranslation) FieldText(field string) (string, bool) {
	v, ok := p.Fields[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// TranslationCache stores one translation per distinct source text, keyed
// by content hash so identical strings from different products and fields
// share a single entry.
type TranslationCache struct {
	BaseModel
	TextHash       string `json:"text_hash" gorm:"size:32;uniqueIndex;not null"`
	OriginalText   string `json:"original_text" gorm:"type:text"`
	TranslatedText string `json:"translated_text" gorm:"type:text"`
	UsageCount     int    `json:"usage_count" gorm:"not null;default:1"`
}
