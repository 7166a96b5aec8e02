// internal/mappers/jump_cal.go
package mappers

import (
	"github.com/javajoker/toynews-backend/internal/models"
)

// JumpCalMapper normalizes Jump character-goods calendar records.
//
// Identity prefix: spider name, falling back to the source tag. Each
// jump_cal entry spider owns its own URL space, so spider-prefixed hashes
// keep per-spider identities distinct.
type JumpCalMapper struct{}

func (m *JumpCalMapper) Source() string { return "jump_cal" }

func (m *JumpCalMapper) Map(raw RawRecord) *models.Product {
	name := raw.String("goodsName")
	url := raw.String("url")

	prefix := raw.String("spider_name")
	if prefix == "" {
		prefix = m.Source()
	}

	return &models.Product{
		ProductHash:  productHash(prefix, name, url),
		Source:       m.Source(),
		SpiderName:   raw.String("spider_name"),
		IP:           raw.String("ip"),
		URL:          url,
		Name:         name,
		Description:  raw.StringOr("genre", ""),
		Price:        raw.String("price"),
		Category:     raw.String("genre"),
		ReleaseDate:  raw.String("releaseDate"),
		Manufacturer: raw.String("maker"),
	}
}
