// internal/mappers/tamashii_web.go
package mappers

import (
	"github.com/javajoker/toynews-backend/internal/models"
)

// TamashiiWebMapper normalizes Tamashii Nations web records. Sales form and
// preorder window have no canonical column and travel as extra fields.
//
// Identity prefix: source tag. Tamashii product pages are crawled both from
// the new-item feed and from brand index spiders; the record is the same
// product either way.
type TamashiiWebMapper struct{}

func (m *TamashiiWebMapper) Source() string { return "tamashii_web" }

func (m *TamashiiWebMapper) Map(raw RawRecord) *models.Product {
	name := raw.String("title")
	url := raw.String("url")

	return &models.Product{
		ProductHash:  productHash(m.Source(), name, url),
		Source:       m.Source(),
		SpiderName:   raw.String("spider_name"),
		IP:           raw.String("ip"),
		URL:          url,
		Name:         name,
		Description:  raw.StringOr("desc", ""),
		Price:        raw.String("price"),
		Category:     raw.String("category"),
		ReleaseDate:  raw.String("releaseDate"),
		Manufacturer: raw.String("maker"),
		Images:       raw.StringSlice("images"),
		CDNKeys:      raw.StringSlice("cdn_keys"),
		ExtraFields: []models.ExtraField{
			{Key: "salesForm", Label: "販売方法", Value: raw.String("salesForm")},
			{Key: "openDate", Label: "预订开始日期", Value: raw.String("openDate")},
		},
	}
}
