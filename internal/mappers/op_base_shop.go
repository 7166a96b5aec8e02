// internal/mappers/op_base_shop.go
package mappers

import (
	"github.com/javajoker/toynews-backend/internal/models"
)

// OPBaseShopMapper normalizes ONE PIECE Base Shop records.
//
// Identity prefix: spider name, falling back to the source tag. The shop
// has one entry spider per section and their URL spaces do not overlap.
type OPBaseShopMapper struct{}

func (m *OPBaseShopMapper) Source() string { return "op_base_shop" }

func (m *OPBaseShopMapper) Map(raw RawRecord) *models.Product {
	name := raw.String("title")
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
		Description:  raw.StringOr("desc", ""),
		Price:        raw.String("price"),
		Category:     raw.String("category"),
		ReleaseDate:  raw.String("releaseDate"),
		Manufacturer: raw.String("maker"),
		Images:       raw.StringSlice("images"),
		CDNKeys:      raw.StringSlice("cdn_keys"),
	}
}
