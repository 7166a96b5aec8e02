// internal/mappers/bsp_prize.go
package mappers

import (
	"github.com/javajoker/toynews-backend/internal/models"
)

// BSPPrizeMapper normalizes Banpresto prize-figure records.
//
// Identity prefix: source tag. bsp_prize pages are reached from more than
// one entry spider, and those crawls describe the same logical product, so
// the hash must stay stable regardless of which spider delivered the record.
type BSPPrizeMapper struct{}

func (m *BSPPrizeMapper) Source() string { return "bsp_prize" }

func (m *BSPPrizeMapper) Map(raw RawRecord) *models.Product {
	name := raw.String("title")
	url := raw.String("url")

	return &models.Product{
		ProductHash: productHash(m.Source(), name, url),
		Source:      m.Source(),
		SpiderName:  raw.String("spider_name"),
		IP:          raw.String("ip"),
		URL:         url,
		Name:        name,
		Description: raw.StringOr("desc", ""),
		// Prize figures are not sold; there is no price.
		Price:        "",
		Category:     "Prize Figure",
		ReleaseDate:  raw.String("releaseDate"),
		Manufacturer: "Banpresto",
		Images:       raw.StringSlice("gallery"),
		CDNKeys:      raw.StringSlice("cdn_keys"),
	}
}
