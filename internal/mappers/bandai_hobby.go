// internal/mappers/bandai_hobby.go
package mappers

import (
	"github.com/javajoker/toynews-backend/internal/models"
)

// BandaiHobbyMapper normalizes Bandai Hobby (Gunpla and model-kit) records.
//
// Identity prefix: spider name, falling back to the source tag. A single
// spider feeds this source today; spider-prefixed hashes leave room for
// region-specific entry spiders with overlapping URLs.
type BandaiHobbyMapper struct{}

func (m *BandaiHobbyMapper) Source() string { return "bandai_hobby" }

func (m *BandaiHobbyMapper) Map(raw RawRecord) *models.Product {
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
		Category:     "Bandai Hobby",
		ReleaseDate:  raw.String("releaseDate"),
		Manufacturer: "Bandai",
		Images:       raw.StringSlice("gallery"),
		CDNKeys:      raw.StringSlice("cdn_keys"),
	}
}
