// internal/mappers/registry.go
package mappers

import (
	"fmt"

	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/utils"
)

// Mapper converts one raw scraped record into the canonical product.
// Implementations must be pure: the same record always maps to the same
// product, and timestamps are left for the store to stamp. Missing raw
// fields become zero values, never errors.
type Mapper interface {
	Source() string
	Map(raw RawRecord) *models.Product
}

// ErrNoMapper is returned when a record carries a source tag nothing is
// registered for.
type ErrNoMapper struct {
	Source string
}

func (e *ErrNoMapper) Error() string {
	return fmt.Sprintf("no mapper registered for source %q", e.Source)
}

// Registry dispatches records to mappers by source tag. The set of mappers
// is sealed at construction; there is no runtime re-registration.
type Registry struct {
	mappers map[string]Mapper
}

func NewRegistry(mappers ...Mapper) *Registry {
	r := &Registry{mappers: make(map[string]Mapper, len(mappers))}
	for _, m := range mappers {
		r.mappers[m.Source()] = m
	}
	return r
}

// NewDefaultRegistry wires every supported source.
func NewDefaultRegistry() *Registry {
	return NewRegistry(
		&JumpCalMapper{},
		&BSPPrizeMapper{},
		&BandaiHobbyMapper{},
		&OPBaseShopMapper{},
		&TamashiiWebMapper{},
	)
}

// Sources lists the registered source tags.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(r.mappers))
	for tag := range r.mappers {
		out = append(out, tag)
	}
	return out
}

// MapToProduct looks up the mapper for source and applies it.
func (r *Registry) MapToProduct(raw RawRecord, source string) (*models.Product, error) {
	mapper, ok := r.mappers[source]
	if !ok {
		return nil, &ErrNoMapper{Source: source}
	}
	return mapper.Map(raw), nil
}

// productHash builds the stable identity "prefix_shorthash(name|url)".
// The prefix choice (spider name vs source tag) is a per-mapper policy;
// see the comment on each mapper.
func productHash(prefix, name, url string) string {
	return prefix + "_" + utils.IdentityHash(name, url)
}
