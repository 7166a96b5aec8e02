// internal/store/query.go
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/utils"
)

// ListFilter narrows product listings for the query API.
type ListFilter struct {
	Source     string
	IP         string
	Category   string
	Translated *bool
}

// List returns a filtered, paginated page of products plus the total count.
func (s *Store) List(ctx context.Context, filter ListFilter, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.IP != "" {
		query = query.Where("ip = ?", filter.IP)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Translated != nil {
		if *filter.Translated {
			query = query.Where("name_cn IS NOT NULL")
		} else {
			query = query.Where("name_cn IS NULL")
		}
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "release_date", "version"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}
