// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/toynews-backend/internal/store"
	"github.com/javajoker/toynews-backend/internal/translation"
	"github.com/javajoker/toynews-backend/internal/utils"
)

type ProductHandler struct {
	store *store.Store
	db    *gorm.DB
	queue *translation.Queue
	cache *translation.Cache
}

func NewProductHandler(st *store.Store, db *gorm.DB, queue *translation.Queue, cache *translation.Cache) *ProductHandler {
	return &ProductHandler{store: st, db: db, queue: queue, cache: cache}
}

// ListProducts returns a filtered, paginated product listing.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := store.ListFilter{
		Source:   c.Query("source"),
		IP:       c.Query("ip"),
		Category: c.Query("category"),
	}
	if translated := c.Query("translated"); translated != "" {
		v := translated == "true"
		filter.Translated = &v
	}

	products, total, err := h.store.List(c.Request.Context(), filter, params)
	if err != nil {
		utils.InternalErrorResponse(c, "failed to list products")
		return
	}

	utils.SuccessResponseWithMeta(c, products, utils.BuildPaginationResult(params, total))
}

// GetProduct returns one product by identity hash.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.store.GetByHash(c.Request.Context(), c.Param("hash"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFoundResponse(c, "product not found")
		return
	}
	if err != nil {
		utils.InternalErrorResponse(c, "failed to fetch product")
		return
	}

	utils.SuccessResponse(c, product)
}

// GetProductHistory returns the full version trail for a product.
func (h *ProductHandler) GetProductHistory(c *gin.Context) {
	hash := c.Param("hash")

	if _, err := h.store.GetByHash(c.Request.Context(), hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFoundResponse(c, "product not found")
			return
		}
		utils.InternalErrorResponse(c, "failed to fetch product")
		return
	}

	entries, err := h.store.History(c.Request.Context(), hash)
	if err != nil {
		utils.InternalErrorResponse(c, "failed to fetch history")
		return
	}

	utils.SuccessResponse(c, entries)
}

// GetTranslationStats reports queue depth, translated coverage and cache
// usage.
func (h *ProductHandler) GetTranslationStats(c *gin.Context) {
	stats, err := translation.CollectStats(c.Request.Context(), h.db, h.queue, h.cache)
	if err != nil {
		utils.InternalErrorResponse(c, "failed to compute translation stats")
		return
	}

	utils.SuccessResponse(c, stats)
}
