// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/toynews-backend/internal/ingest"
	"github.com/javajoker/toynews-backend/internal/mappers"
	"github.com/javajoker/toynews-backend/internal/middleware"
	"github.com/javajoker/toynews-backend/internal/models"
	"github.com/javajoker/toynews-backend/internal/store"
	"github.com/javajoker/toynews-backend/internal/translation"
	"github.com/javajoker/toynews-backend/internal/utils"
)

const testSecret = "test-secret"

type HandlersTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	token  string
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), db.AutoMigrate(
		&models.Product{},
		&models.ProductHistory{},
		&models.PendingTranslation{},
		&models.TranslationCache{},
	))
	suite.db = db

	st := store.NewStore(db)
	queue := translation.NewQueue(db)
	cache := translation.NewCache(db, nil, 0)
	orchestrator := ingest.NewOrchestrator(mappers.NewDefaultRegistry(), st, queue, nil)

	ingestHandler := NewIngestHandler(orchestrator)
	productHandler := NewProductHandler(st, db, queue, cache)

	suite.router = gin.New()
	v1 := suite.router.Group("/v1")
	{
		guarded := v1.Group("/ingest")
		guarded.Use(middleware.ServiceAuthRequired(testSecret))
		guarded.POST("/records", ingestHandler.IngestRecords)

		v1.GET("/products", productHandler.ListProducts)
		v1.GET("/products/:hash", productHandler.GetProduct)
		v1.GET("/products/:hash/history", productHandler.GetProductHistory)
		v1.GET("/translations/stats", productHandler.GetTranslationStats)
	}

	token, err := utils.GenerateServiceToken(testSecret, "crawler", time.Hour)
	require.NoError(suite.T(), err)
	suite.token = token
}

func (suite *HandlersTestSuite) ingestPayload() map[string]interface{} {
	return map[string]interface{}{
		"records": []map[string]interface{}{
			{
				"source":      "bsp_prize",
				"spider_name": "bsp_prize_list",
				"title":       "ワンピース ルフィ フィギュア",
				"desc":        "ギア5 Ver.",
				"url":         "https://example.com/prize/1",
				"releaseDate": "2026年10月",
			},
		},
	}
}

func (suite *HandlersTestSuite) postIngest(payload interface{}, token string) *httptest.ResponseRecorder {
	body, err := json.Marshal(payload)
	require.NoError(suite.T(), err)

	req, _ := http.NewRequest("POST", "/v1/ingest/records", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) get(path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	require.NoError(suite.T(), json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func (suite *HandlersTestSuite) TestIngestRequiresAuth() {
	w := suite.postIngest(suite.ingestPayload(), "")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)

	w = suite.postIngest(suite.ingestPayload(), "not-a-token")
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestIngestRecords() {
	w := suite.postIngest(suite.ingestPayload(), suite.token)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	assert.True(suite.T(), response["success"].(bool))

	meta := response["meta"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), meta["received"])
	assert.Equal(suite.T(), float64(1), meta["created"])
	assert.Equal(suite.T(), float64(0), meta["dropped"])
}

func (suite *HandlersTestSuite) TestIngestRejectsEmptyBatch() {
	w := suite.postIngest(map[string]interface{}{"records": []map[string]interface{}{}}, suite.token)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListProducts() {
	require.Equal(suite.T(), http.StatusOK, suite.postIngest(suite.ingestPayload(), suite.token).Code)

	w := suite.get("/v1/products?source=bsp_prize")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].([]interface{})
	require.Len(suite.T(), data, 1)
	product := data[0].(map[string]interface{})
	assert.Equal(suite.T(), "ワンピース ルフィ フィギュア", product["name"])

	// A filter with no matches returns an empty page, not an error.
	w = suite.get("/v1/products?source=jump_cal")
	require.Equal(suite.T(), http.StatusOK, w.Code)
	response = suite.decode(w)
	assert.Empty(suite.T(), response["data"])
}

func (suite *HandlersTestSuite) TestGetProductAndHistory() {
	require.Equal(suite.T(), http.StatusOK, suite.postIngest(suite.ingestPayload(), suite.token).Code)

	var product models.Product
	require.NoError(suite.T(), suite.db.First(&product).Error)

	w := suite.get("/v1/products/" + product.ProductHash)
	require.Equal(suite.T(), http.StatusOK, w.Code)

	w = suite.get("/v1/products/" + product.ProductHash + "/history")
	require.Equal(suite.T(), http.StatusOK, w.Code)
	response := suite.decode(w)
	entries := response["data"].([]interface{})
	require.Len(suite.T(), entries, 1)
	entry := entries[0].(map[string]interface{})
	assert.Equal(suite.T(), true, entry["is_initial"])
}

func (suite *HandlersTestSuite) TestGetProductNotFound() {
	w := suite.get("/v1/products/nonexistent")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	w = suite.get("/v1/products/nonexistent/history")
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestTranslationStats() {
	require.Equal(suite.T(), http.StatusOK, suite.postIngest(suite.ingestPayload(), suite.token).Code)

	w := suite.get("/v1/translations/stats")
	require.Equal(suite.T(), http.StatusOK, w.Code)

	response := suite.decode(w)
	data := response["data"].(map[string]interface{})
	assert.Equal(suite.T(), float64(1), data["pending"])
	assert.Equal(suite.T(), float64(1), data["total_products"])
	assert.Equal(suite.T(), float64(0), data["translated_products"])
}

func TestHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
