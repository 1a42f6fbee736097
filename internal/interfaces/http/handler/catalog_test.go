package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newCatalogRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	tours := persistence.NewGormTourRepository(db)
	destinations := persistence.NewGormDestinationRepository(db)
	attractions := persistence.NewGormAttractionRepository(db)
	categories := persistence.NewGormCategoryRepository(db)

	dh := NewDestinationHandler(catalogapp.NewDestinationService(destinations, tours, attractions, zap.NewNop()))
	ah := NewAttractionHandler(catalogapp.NewAttractionService(attractions, destinations, zap.NewNop()))
	ch := NewCategoryHandler(catalogapp.NewCategoryService(categories, zap.NewNop()))

	r := newRouter()
	r.GET("/destinations", dh.List)
	r.GET("/destinations/:slug", dh.GetBySlug)
	r.GET("/attractions", ah.ListActive)
	r.GET("/attractions/:slug", ah.GetBySlug)
	r.GET("/categories", ch.List)

	admin := r.Group("/admin", actAs(uuid.New(), identity.RoleAdmin))
	admin.GET("/destinations/:id", dh.GetByID)
	admin.POST("/destinations", dh.Create)
	admin.PUT("/destinations/:id", dh.Update)
	admin.DELETE("/destinations/:id", dh.Delete)
	admin.GET("/attractions", ah.List)
	admin.GET("/attractions/:id", ah.GetByID)
	admin.POST("/attractions", ah.Create)
	admin.PUT("/attractions/:id", ah.Update)
	admin.POST("/attractions/:id/activate", ah.Activate)
	admin.POST("/attractions/:id/deactivate", ah.Deactivate)
	admin.DELETE("/attractions/:id", ah.Delete)
	admin.POST("/categories", ch.Create)
	admin.PUT("/categories/:id", ch.Update)
	admin.DELETE("/categories/:id", ch.Delete)
	return r, db
}

func TestDestinationHandler(t *testing.T) {
	r, db := newCatalogRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/admin/destinations", map[string]any{
		"name": "Douro Valley", "country": "Portugal", "featured": true,
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	douro := decode[catalogapp.DestinationResponse](t, rec).Data
	assert.Equal(t, "douro-valley", douro.Slug)
	assert.True(t, douro.Featured)

	rec = doRequest(t, r, http.MethodPost, "/admin/destinations", map[string]any{
		"name": "Douro", "slug": "douro-valley",
	}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", errorCode(t, rec))

	seedDestination(t, db, "Algarve")
	rec = doRequest(t, r, http.MethodGet, "/destinations?featured=true", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decode[[]catalogapp.DestinationResponse](t, rec)
	require.Len(t, featured.Data, 1)
	assert.Equal(t, "douro-valley", featured.Data[0].Slug)

	seedTour(t, db, douro.ID, "Port Cellars", "45", true)
	seedTour(t, db, douro.ID, "Unreleased", "45", false)
	rec = doRequest(t, r, http.MethodGet, "/destinations/douro-valley", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[catalogapp.DestinationDetailResponse](t, rec).Data
	assert.Equal(t, int64(1), detail.TourCount)
	assert.Empty(t, detail.Attractions)

	path := "/admin/destinations/" + douro.ID.String()
	rec = doRequest(t, r, http.MethodPut, path, map[string]any{
		"name": "Douro Valley", "country": "Portugal", "description": "Terraced vineyards",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Terraced vineyards", decode[catalogapp.DestinationResponse](t, rec).Data.Description)

	rec = doRequest(t, r, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "DESTINATION_IN_USE", errorCode(t, rec))

	rec = doRequest(t, r, http.MethodGet, "/destinations/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttractionHandler(t *testing.T) {
	r, db := newCatalogRouter(t)
	dest := seedDestination(t, db, "Lisbon")

	rec := doRequest(t, r, http.MethodPost, "/admin/attractions", map[string]any{
		"name": "Jeronimos Monastery", "destination_id": dest.ID, "entry_fee": "12.00",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[catalogapp.AttractionResponse](t, rec).Data
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, "jeronimos-monastery", created.Slug)

	rec = doRequest(t, r, http.MethodPost, "/admin/attractions", map[string]any{
		"name": "Nowhere Tower", "destination_id": uuid.New(),
	}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodGet, "/destinations/lisbon", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[catalogapp.DestinationDetailResponse](t, rec).Data.Attractions, 1)

	path := "/admin/attractions/" + created.ID.String()
	rec = doRequest(t, r, http.MethodPost, path+"/deactivate", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "inactive", decode[catalogapp.AttractionResponse](t, rec).Data.Status)

	rec = doRequest(t, r, http.MethodGet, "/attractions/jeronimos-monastery", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doRequest(t, r, http.MethodGet, "/attractions", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]catalogapp.AttractionResponse](t, rec).Data)
	rec = doRequest(t, r, http.MethodGet, "/admin/attractions?status=inactive", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalogapp.AttractionResponse](t, rec).Data, 1)

	rec = doRequest(t, r, http.MethodPost, path+"/activate", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doRequest(t, r, http.MethodGet, "/attractions/jeronimos-monastery", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, r, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = doRequest(t, r, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCategoryHandler(t *testing.T) {
	r, _ := newCatalogRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/admin/categories", map[string]string{"name": "Wine & Food"}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	wine := decode[catalogapp.CategoryResponse](t, rec).Data

	rec = doRequest(t, r, http.MethodPost, "/admin/categories", map[string]string{"name": "Hiking"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, r, http.MethodPost, "/admin/categories", map[string]string{"name": ""}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))

	rec = doRequest(t, r, http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]catalogapp.CategoryResponse](t, rec)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Hiking", list.Data[0].Name)
	assert.Nil(t, list.Meta)

	path := "/admin/categories/" + wine.ID.String()
	rec = doRequest(t, r, http.MethodPut, path, map[string]string{"name": "Wine", "slug": "wine"}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "wine", decode[catalogapp.CategoryResponse](t, rec).Data.Slug)

	rec = doRequest(t, r, http.MethodDelete, path, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, r, http.MethodPut, "/admin/categories/"+uuid.NewString(), map[string]string{"name": "Ghost"}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
