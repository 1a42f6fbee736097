package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
)

// AttractionHandler handles attraction-related API endpoints
type AttractionHandler struct {
	BaseHandler
	attractionService *catalogapp.AttractionService
}

// NewAttractionHandler creates a new AttractionHandler
func NewAttractionHandler(attractionService *catalogapp.AttractionService) *AttractionHandler {
	return &AttractionHandler{
		attractionService: attractionService,
	}
}

// ListActive godoc
// @Summary      List attractions
// @Tags         attractions
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name"
// @Param        destination query string false "Destination slug"
// @Success      200 {object} dto.Response{data=[]catalogapp.AttractionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attractions [get]
func (h *AttractionHandler) ListActive(c *gin.Context) {
	h.list(c, h.attractionService.ListActive)
}

// GetBySlug godoc
// @Summary      Get attraction
// @Tags         attractions
// @Produce      json
// @Param        slug path string true "Attraction slug"
// @Success      200 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /attractions/{slug} [get]
func (h *AttractionHandler) GetBySlug(c *gin.Context) {
	attraction, err := h.attractionService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attraction)
}

// List godoc
// @Summary      List attractions (admin)
// @Tags         admin-attractions
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name"
// @Param        destination query string false "Destination slug"
// @Param        status query string false "Status" Enums(active, inactive)
// @Success      200 {object} dto.Response{data=[]catalogapp.AttractionResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions [get]
func (h *AttractionHandler) List(c *gin.Context) {
	h.list(c, h.attractionService.List)
}

// GetByID godoc
// @Summary      Get attraction (admin)
// @Tags         admin-attractions
// @Produce      json
// @Param        id path string true "Attraction ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions/{id} [get]
func (h *AttractionHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "attraction")
	if !ok {
		return
	}

	attraction, err := h.attractionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attraction)
}

// Create godoc
// @Summary      Create attraction
// @Tags         admin-attractions
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.AttractionRequest true "Attraction details"
// @Success      201 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions [post]
func (h *AttractionHandler) Create(c *gin.Context) {
	var req catalogapp.AttractionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attraction, err := h.attractionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, attraction)
}

// Update godoc
// @Summary      Update attraction
// @Tags         admin-attractions
// @Accept       json
// @Produce      json
// @Param        id path string true "Attraction ID" format(uuid)
// @Param        request body catalogapp.AttractionRequest true "Attraction details"
// @Success      200 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions/{id} [put]
func (h *AttractionHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "attraction")
	if !ok {
		return
	}
	var req catalogapp.AttractionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	attraction, err := h.attractionService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attraction)
}

// Activate godoc
// @Summary      Activate attraction
// @Tags         admin-attractions
// @Produce      json
// @Param        id path string true "Attraction ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions/{id}/activate [post]
func (h *AttractionHandler) Activate(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "attraction")
	if !ok {
		return
	}

	attraction, err := h.attractionService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attraction)
}

// Deactivate godoc
// @Summary      Deactivate attraction
// @Description  Hide an attraction from the public catalog
// @Tags         admin-attractions
// @Produce      json
// @Param        id path string true "Attraction ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.AttractionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions/{id}/deactivate [post]
func (h *AttractionHandler) Deactivate(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "attraction")
	if !ok {
		return
	}

	attraction, err := h.attractionService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, attraction)
}

// Delete godoc
// @Summary      Delete attraction
// @Tags         admin-attractions
// @Param        id path string true "Attraction ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/attractions/{id} [delete]
func (h *AttractionHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "attraction")
	if !ok {
		return
	}

	if err := h.attractionService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *AttractionHandler) list(c *gin.Context, fn func(context.Context, catalogapp.AttractionListFilter) ([]catalogapp.AttractionResponse, int64, error)) {
	var filter catalogapp.AttractionListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	attractions, total, err := fn(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, attractions, total, page, pageSize)
}
