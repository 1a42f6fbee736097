package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
)

// DestinationHandler handles destination-related API endpoints
type DestinationHandler struct {
	BaseHandler
	destinationService *catalogapp.DestinationService
}

// NewDestinationHandler creates a new DestinationHandler
func NewDestinationHandler(destinationService *catalogapp.DestinationService) *DestinationHandler {
	return &DestinationHandler{
		destinationService: destinationService,
	}
}

// List godoc
// @Summary      List destinations
// @Tags         destinations
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in name"
// @Param        country query string false "Country"
// @Param        featured query bool false "Only featured destinations"
// @Success      200 {object} dto.Response{data=[]catalogapp.DestinationResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /destinations [get]
func (h *DestinationHandler) List(c *gin.Context) {
	var filter catalogapp.DestinationListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	destinations, total, err := h.destinationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, destinations, total, page, pageSize)
}

// GetBySlug godoc
// @Summary      Get destination
// @Description  Get a destination with its published tour count and active attractions
// @Tags         destinations
// @Produce      json
// @Param        slug path string true "Destination slug"
// @Success      200 {object} dto.Response{data=catalogapp.DestinationDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /destinations/{slug} [get]
func (h *DestinationHandler) GetBySlug(c *gin.Context) {
	destination, err := h.destinationService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, destination)
}

// GetByID godoc
// @Summary      Get destination (admin)
// @Tags         admin-destinations
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.DestinationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/destinations/{id} [get]
func (h *DestinationHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "destination")
	if !ok {
		return
	}

	destination, err := h.destinationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, destination)
}

// Create godoc
// @Summary      Create destination
// @Tags         admin-destinations
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.DestinationRequest true "Destination details"
// @Success      201 {object} dto.Response{data=catalogapp.DestinationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/destinations [post]
func (h *DestinationHandler) Create(c *gin.Context) {
	var req catalogapp.DestinationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	destination, err := h.destinationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, destination)
}

// Update godoc
// @Summary      Update destination
// @Tags         admin-destinations
// @Accept       json
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Param        request body catalogapp.DestinationRequest true "Destination details"
// @Success      200 {object} dto.Response{data=catalogapp.DestinationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/destinations/{id} [put]
func (h *DestinationHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "destination")
	if !ok {
		return
	}
	var req catalogapp.DestinationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	destination, err := h.destinationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, destination)
}

// Delete godoc
// @Summary      Delete destination
// @Description  Delete a destination that no tour or attraction refers to
// @Tags         admin-destinations
// @Param        id path string true "Destination ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/destinations/{id} [delete]
func (h *DestinationHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "destination")
	if !ok {
		return
	}

	if err := h.destinationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}
