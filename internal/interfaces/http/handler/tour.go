package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
)

// TourHandler handles tour-related API endpoints
type TourHandler struct {
	BaseHandler
	tourService *catalogapp.TourService
}

// NewTourHandler creates a new TourHandler
func NewTourHandler(tourService *catalogapp.TourService) *TourHandler {
	return &TourHandler{
		tourService: tourService,
	}
}

// FeatureTourRequest toggles the featured flag of a tour
type FeatureTourRequest struct {
	Featured *bool `json:"featured" binding:"required" example:"true"`
}

// ListPublished godoc
// @Summary      List tours
// @Description  List published tours with filters on destination, category, price, duration and difficulty
// @Tags         tours
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in title and summary"
// @Param        destination query string false "Destination slug"
// @Param        category query string false "Category slug"
// @Param        difficulty query string false "Difficulty" Enums(easy, moderate, challenging)
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        duration_min query int false "Minimum duration in days"
// @Param        duration_max query int false "Maximum duration in days"
// @Param        featured query bool false "Only featured tours"
// @Param        sort_by query string false "Sort field" Enums(published_at, price, duration_days, title, rating_avg)
// @Param        sort_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]catalogapp.TourListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours [get]
func (h *TourHandler) ListPublished(c *gin.Context) {
	var filter catalogapp.TourListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	tours, total, err := h.tourService.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, tours, total, page, pageSize)
}

// GetBySlug godoc
// @Summary      Get tour
// @Description  Get a published tour with its itinerary
// @Tags         tours
// @Produce      json
// @Param        slug path string true "Tour slug"
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tours/{slug} [get]
func (h *TourHandler) GetBySlug(c *gin.Context) {
	tour, err := h.tourService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// List godoc
// @Summary      List tours (admin)
// @Description  List tours in every status
// @Tags         admin-tours
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in title and summary"
// @Param        status query string false "Status" Enums(draft, published, archived)
// @Param        destination query string false "Destination slug"
// @Param        category query string false "Category slug"
// @Success      200 {object} dto.Response{data=[]catalogapp.TourListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours [get]
func (h *TourHandler) List(c *gin.Context) {
	var filter catalogapp.TourListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	tours, total, err := h.tourService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, tours, total, page, pageSize)
}

// GetByID godoc
// @Summary      Get tour (admin)
// @Description  Get a tour in any status by ID
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id} [get]
func (h *TourHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}

	tour, err := h.tourService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// Create godoc
// @Summary      Create tour
// @Description  Create a draft tour. The slug is derived from the title when omitted.
// @Tags         admin-tours
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateTourRequest true "Tour details"
// @Success      201 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours [post]
func (h *TourHandler) Create(c *gin.Context) {
	var req catalogapp.CreateTourRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tour, err := h.tourService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tour)
}

// Update godoc
// @Summary      Update tour
// @Description  Replace the editable fields of a tour
// @Tags         admin-tours
// @Accept       json
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        request body catalogapp.UpdateTourRequest true "Tour details"
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id} [put]
func (h *TourHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}
	var req catalogapp.UpdateTourRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tour, err := h.tourService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// Delete godoc
// @Summary      Delete tour
// @Description  Delete a tour that has no bookings
// @Tags         admin-tours
// @Param        id path string true "Tour ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id} [delete]
func (h *TourHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}

	if err := h.tourService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Publish godoc
// @Summary      Publish tour
// @Description  Make a complete tour visible in the public catalog
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/publish [post]
func (h *TourHandler) Publish(c *gin.Context) {
	h.transition(c, h.tourService.Publish)
}

// Unpublish godoc
// @Summary      Unpublish tour
// @Description  Move a published tour back to draft
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/unpublish [post]
func (h *TourHandler) Unpublish(c *gin.Context) {
	h.transition(c, h.tourService.Unpublish)
}

// Archive godoc
// @Summary      Archive tour
// @Description  Retire a tour. Archived tours cannot be booked.
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/archive [post]
func (h *TourHandler) Archive(c *gin.Context) {
	h.transition(c, h.tourService.Archive)
}

// Feature godoc
// @Summary      Feature tour
// @Description  Set or clear the featured flag of a tour
// @Tags         admin-tours
// @Accept       json
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        request body FeatureTourRequest true "Featured flag"
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/feature [post]
func (h *TourHandler) Feature(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}
	var req FeatureTourRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tour, err := h.tourService.SetFeatured(c.Request.Context(), id, *req.Featured)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// AddItineraryDay godoc
// @Summary      Add itinerary day
// @Description  Add a day to the tour itinerary. Day numbers are unique and within the tour duration.
// @Tags         admin-tours
// @Accept       json
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        request body catalogapp.ItineraryDayRequest true "Itinerary day"
// @Success      201 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/itinerary [post]
func (h *TourHandler) AddItineraryDay(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}
	var req catalogapp.ItineraryDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tour, err := h.tourService.AddItineraryDay(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, tour)
}

// UpdateItineraryDay godoc
// @Summary      Update itinerary day
// @Tags         admin-tours
// @Accept       json
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        dayId path string true "Itinerary day ID" format(uuid)
// @Param        request body catalogapp.ItineraryDayRequest true "Itinerary day"
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/itinerary/{dayId} [put]
func (h *TourHandler) UpdateItineraryDay(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}
	dayID, ok := h.ParseID(c, "dayId", "itinerary day")
	if !ok {
		return
	}
	var req catalogapp.ItineraryDayRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tour, err := h.tourService.UpdateItineraryDay(c.Request.Context(), id, dayID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// RemoveItineraryDay godoc
// @Summary      Remove itinerary day
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Param        dayId path string true "Itinerary day ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.TourResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/itinerary/{dayId} [delete]
func (h *TourHandler) RemoveItineraryDay(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}
	dayID, ok := h.ParseID(c, "dayId", "itinerary day")
	if !ok {
		return
	}

	tour, err := h.tourService.RemoveItineraryDay(c.Request.Context(), id, dayID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}

// NextItineraryDay godoc
// @Summary      Suggest next itinerary day
// @Description  Return the lowest free day number, or full=true when every day is planned
// @Tags         admin-tours
// @Produce      json
// @Param        id path string true "Tour ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.NextDayResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/tours/{id}/itinerary/next-day [get]
func (h *TourHandler) NextItineraryDay(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}

	next, err := h.tourService.SuggestNextDay(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, next)
}

func (h *TourHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*catalogapp.TourResponse, error)) {
	id, ok := h.ParseID(c, "id", "tour")
	if !ok {
		return
	}

	tour, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, tour)
}
