package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingapp "github.com/tourbook/backend/internal/application/booking"
)

// BookingHandler handles booking endpoints for customers and admins
type BookingHandler struct {
	BaseHandler
	bookingService *bookingapp.BookingService
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(bookingService *bookingapp.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// Create godoc
// @Summary      Book a tour
// @Description  Reserve places on a published tour for a travel date. Capacity is checked per tour and date.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        request body bookingapp.CreateBookingRequest true "Booking"
// @Success      201 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var req bookingapp.CreateBookingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, booking)
}

// ListMine godoc
// @Summary      List my bookings
// @Tags         bookings
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        status query string false "Status" Enums(pending, confirmed, paid, cancelled, completed)
// @Success      200 {object} dto.Response{data=[]bookingapp.BookingResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bookings [get]
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	var filter bookingapp.UserBookingFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	bookings, total, err := h.bookingService.ListForUser(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, bookings, total, page, pageSize)
}

// GetMine godoc
// @Summary      Get my booking
// @Tags         bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (h *BookingHandler) GetMine(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetForUser(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, booking)
}

// CancelMine godoc
// @Summary      Cancel my booking
// @Description  Cancel a pending or confirmed booking before the cancellation cut-off
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body bookingapp.CancelBookingRequest false "Reason"
// @Success      200 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (h *BookingHandler) CancelMine(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}
	var req bookingapp.CancelBookingRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.CancelForUser(c.Request.Context(), userID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, booking)
}

// VoucherMine godoc
// @Summary      Download my voucher
// @Description  Render the PDF voucher of a booking
// @Tags         bookings
// @Produce      application/pdf
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /bookings/{id}/voucher [get]
func (h *BookingHandler) VoucherMine(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}

	file, err := h.bookingService.VoucherForUser(c.Request.Context(), userID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.sendVoucher(c, file)
}

// List godoc
// @Summary      List bookings (admin)
// @Tags         admin-bookings
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search in order number, contact name and email"
// @Param        status query string false "Status" Enums(pending, confirmed, paid, cancelled, completed)
// @Param        tour_id query string false "Tour ID" format(uuid)
// @Param        from query string false "Travel date from (YYYY-MM-DD)"
// @Param        to query string false "Travel date to (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]bookingapp.BookingResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	var filter bookingapp.BookingListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	bookings, total, err := h.bookingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, bookings, total, page, pageSize)
}

// Get godoc
// @Summary      Get booking (admin)
// @Tags         admin-bookings
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}

	booking, err := h.bookingService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, booking)
}

// Update godoc
// @Summary      Update booking (admin)
// @Description  Change the travel date, party size or contact of an active booking. Capacity is re-checked.
// @Tags         admin-bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body bookingapp.UpdateBookingRequest true "Booking fields"
// @Success      200 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}
	var req bookingapp.UpdateBookingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, booking)
}

// UpdateStatus godoc
// @Summary      Change booking status (admin)
// @Description  Move a booking through pending, confirmed, paid, completed or cancelled
// @Tags         admin-bookings
// @Accept       json
// @Produce      json
// @Param        id path string true "Booking ID" format(uuid)
// @Param        request body bookingapp.UpdateStatusRequest true "Target status"
// @Success      200 {object} dto.Response{data=bookingapp.BookingResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}
	var req bookingapp.UpdateStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, booking)
}

// Delete godoc
// @Summary      Delete booking (admin)
// @Tags         admin-bookings
// @Param        id path string true "Booking ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings/{id} [delete]
func (h *BookingHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}

	if err := h.bookingService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// Voucher godoc
// @Summary      Download voucher (admin)
// @Tags         admin-bookings
// @Produce      application/pdf
// @Param        id path string true "Booking ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/voucher [get]
func (h *BookingHandler) Voucher(c *gin.Context) {
	id, ok := h.ParseID(c, "id", "booking")
	if !ok {
		return
	}

	file, err := h.bookingService.Voucher(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.sendVoucher(c, file)
}

func (h *BookingHandler) sendVoucher(c *gin.Context, file *bookingapp.VoucherFile) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, "application/pdf", file.Content)
}
