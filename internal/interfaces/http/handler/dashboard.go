package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/application/analytics"
)

// DashboardHandler serves the admin analytics and the customer dashboard
type DashboardHandler struct {
	BaseHandler
	dashboardService *analytics.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *analytics.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// AdminOverview godoc
// @Summary      Admin dashboard
// @Description  Bookings, revenue, cancellations and new users for a range, each compared with the previous period of equal length
// @Tags         admin-analytics
// @Produce      json
// @Param        range query string false "Preset range" Enums(7d, 30d, 90d, 12m, ytd, custom) default(30d)
// @Param        from query string false "Custom range start (YYYY-MM-DD)"
// @Param        to query string false "Custom range end (YYYY-MM-DD)"
// @Param        granularity query string false "Series bucket" Enums(day, week, month)
// @Success      200 {object} dto.Response{data=analytics.AdminOverview}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/analytics/overview [get]
func (h *DashboardHandler) AdminOverview(c *gin.Context) {
	var q analytics.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	overview, err := h.dashboardService.AdminOverview(c.Request.Context(), q)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, overview)
}

// RevenueSeries godoc
// @Summary      Revenue chart
// @Description  Revenue and booking counts bucketed by day, week or month
// @Tags         admin-analytics
// @Produce      json
// @Param        range query string false "Preset range" Enums(7d, 30d, 90d, 12m, ytd, custom) default(30d)
// @Param        from query string false "Custom range start (YYYY-MM-DD)"
// @Param        to query string false "Custom range end (YYYY-MM-DD)"
// @Param        granularity query string false "Series bucket" Enums(day, week, month)
// @Success      200 {object} dto.Response{data=analytics.RevenueSeries}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/analytics/revenue [get]
func (h *DashboardHandler) RevenueSeries(c *gin.Context) {
	var q analytics.RangeQuery
	if !h.BindQuery(c, &q) {
		return
	}

	series, err := h.dashboardService.RevenueSeries(c.Request.Context(), q)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, series)
}

// UserOverview godoc
// @Summary      My dashboard
// @Description  Upcoming trips, recent bookings and total spent of the signed-in user
// @Tags         bookings
// @Produce      json
// @Success      200 {object} dto.Response{data=analytics.UserOverview}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *DashboardHandler) UserOverview(c *gin.Context) {
	userID, ok := h.CurrentUser(c)
	if !ok {
		return
	}

	overview, err := h.dashboardService.UserOverview(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, overview)
}
