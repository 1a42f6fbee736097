package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandlerFromRoute(t *testing.T) {
	cases := map[string]string{
		"/api/v1/tours/:slug":                      "tours",
		"/api/v1/admin/tours/:id/itinerary":        "tours",
		"/api/v1/admin/analytics/overview":         "analytics",
		"/api/v2/bookings":                         "bookings",
		"/health":                                  "health",
		"/swagger/*any":                            "swagger",
		"/api/v1/:id":                              "",
		"":                                         "",
		"/api/version/items":                       "version",
		"/api/v1/auth/me":                          "auth",
		"/api/v1/admin/bookings/:id/status":        "bookings",
		"/api/v1/admin/team/order":                 "team",
		"/api/v1/bookings/:id/voucher":             "bookings",
		"/api/v1/admin/tours/:id/itinerary/:dayId": "tours",
	}
	for route, want := range cases {
		assert.Equal(t, want, handlerFromRoute(route), route)
	}
}

func TestProfiling_RunsHandler(t *testing.T) {
	for _, cfg := range []ProfilingConfig{
		{},
		{Enabled: true, SkipPathPrefixes: []string{"/swagger"}},
	} {
		router := gin.New()
		router.Use(Profiling(cfg))
		router.GET("/api/v1/tours/:slug", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

		for _, path := range []string{"/api/v1/tours/alfama", "/swagger/index.html"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	}
}
