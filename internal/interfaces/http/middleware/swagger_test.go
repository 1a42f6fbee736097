package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/tourbook/backend/internal/infrastructure/config"
)

func TestSwaggerProtection(t *testing.T) {
	serve := func(cfg config.SwaggerConfig, remote string) int {
		router := gin.New()
		router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNotFound, serve(config.SwaggerConfig{}, "10.0.0.5:1234"))
	assert.Equal(t, http.StatusOK, serve(config.SwaggerConfig{Enabled: true}, "203.0.113.9:1234"))

	restricted := config.SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8", "192.168.1.20", "bogus"}}
	assert.Equal(t, http.StatusOK, serve(restricted, "10.4.2.1:1234"))
	assert.Equal(t, http.StatusOK, serve(restricted, "192.168.1.20:1234"))
	assert.Equal(t, http.StatusForbidden, serve(restricted, "192.168.1.21:1234"))
}

func TestIsIPAllowed(t *testing.T) {
	_, network, _ := net.ParseCIDR("172.16.0.0/12")
	allowed := []net.IP{net.ParseIP("::1")}

	assert.True(t, isIPAllowed(net.ParseIP("::1"), allowed, nil))
	assert.True(t, isIPAllowed(net.ParseIP("172.20.1.1"), nil, []*net.IPNet{network}))
	assert.False(t, isIPAllowed(net.ParseIP("172.32.0.1"), allowed, []*net.IPNet{network}))
	assert.False(t, isIPAllowed(nil, allowed, nil))
}
