package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler("tourbook", "1.2.3")
	h.AddCheck("database", func(context.Context) error { return nil })

	r := newRouter()
	r.GET("/health", h.Health)

	rec := doRequest(t, r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "ok", resp.Data.Status)
	assert.Equal(t, "tourbook", resp.Data.Name)
	assert.Equal(t, "1.2.3", resp.Data.Version)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.Equal(t, map[string]string{"database": "up"}, resp.Data.Checks)
}

func TestSystemHandler_HealthDegraded(t *testing.T) {
	h := NewSystemHandler("tourbook", "1.2.3")
	h.AddCheck("database", func(context.Context) error { return nil })
	h.AddCheck("redis", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return errors.New("dial tcp: connection refused")
	})

	r := newRouter()
	r.GET("/health", h.Health)

	rec := doRequest(t, r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decode[HealthResponse](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "degraded", resp.Data.Status)
	assert.Equal(t, "up", resp.Data.Checks["database"])
	assert.Equal(t, "down: dial tcp: connection refused", resp.Data.Checks["redis"])
}
