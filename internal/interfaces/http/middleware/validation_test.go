package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/interfaces/http/dto"
)

func newTestValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

func TestSlugValidation(t *testing.T) {
	v := newTestValidator()

	for _, ok := range []string{"lisbon", "douro-valley-2026", "a1"} {
		assert.NoError(t, v.Var(ok, "slug"), ok)
	}
	for _, bad := range []string{"Lisbon", "douro--valley", "-lisbon", "lisbon-", "são-miguel", "with space", ""} {
		assert.Error(t, v.Var(bad, "slug"), bad)
	}
}

func TestFutureDateValidation(t *testing.T) {
	v := newTestValidator()
	validatorNow = func() time.Time { return time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC) }
	t.Cleanup(func() { validatorNow = time.Now })

	assert.NoError(t, v.Var("2026-10-18", "future_date"), "today is allowed")
	assert.NoError(t, v.Var("2027-01-05", "future_date"))
	assert.Error(t, v.Var("2026-10-17", "future_date"))
	// malformed input is reported by the datetime tag instead
	assert.NoError(t, v.Var("18/10/2026", "future_date"))
	assert.Error(t, v.Var("18/10/2026", "datetime=2006-01-02,future_date"))
}

func TestHandleValidationError(t *testing.T) {
	type bookingForm struct {
		Email      string `json:"email" binding:"required,email"`
		People     int    `json:"people" binding:"required,min=1"`
		Slug       string `json:"slug" binding:"omitempty,slug"`
		TravelDate string `json:"travel_date" binding:"required,datetime=2006-01-02"`
	}

	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var req bookingForm
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})

	t.Run("returns field details keyed by json name", func(t *testing.T) {
		body := strings.NewReader(`{"email":"invalid","people":0,"slug":"Bad Slug","travel_date":"2026-13-01"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)

		rules := map[string]string{}
		for _, d := range resp.Error.Details {
			rules[d.Field] = d.Rule
		}
		assert.Equal(t, map[string]string{
			"email":       "email",
			"people":      "required",
			"slug":        "slug",
			"travel_date": "datetime",
		}, rules)
	})

	t.Run("passes valid input", func(t *testing.T) {
		body := strings.NewReader(`{"email":"ana@example.com","people":2,"slug":"alfama","travel_date":"2026-11-20"}`)
		req := httptest.NewRequest(http.MethodPost, "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	type form struct {
		Name  string `json:"name" validate:"min=3"`
		Count int    `json:"count" validate:"max=5"`
		Kind  string `json:"kind" validate:"oneof=tour blog"`
	}

	err := newTestValidator().Struct(form{Name: "ab", Count: 9, Kind: "team"})
	require.Error(t, err)

	messages := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		messages[fe.Field()] = getValidationMessage(fe)
	}
	assert.Equal(t, "Must be at least 3 characters", messages["name"])
	assert.Equal(t, "Must be at most 5", messages["count"])
	assert.Equal(t, "Must be one of: tour blog", messages["kind"])
}
