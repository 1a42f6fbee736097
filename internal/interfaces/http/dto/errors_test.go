package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{"VOUCHER_UNAVAILABLE", http.StatusServiceUnavailable},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{"INVALID_CREDENTIALS", http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{"USER_DISABLED", http.StatusForbidden},
		{"CANNOT_MODIFY_SELF", http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"TOUR_CAPACITY_EXCEEDED", http.StatusConflict},
		{"TOUR_HAS_BOOKINGS", http.StatusConflict},
		{"DESTINATION_IN_USE", http.StatusConflict},
		{"CONCURRENT_MODIFICATION", http.StatusConflict},
		{"INVALID_STATE", http.StatusUnprocessableEntity},
		{"TOUR_NOT_BOOKABLE", http.StatusUnprocessableEntity},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeBodyTooLarge, http.StatusRequestEntityTooLarge},
		// unmapped domain codes are input errors
		{"INVALID_PEOPLE", http.StatusBadRequest},
		{"SOMETHING_NEW", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("TOUR_CAPACITY_EXCEEDED", "Only 2 places left", "req-123")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "TOUR_CAPACITY_EXCEEDED", resp.Error.Code)
	assert.Equal(t, "Only 2 places left", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "email", Rule: "email", Message: "email must be a valid email address"},
		{Field: "people", Rule: "min", Message: "people must be at least 1"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Equal(t, details, resp.Error.Details)
}

func TestErrorResponseJSON(t *testing.T) {
	data, err := json.Marshal(NewErrorResponse(ErrCodeNotFound, "Tour not found"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"NOT_FOUND","message":"Tour not found"}}`, string(data))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"slug": "lisbon-food-walk"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
	}{
		{100, 10, 10},
		{101, 10, 11},
		{0, 10, 0},
		{9, 10, 1},
		{11, 10, 2},
		{100, 0, 0},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]string{}, tt.total, 2, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.total, resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, tt.pageSize, resp.Meta.PageSize)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages, "total=%d size=%d", tt.total, tt.pageSize)
	}
}
