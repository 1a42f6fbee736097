package dto

import "net/http"

// Codes produced by the HTTP layer itself. Domain codes pass through unchanged.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeBodyTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// Token failure codes
const (
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Codes missing from the map are treated as input errors.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeUnavailable:    http.StatusServiceUnavailable,
	"VOUCHER_UNAVAILABLE": http.StatusServiceUnavailable,

	// Auth -> 401 / 403
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	ErrCodeTokenRevoked:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	"USER_DISABLED":       http.StatusForbidden,
	"CANNOT_MODIFY_SELF":  http.StatusForbidden,

	// Resources -> 404 / 409
	ErrCodeNotFound:           http.StatusNotFound,
	"ALREADY_EXISTS":          http.StatusConflict,
	"EMAIL_ALREADY_EXISTS":    http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"TOUR_HAS_BOOKINGS":       http.StatusConflict,
	"DESTINATION_IN_USE":      http.StatusConflict,
	"CATEGORY_IN_USE":         http.StatusConflict,
	"TOUR_CAPACITY_EXCEEDED":  http.StatusConflict,
	"ITINERARY_DAY_CONFLICT":  http.StatusConflict,

	// Business rules -> 422
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"TOUR_NOT_BOOKABLE":   http.StatusUnprocessableEntity,
	"TOUR_INCOMPLETE":     http.StatusUnprocessableEntity,
	"CANCELLATION_CLOSED": http.StatusUnprocessableEntity,

	// Input -> 400
	ErrCodeBadRequest:        http.StatusBadRequest,
	ErrCodeValidation:        http.StatusBadRequest,
	ErrCodeInvalidJSON:       http.StatusBadRequest,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusBadRequest,

	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
