package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
	"github.com/tourbook/backend/internal/interfaces/http/dto"
	"github.com/tourbook/backend/internal/interfaces/http/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testPassword = "correct-horse-42"

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// envelope mirrors dto.Response with a typed data field
type envelope[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data"`
	Error   *dto.ErrorInfo `json:"error"`
	Meta    *dto.Meta      `json:"meta"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(persistence.Models()...))
	return db
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "tourbook-test",
	})
}

// actAs stands in for the JWT middleware by planting claims for the given user
func actAs(userID uuid.UUID, role identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := &auth.Claims{UserID: userID.String(), Role: string(role), TokenType: auth.TokenTypeAccess}
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Set(middleware.JWTRoleKey, claims.Role)
		c.Next()
	}
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(mw...)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var out envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	resp := decode[json.RawMessage](t, rec)
	require.NotNil(t, resp.Error, rec.Body.String())
	return resp.Error.Code
}

func seedUser(t *testing.T, db *gorm.DB, name, email string, role identity.Role) *identity.User {
	t.Helper()
	user, err := identity.NewUser(name, email, testPassword)
	require.NoError(t, err)
	require.NoError(t, user.ChangeRole(role))
	require.NoError(t, persistence.NewGormUserRepository(db).Save(context.Background(), user))
	return user
}

func seedDestination(t *testing.T, db *gorm.DB, name string) *catalog.Destination {
	t.Helper()
	d, err := catalog.NewDestination(name, "", "Portugal", "", "")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormDestinationRepository(db).Save(context.Background(), d))
	return d
}

func seedTour(t *testing.T, db *gorm.DB, destinationID uuid.UUID, title, price string, published bool) *catalog.Tour {
	t.Helper()
	tour, err := catalog.NewTour(catalog.TourDetails{
		Title:         title,
		Summary:       "A day around " + title,
		DestinationID: destinationID,
		Price:         decimal.RequireFromString(price),
		DurationDays:  2,
		MaxGroupSize:  12,
		CoverImage:    "https://cdn.example.com/tour/cover.jpg",
	})
	require.NoError(t, err)
	if published {
		require.NoError(t, tour.Publish())
	}
	require.NoError(t, persistence.NewGormTourRepository(db).Save(context.Background(), tour))
	return tour
}
