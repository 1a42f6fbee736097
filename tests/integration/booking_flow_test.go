//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bookingapp "github.com/tourbook/backend/internal/application/booking"
	catalogapp "github.com/tourbook/backend/internal/application/catalog"
	identityapp "github.com/tourbook/backend/internal/application/identity"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/auth"
	"github.com/tourbook/backend/internal/infrastructure/config"
	"github.com/tourbook/backend/internal/infrastructure/migration"
	"github.com/tourbook/backend/internal/infrastructure/persistence"
	"github.com/tourbook/backend/internal/interfaces/http/handler"
	"github.com/tourbook/backend/internal/interfaces/http/middleware"
	"github.com/tourbook/backend/internal/interfaces/http/router"
	"github.com/tourbook/backend/tests/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	seedFile      = "../../seeds/tourbook.yaml"
	adminEmail    = "admin@tourbook.local"
	adminPassword = "change-me-please"
	seededTour    = "douro-harvest-week"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

type stack struct {
	engine   *gin.Engine
	bookings *bookingapp.BookingService
	tours    *persistence.GormTourRepository
	users    *persistence.GormUserRepository
}

// newStack wires the repositories, services and router the server uses
func newStack(t *testing.T, db *gorm.DB) *stack {
	t.Helper()
	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(db)
	tourRepo := persistence.NewGormTourRepository(db)
	destRepo := persistence.NewGormDestinationRepository(db)
	catRepo := persistence.NewGormCategoryRepository(db)
	bookingRepo := persistence.NewGormBookingRepository(db)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-key-32-chars-min",
		RefreshSecret:          "integration-refresh-key-32-chars-min",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "tourbook-integration",
	})
	authService := identityapp.NewAuthService(userRepo, jwtService, auth.NewInMemoryTokenBlacklist(), log)
	tourService := catalogapp.NewTourService(tourRepo, destRepo, catRepo, bookingRepo, log)
	bookingService := bookingapp.NewBookingService(bookingRepo, tourRepo, userRepo,
		persistence.NewGormTransactionScope(db), log)

	engine := gin.New()
	r := router.NewRouter(engine)
	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Checker:    authService,
			Logger:     log,
		}),
	}
	handlers := router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Tour:    handler.NewTourHandler(tourService),
		Booking: handler.NewBookingHandler(bookingService),
	}
	for _, g := range router.DomainGroups(handlers, guards) {
		r.Register(g)
	}
	r.Setup()

	return &stack{engine: engine, bookings: bookingService, tours: tourRepo, users: userRepo}
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()

	data, err := migration.LoadSeedFile(seedFile)
	require.NoError(t, err)
	seeder := migration.NewSeeder(migration.SeedRepositories{
		Users:        persistence.NewGormUserRepository(db),
		Team:         persistence.NewGormTeamMemberRepository(db),
		Categories:   persistence.NewGormCategoryRepository(db),
		Destinations: persistence.NewGormDestinationRepository(db),
		Attractions:  persistence.NewGormAttractionRepository(db),
		Tours:        persistence.NewGormTourRepository(db),
	}, zap.NewNop())
	_, err = seeder.Seed(context.Background(), data)
	require.NoError(t, err)
}

type session struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	} `json:"user"`
}

type tourView struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	MaxGroupSize int       `json:"max_group_size"`
	Itinerary    []struct {
		DayNumber int `json:"day_number"`
	} `json:"itinerary"`
}

type bookingView struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	People      int       `json:"people"`
	Status      string    `json:"status"`
}

func api(path string) string { return "/api/v1" + path }

func bookingRequest(tourID uuid.UUID, days, people int) map[string]any {
	return map[string]any{
		"tour_id":       tourID,
		"travel_date":   testutil.TravelDate(days).Format("2006-01-02"),
		"people":        people,
		"contact_name":  "Ana Sousa",
		"contact_email": "ana@example.com",
	}
}

func TestBookingFlow_EndToEnd(t *testing.T) {
	tdb := NewTestDB(t)
	seed(t, tdb.DB)
	s := newStack(t, tdb.DB)

	admin := testutil.RequireData[session](t, testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/auth/login"),
		Body:   map[string]string{"email": adminEmail, "password": adminPassword},
	}), http.StatusOK)
	assert.Equal(t, string(identity.RoleAdmin), admin.User.Role)

	customer := testutil.RequireData[session](t, testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/auth/register"),
		Body:   map[string]string{"name": "Ana Sousa", "email": "ana@example.com", "password": "correct-horse-42"},
	}), http.StatusCreated)
	assert.Equal(t, string(identity.RoleUser), customer.User.Role)

	tour := testutil.RequireData[tourView](t, testutil.Do(t, s.engine, testutil.Request{
		Path: api("/tours/" + seededTour),
	}), http.StatusOK)
	assert.Len(t, tour.Itinerary, 3)

	// anonymous callers cannot book
	w := testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/bookings"),
		Body:   bookingRequest(tour.ID, 30, 2),
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	created := testutil.RequireData[bookingView](t, testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/bookings"),
		Body:   bookingRequest(tour.ID, 30, 2),
		Token:  customer.AccessToken,
	}), http.StatusCreated)
	assert.Equal(t, "pending", created.Status)
	assert.Regexp(t, `^BK-\d{4}-\d{5}$`, created.OrderNumber)

	// customers cannot reach the admin surface
	w = testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPatch,
		Path:   api(fmt.Sprintf("/admin/bookings/%s/status", created.ID)),
		Body:   map[string]string{"status": "confirmed"},
		Token:  customer.AccessToken,
	})
	testutil.AssertError(t, w, http.StatusForbidden, "FORBIDDEN")

	confirmed := testutil.RequireData[bookingView](t, testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPatch,
		Path:   api(fmt.Sprintf("/admin/bookings/%s/status", created.ID)),
		Body:   map[string]string{"status": "confirmed"},
		Token:  admin.AccessToken,
	}), http.StatusOK)
	assert.Equal(t, "confirmed", confirmed.Status)

	mine := testutil.RequireData[[]bookingView](t, testutil.Do(t, s.engine, testutil.Request{
		Path:  api("/bookings"),
		Token: customer.AccessToken,
	}), http.StatusOK)
	require.Len(t, mine, 1)
	assert.Equal(t, "confirmed", mine[0].Status)

	// seats left on that date are max group size minus the confirmed party
	w = testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/bookings"),
		Body:   bookingRequest(tour.ID, 30, tour.MaxGroupSize-1),
		Token:  customer.AccessToken,
	})
	testutil.AssertError(t, w, http.StatusConflict, "TOUR_CAPACITY_EXCEEDED")

	// logging out revokes the access token
	w = testutil.Do(t, s.engine, testutil.Request{
		Method: http.MethodPost,
		Path:   api("/auth/logout"),
		Token:  customer.AccessToken,
	})
	require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
	w = testutil.Do(t, s.engine, testutil.Request{Path: api("/bookings"), Token: customer.AccessToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookingService_ConcurrentCapacity(t *testing.T) {
	tdb := NewTestDB(t)
	seed(t, tdb.DB)
	s := newStack(t, tdb.DB)
	ctx := context.Background()

	tour, err := s.tours.FindBySlug(ctx, seededTour)
	require.NoError(t, err)

	const callers = 10
	const party = 3
	customers := make([]uuid.UUID, callers)
	for i := range customers {
		u, err := identity.NewUser(fmt.Sprintf("Guest %d", i), fmt.Sprintf("guest%d@example.com", i), "correct-horse-42")
		require.NoError(t, err)
		require.NoError(t, s.users.Save(ctx, u))
		customers[i] = u.ID
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		orders   = map[string]bool{}
		rejected int
		failures []error
	)
	for _, id := range customers {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			resp, err := s.bookings.Create(ctx, userID, bookingapp.CreateBookingRequest{
				TourID:       tour.ID,
				TravelDate:   testutil.TravelDate(45).Format("2006-01-02"),
				People:       party,
				ContactName:  "Guest",
				ContactEmail: "guest@example.com",
			})

			mu.Lock()
			defer mu.Unlock()
			var domainErr *shared.DomainError
			switch {
			case err == nil:
				orders[resp.OrderNumber] = true
			case errors.As(err, &domainErr) && domainErr.Code == "TOUR_CAPACITY_EXCEEDED":
				rejected++
			default:
				failures = append(failures, err)
			}
		}(id)
	}
	wg.Wait()

	require.Empty(t, failures)
	accepted := tour.MaxGroupSize / party
	assert.Len(t, orders, accepted, "each accepted booking has its own order number")
	assert.Equal(t, callers-accepted, rejected)

	var seats int64
	require.NoError(t, tdb.DB.Table("bookings").
		Where("tour_id = ? AND status <> ?", tour.ID, "cancelled").
		Select("COALESCE(SUM(people), 0)").
		Scan(&seats).Error)
	assert.LessOrEqual(t, int(seats), tour.MaxGroupSize)
}

func TestBookingService_ConcurrentOrderNumbersAcrossTours(t *testing.T) {
	tdb := NewTestDB(t)
	seed(t, tdb.DB)
	s := newStack(t, tdb.DB)
	ctx := context.Background()

	var tourIDs []uuid.UUID
	for _, slug := range []string{seededTour, "dolomites-hut-to-hut"} {
		tour, err := s.tours.FindBySlug(ctx, slug)
		require.NoError(t, err)
		tourIDs = append(tourIDs, tour.ID)
	}

	const perTour = 4
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		orders   = map[string]bool{}
		failures []error
	)
	for i := range perTour * len(tourIDs) {
		u, err := identity.NewUser(fmt.Sprintf("Walker %d", i), fmt.Sprintf("walker%d@example.com", i), "correct-horse-42")
		require.NoError(t, err)
		require.NoError(t, s.users.Save(ctx, u))

		wg.Add(1)
		go func(userID, tourID uuid.UUID) {
			defer wg.Done()
			resp, err := s.bookings.Create(ctx, userID, bookingapp.CreateBookingRequest{
				TourID:       tourID,
				TravelDate:   testutil.TravelDate(60).Format("2006-01-02"),
				People:       1,
				ContactName:  "Walker",
				ContactEmail: "walker@example.com",
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			assert.False(t, orders[resp.OrderNumber], "duplicate order number %s", resp.OrderNumber)
			orders[resp.OrderNumber] = true
		}(u.ID, tourIDs[i%len(tourIDs)])
	}
	wg.Wait()

	require.Empty(t, failures)
	assert.Len(t, orders, perTour*len(tourIDs))

	var last int64
	require.NoError(t, tdb.DB.Table("booking_order_sequences").
		Where("year = ?", time.Now().Year()).
		Select("last_number").
		Scan(&last).Error)
	assert.Equal(t, int64(perTour*len(tourIDs)), last)
}
