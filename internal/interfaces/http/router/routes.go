package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tourbook/backend/internal/application/notification"
	"github.com/tourbook/backend/internal/interfaces/http/handler"
	"github.com/tourbook/backend/internal/interfaces/http/middleware"
)

// Handlers are the HTTP handlers served under the API base path
type Handlers struct {
	Auth        *handler.AuthHandler
	Tour        *handler.TourHandler
	Destination *handler.DestinationHandler
	Attraction  *handler.AttractionHandler
	Category    *handler.CategoryHandler
	Blog        *handler.BlogHandler
	Team        *handler.TeamHandler
	User        *handler.UserHandler
	Booking     *handler.BookingHandler
	Dashboard   *handler.DashboardHandler
	Media       *handler.MediaHandler
}

// Guards are the middleware placed in front of route groups.
// Every field is optional.
type Guards struct {
	// Authenticate requires a valid access token
	Authenticate gin.HandlerFunc
	// AuthRateLimit throttles the credential endpoints
	AuthRateLimit gin.HandlerFunc
	// Cache wraps public GET routes with the response cache
	Cache func(tags middleware.TagsFunc) gin.HandlerFunc
}

func (g Guards) cached(tags middleware.TagsFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	if g.Cache == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{g.Cache(tags), h}
}

// DomainGroups builds the route groups of the booking API
func DomainGroups(h Handlers, g Guards) []*DomainGroup {
	return []*DomainGroup{
		publicRoutes(h, g),
		authRoutes(h, g),
		customerRoutes(h, g),
		adminRoutes(h, g),
	}
}

func publicRoutes(h Handlers, g Guards) *DomainGroup {
	public := NewDomainGroup("public", "")

	public.GET("/tours", g.cached(middleware.StaticTags(notification.TagTours), h.Tour.ListPublished)...)
	public.GET("/tours/:slug", g.cached(middleware.ParamTags("slug", "tour:", notification.TagTours), h.Tour.GetBySlug)...)

	public.GET("/destinations", g.cached(middleware.StaticTags(notification.TagDestinations), h.Destination.List)...)
	public.GET("/destinations/:slug", g.cached(
		middleware.ParamTags("slug", "destination:", notification.TagDestinations, notification.TagAttractions, notification.TagTours),
		h.Destination.GetBySlug)...)

	public.GET("/attractions", g.cached(middleware.StaticTags(notification.TagAttractions), h.Attraction.ListActive)...)
	public.GET("/attractions/:slug", g.cached(middleware.ParamTags("slug", "attraction:", notification.TagAttractions), h.Attraction.GetBySlug)...)

	public.GET("/categories", g.cached(middleware.StaticTags(notification.TagCategories), h.Category.List)...)

	public.GET("/blog", g.cached(middleware.StaticTags(notification.TagBlog), h.Blog.ListPublished)...)
	public.GET("/blog/:slug", g.cached(middleware.ParamTags("slug", "post:", notification.TagBlog), h.Blog.GetBySlug)...)

	public.GET("/team", g.cached(middleware.StaticTags(notification.TagTeam), h.Team.ListActive)...)

	return public
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	authGroup := NewDomainGroup("auth", "/auth")

	credentials := authGroup.Group("credentials", "").Use(g.AuthRateLimit)
	credentials.POST("/register", h.Auth.Register)
	credentials.POST("/login", h.Auth.Login)
	credentials.POST("/refresh", h.Auth.Refresh)

	session := authGroup.Group("session", "").Use(g.Authenticate)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/me", h.Auth.UpdateProfile)
	session.PUT("/password", h.Auth.ChangePassword)

	return authGroup
}

func customerRoutes(h Handlers, g Guards) *DomainGroup {
	customer := NewDomainGroup("customer", "").Use(g.Authenticate)

	customer.POST("/bookings", h.Booking.Create)
	customer.GET("/bookings", h.Booking.ListMine)
	customer.GET("/bookings/:id", h.Booking.GetMine)
	customer.POST("/bookings/:id/cancel", h.Booking.CancelMine)
	customer.GET("/bookings/:id/voucher", h.Booking.VoucherMine)

	customer.GET("/dashboard", h.Dashboard.UserOverview)

	return customer
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(g.Authenticate, middleware.RequireAdmin())

	tours := admin.Group("tours", "/tours")
	tours.GET("", h.Tour.List)
	tours.POST("", h.Tour.Create)
	tours.GET("/:id", h.Tour.GetByID)
	tours.PUT("/:id", h.Tour.Update)
	tours.DELETE("/:id", h.Tour.Delete)
	tours.POST("/:id/publish", h.Tour.Publish)
	tours.POST("/:id/unpublish", h.Tour.Unpublish)
	tours.POST("/:id/archive", h.Tour.Archive)
	tours.POST("/:id/feature", h.Tour.Feature)
	tours.POST("/:id/itinerary", h.Tour.AddItineraryDay)
	tours.GET("/:id/itinerary/next-day", h.Tour.NextItineraryDay)
	tours.PUT("/:id/itinerary/:dayId", h.Tour.UpdateItineraryDay)
	tours.DELETE("/:id/itinerary/:dayId", h.Tour.RemoveItineraryDay)

	destinations := admin.Group("destinations", "/destinations")
	destinations.GET("", h.Destination.List)
	destinations.POST("", h.Destination.Create)
	destinations.GET("/:id", h.Destination.GetByID)
	destinations.PUT("/:id", h.Destination.Update)
	destinations.DELETE("/:id", h.Destination.Delete)

	attractions := admin.Group("attractions", "/attractions")
	attractions.GET("", h.Attraction.List)
	attractions.POST("", h.Attraction.Create)
	attractions.GET("/:id", h.Attraction.GetByID)
	attractions.PUT("/:id", h.Attraction.Update)
	attractions.DELETE("/:id", h.Attraction.Delete)
	attractions.POST("/:id/activate", h.Attraction.Activate)
	attractions.POST("/:id/deactivate", h.Attraction.Deactivate)

	categories := admin.Group("categories", "/categories")
	categories.GET("", h.Category.List)
	categories.POST("", h.Category.Create)
	categories.PUT("/:id", h.Category.Update)
	categories.DELETE("/:id", h.Category.Delete)

	blog := admin.Group("blog", "/blog")
	blog.GET("", h.Blog.List)
	blog.POST("", h.Blog.Create)
	blog.GET("/:id", h.Blog.Get)
	blog.PUT("/:id", h.Blog.Update)
	blog.DELETE("/:id", h.Blog.Delete)
	blog.POST("/:id/publish", h.Blog.Publish)
	blog.POST("/:id/unpublish", h.Blog.Unpublish)

	team := admin.Group("team", "/team")
	team.GET("", h.Team.List)
	team.POST("", h.Team.Create)
	team.PUT("/order", h.Team.Reorder)
	team.GET("/:id", h.Team.Get)
	team.PUT("/:id", h.Team.Update)
	team.DELETE("/:id", h.Team.Delete)

	bookings := admin.Group("bookings", "/bookings")
	bookings.GET("", h.Booking.List)
	bookings.GET("/:id", h.Booking.Get)
	bookings.PUT("/:id", h.Booking.Update)
	bookings.DELETE("/:id", h.Booking.Delete)
	bookings.PATCH("/:id/status", h.Booking.UpdateStatus)
	bookings.GET("/:id/voucher", h.Booking.Voucher)

	users := admin.Group("users", "/users")
	users.GET("", h.User.List)
	users.GET("/:id", h.User.Get)
	users.PATCH("/:id/role", h.User.ChangeRole)
	users.POST("/:id/disable", h.User.Disable)
	users.POST("/:id/enable", h.User.Enable)

	analytics := admin.Group("analytics", "/analytics")
	analytics.GET("/overview", h.Dashboard.AdminOverview)
	analytics.GET("/revenue", h.Dashboard.RevenueSeries)

	media := admin.Group("media", "/media")
	media.POST("/presign", h.Media.Presign)
	media.DELETE("", h.Media.Delete)

	return admin
}
