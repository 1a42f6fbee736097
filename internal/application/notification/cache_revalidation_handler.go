package notification

import (
	"context"

	"github.com/tourbook/backend/internal/domain/blog"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Cache tags shared by the public response cache and the dashboards
const (
	TagTours        = "tours"
	TagDestinations = "destinations"
	TagAttractions  = "attractions"
	TagCategories   = "categories"
	TagTeam         = "team"
	TagDashboard    = "dashboard"
	TagBookings     = "bookings"
	TagBlog         = "blog"
)

// TourTag is the tag of one tour detail page
func TourTag(slug string) string { return "tour:" + slug }

// PostTag is the tag of one blog post page
func PostTag(slug string) string { return "post:" + slug }

// CacheInvalidator drops cached entries by tag
type CacheInvalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

// CacheRevalidationHandler invalidates cached pages when the data behind them changes
type CacheRevalidationHandler struct {
	cache  CacheInvalidator
	logger *zap.Logger
}

// NewCacheRevalidationHandler creates a CacheRevalidationHandler
func NewCacheRevalidationHandler(cache CacheInvalidator, logger *zap.Logger) *CacheRevalidationHandler {
	return &CacheRevalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the booking, tour and post events
func (h *CacheRevalidationHandler) EventTypes() []string {
	return []string{
		booking.EventTypeBookingCreated,
		booking.EventTypeBookingStatusChanged,
		booking.EventTypeBookingCancelled,
		booking.EventTypeBookingRescheduled,
		catalog.EventTypeTourPublished,
		catalog.EventTypeTourUpdated,
		catalog.EventTypeTourDeleted,
		blog.EventTypePostPublished,
		blog.EventTypePostUpdated,
		blog.EventTypePostDeleted,
	}
}

// Handle invalidates the tags affected by the event
func (h *CacheRevalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	tags := TagsFor(event)
	if len(tags) == 0 {
		return nil
	}
	if err := h.cache.InvalidateTags(ctx, tags...); err != nil {
		h.logger.Warn("Cache revalidation failed",
			zap.String("event_type", event.EventType()),
			zap.Strings("tags", tags),
			zap.Error(err))
		return err
	}
	h.logger.Debug("Cache revalidated", zap.String("event_type", event.EventType()), zap.Strings("tags", tags))
	return nil
}

// TagsFor returns the cache tags an event invalidates
func TagsFor(event shared.DomainEvent) []string {
	switch e := event.(type) {
	case *booking.BookingCreatedEvent:
		return []string{TagTours, TourTag(e.TourSlug), TagDashboard, TagBookings}
	case *booking.BookingStatusChangedEvent:
		return []string{TagTours, TourTag(e.TourSlug), TagDashboard, TagBookings}
	case *booking.BookingCancelledEvent:
		return []string{TagTours, TagDashboard, TagBookings}
	case *booking.BookingRescheduledEvent:
		return []string{TagTours, TourTag(e.TourSlug), TagDashboard, TagBookings}
	case *catalog.TourPublishedEvent:
		return []string{TagTours, TourTag(e.Slug), TagDestinations, TagDashboard}
	case *catalog.TourUpdatedEvent:
		return []string{TagTours, TourTag(e.Slug), TagDestinations}
	case *catalog.TourDeletedEvent:
		return []string{TagTours, TourTag(e.Slug), TagDestinations, TagDashboard}
	case *blog.PostEvent:
		return []string{TagBlog, PostTag(e.Slug)}
	}
	return nil
}

var _ shared.EventHandler = (*CacheRevalidationHandler)(nil)
