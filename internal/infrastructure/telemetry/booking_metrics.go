package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/shared"
)

// ErrMeterNil is returned when a metrics component is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// TourCounter reports how many tours are in a given status.
type TourCounter interface {
	CountTours(ctx context.Context, status string) (int64, error)
}

// BookingMetrics turns booking events into business counters and reports
// the tour catalogue size on every collection cycle. It is registered on
// the event bus like any other handler.
type BookingMetrics struct {
	logger *zap.Logger

	created       *Counter
	cancelled     *Counter
	transitions   *Counter
	travellers    *Counter
	bookingValue  *Histogram
	registrations []metric.Registration
}

// BookingValueBuckets are bucket boundaries for booking totals in USD.
var BookingValueBuckets = []float64{100, 250, 500, 1000, 2500, 5000, 10000}

// NewBookingMetrics registers the booking instruments on meter. tours may be
// nil, in which case no catalogue gauge is reported.
func NewBookingMetrics(meter metric.Meter, tours TourCounter, logger *zap.Logger) (*BookingMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &BookingMetrics{logger: logger}

	var err error
	if m.created, err = NewCounter(meter, "tourbook.bookings.created", "Bookings placed", "{booking}"); err != nil {
		return nil, err
	}
	if m.cancelled, err = NewCounter(meter, "tourbook.bookings.cancelled", "Bookings cancelled", "{booking}"); err != nil {
		return nil, err
	}
	if m.transitions, err = NewCounter(meter, "tourbook.bookings.transitions", "Booking status transitions by target status", "{transition}"); err != nil {
		return nil, err
	}
	if m.travellers, err = NewCounter(meter, "tourbook.bookings.travellers", "Travellers across placed bookings", "{person}"); err != nil {
		return nil, err
	}
	if m.bookingValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "tourbook.bookings.value",
		Description: "Booking total price",
		Unit:        "USD",
		Buckets:     BookingValueBuckets,
	}); err != nil {
		return nil, err
	}

	if tours != nil {
		if err := m.observeTours(meter, tours); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *BookingMetrics) observeTours(meter metric.Meter, tours TourCounter) error {
	gauge, err := meter.Int64ObservableGauge("tourbook.tours",
		metric.WithDescription("Tours in the catalogue by status"),
		metric.WithUnit("{tour}"),
	)
	if err != nil {
		return err
	}
	reg, err := meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		for _, status := range []catalog.TourStatus{catalog.TourStatusDraft, catalog.TourStatusPublished, catalog.TourStatusArchived} {
			n, err := tours.CountTours(ctx, string(status))
			if err != nil {
				m.logger.Warn("Failed to count tours for metrics", zap.String("status", string(status)), zap.Error(err))
				continue
			}
			o.ObserveInt64(gauge, n, metric.WithAttributes(AttrTourStatus.String(string(status))))
		}
		return nil
	}, gauge)
	if err != nil {
		return err
	}
	m.registrations = append(m.registrations, reg)
	return nil
}

// EventTypes implements shared.EventHandler.
func (m *BookingMetrics) EventTypes() []string {
	return []string{
		booking.EventTypeBookingCreated,
		booking.EventTypeBookingStatusChanged,
		booking.EventTypeBookingCancelled,
	}
}

// Handle implements shared.EventHandler. It never fails.
func (m *BookingMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *booking.BookingCreatedEvent:
		slug := AttrTourSlug.String(e.TourSlug)
		m.created.Inc(ctx, slug)
		m.travellers.Add(ctx, int64(e.People), slug)
		m.bookingValue.Record(ctx, e.TotalPrice.InexactFloat64(), slug)
	case *booking.BookingStatusChangedEvent:
		m.transitions.Inc(ctx, AttrBookingStatus.String(string(e.ToStatus)))
	case *booking.BookingCancelledEvent:
		m.cancelled.Inc(ctx)
	}
	return nil
}

// Close unregisters the catalogue gauge callback.
func (m *BookingMetrics) Close() error {
	var errs []error
	for _, reg := range m.registrations {
		errs = append(errs, reg.Unregister())
	}
	m.registrations = nil
	return errors.Join(errs...)
}
