package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/catalog"
	"github.com/tourbook/backend/internal/domain/identity"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// VoucherRenderer renders the printable voucher of a booking
type VoucherRenderer interface {
	RenderVoucher(ctx context.Context, b *booking.Booking) ([]byte, error)
}

// BookingService handles reservations
type BookingService struct {
	bookingRepo    booking.BookingRepository
	tourRepo       catalog.TourRepository
	userRepo       identity.UserRepository
	txScope        TransactionScope
	voucher        VoucherRenderer
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewBookingService creates a new BookingService
func NewBookingService(
	bookingRepo booking.BookingRepository,
	tourRepo catalog.TourRepository,
	userRepo identity.UserRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		userRepo:    userRepo,
		txScope:     txScope,
		logger:      logger,
		now:         time.Now,
	}
}

// SetEventPublisher sets the publisher for booking events
func (s *BookingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetVoucherRenderer enables PDF vouchers
func (s *BookingService) SetVoucherRenderer(renderer VoucherRenderer) {
	s.voucher = renderer
}

// Create books a tour for the signed-in user
func (s *BookingService) Create(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, shared.ErrUnauthorized
	}

	tour, err := s.tourRepo.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, err
	}
	if !tour.IsBookable() {
		return nil, errTourNotBookable
	}

	now := s.now()
	travelDate, err := ParseDate(req.TravelDate)
	if err != nil {
		return nil, err
	}
	if booking.TruncateDate(travelDate).Before(booking.TruncateDate(now)) {
		return nil, shared.NewDomainError("INVALID_TRAVEL_DATE", "Travel date cannot be in the past")
	}
	if _, err := tour.TotalFor(req.People); err != nil {
		return nil, err
	}

	var created *booking.Booking
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.Tours().FindByIDForUpdate(ctx, req.TourID)
		if err != nil {
			return err
		}
		if !locked.IsBookable() {
			return errTourNotBookable
		}
		if err := checkCapacity(ctx, repos.Bookings(), locked, travelDate, req.People, uuid.Nil); err != nil {
			return err
		}

		orderNumber, err := repos.Bookings().GenerateOrderNumber(ctx, now)
		if err != nil {
			return fmt.Errorf("generate order number: %w", err)
		}
		b, err := booking.NewBooking(orderNumber, user.ID, snapshotOf(locked), travelDate, req.People,
			req.contact(), req.SpecialRequests, now)
		if err != nil {
			return err
		}
		if err := repos.Bookings().Save(ctx, b); err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", created.ID.String()),
		zap.String("order_number", created.OrderNumber),
		zap.String("tour_id", created.TourID.String()),
		zap.Int("people", created.People))
	s.publish(ctx, created)
	return ToBookingResponse(created), nil
}

// ListForUser lists the bookings of a user, newest first
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID, filter UserBookingFilter) ([]BookingResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Filters["user_id"] = userID
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return s.list(ctx, domainFilter)
}

// GetForUser returns a booking owned by the user. Other users' bookings read as not found.
func (s *BookingService) GetForUser(ctx context.Context, userID, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

// CancelForUser cancels a booking on behalf of its owner before the travel date
func (s *BookingService) CancelForUser(ctx context.Context, userID, id uuid.UUID, req CancelBookingRequest) (*BookingResponse, error) {
	b, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	loaded := b.Version
	if err := b.CancelByCustomer(userID, req.Reason, s.now()); err != nil {
		return nil, err
	}
	return s.saveWithLock(ctx, b, loaded)
}

// List lists bookings for the admin
func (s *BookingService) List(ctx context.Context, filter BookingListFilter) ([]BookingResponse, int64, error) {
	domainFilter, err := filter.toDomainFilter()
	if err != nil {
		return nil, 0, err
	}
	return s.list(ctx, domainFilter)
}

func (s *BookingService) list(ctx context.Context, filter shared.Filter) ([]BookingResponse, int64, error) {
	bookings, err := s.bookingRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.bookingRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToBookingResponses(bookings), total, nil
}

// Get returns a booking
func (s *BookingService) Get(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToBookingResponse(b), nil
}

// UpdateStatus moves a booking through its lifecycle
func (s *BookingService) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateStatusRequest) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	loaded := b.Version
	if err := b.ChangeStatus(booking.BookingStatus(req.Status), req.Reason); err != nil {
		return nil, err
	}
	return s.saveWithLock(ctx, b, loaded)
}

// Update edits contact details, party size and travel date, repricing the booking
// and rechecking capacity
func (s *BookingService) Update(ctx context.Context, id uuid.UUID, req UpdateBookingRequest) (*BookingResponse, error) {
	travelDate, err := ParseDate(req.TravelDate)
	if err != nil {
		return nil, err
	}

	var updated *booking.Booking
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		b, err := repos.Bookings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		loaded := b.Version

		if b.ChangesTrip(travelDate, req.People) {
			tour, err := repos.Tours().FindByIDForUpdate(ctx, b.TourID)
			if err != nil {
				return err
			}
			if err := checkCapacity(ctx, repos.Bookings(), tour, travelDate, req.People, b.ID); err != nil {
				return err
			}
		}
		if err := b.Reschedule(travelDate, req.People, s.now()); err != nil {
			return err
		}
		if err := b.UpdateContact(req.contact(), req.SpecialRequests); err != nil {
			return err
		}
		if err := repos.Bookings().SaveWithLock(ctx, b, loaded); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking updated", zap.String("booking_id", updated.ID.String()))
	s.publish(ctx, updated)
	return ToBookingResponse(updated), nil
}

// Delete removes a booking
func (s *BookingService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Booking deleted", zap.String("booking_id", id.String()))
	return nil
}

// VoucherForUser renders the voucher of a booking owned by the user
func (s *BookingService) VoucherForUser(ctx context.Context, userID, id uuid.UUID) (*VoucherFile, error) {
	b, err := s.findOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, b)
}

// Voucher renders the voucher of any booking
func (s *BookingService) Voucher(ctx context.Context, id uuid.UUID) (*VoucherFile, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, b)
}

func (s *BookingService) render(ctx context.Context, b *booking.Booking) (*VoucherFile, error) {
	if s.voucher == nil {
		return nil, shared.NewDomainError("VOUCHER_UNAVAILABLE", "Voucher printing is not enabled")
	}
	if b.Status == booking.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Cancelled bookings have no voucher")
	}
	pdf, err := s.voucher.RenderVoucher(ctx, b)
	if err != nil {
		s.logger.Error("Failed to render voucher", zap.String("booking_id", b.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("render voucher: %w", err)
	}
	return &VoucherFile{Filename: "voucher-" + b.OrderNumber + ".pdf", Content: pdf}, nil
}

// CompleteDue marks confirmed and paid bookings whose trip has ended as completed.
// It returns the number of bookings completed.
func (s *BookingService) CompleteDue(ctx context.Context, batchSize int) (int, error) {
	due, err := s.bookingRepo.FindDueForCompletion(ctx, s.now(), batchSize)
	if err != nil {
		return 0, err
	}
	completed := 0
	for i := range due {
		b := &due[i]
		loaded := b.Version
		if err := b.Complete(); err != nil {
			s.logger.Warn("Skipping booking completion", zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		if _, err := s.saveWithLock(ctx, b, loaded); err != nil {
			s.logger.Warn("Failed to complete booking", zap.String("booking_id", b.ID.String()), zap.Error(err))
			continue
		}
		completed++
	}
	if completed > 0 {
		s.logger.Info("Completed finished bookings", zap.Int("count", completed))
	}
	return completed, nil
}

func (s *BookingService) findOwned(ctx context.Context, userID, id uuid.UUID) (*booking.Booking, error) {
	b, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (s *BookingService) saveWithLock(ctx context.Context, b *booking.Booking, loaded int) (*BookingResponse, error) {
	if err := s.bookingRepo.SaveWithLock(ctx, b, loaded); err != nil {
		return nil, err
	}
	s.logger.Info("Booking status changed",
		zap.String("booking_id", b.ID.String()),
		zap.String("status", string(b.Status)))
	s.publish(ctx, b)
	return ToBookingResponse(b), nil
}

func (s *BookingService) publish(ctx context.Context, b *booking.Booking) {
	events := b.GetDomainEvents()
	b.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish booking events", zap.String("booking_id", b.ID.String()), zap.Error(err))
	}
}

var errTourNotBookable = shared.NewDomainError("TOUR_NOT_BOOKABLE", "This tour is not open for booking")

// checkCapacity fails when the active bookings of the tour on the date plus people
// exceed the group size
func checkCapacity(ctx context.Context, bookings booking.BookingRepository, tour *catalog.Tour, travelDate time.Time, people int, excludeID uuid.UUID) error {
	held, err := bookings.SumActivePeople(ctx, tour.ID, travelDate, excludeID)
	if err != nil {
		return err
	}
	if held+people > tour.MaxGroupSize {
		remaining := tour.MaxGroupSize - held
		if remaining < 0 {
			remaining = 0
		}
		return shared.NewDomainError("TOUR_CAPACITY_EXCEEDED",
			fmt.Sprintf("Only %d seats left on %s", remaining, travelDate.Format(DateLayout)))
	}
	return nil
}

func snapshotOf(t *catalog.Tour) booking.TourSnapshot {
	return booking.TourSnapshot{
		ID:           t.ID,
		Title:        t.Title,
		Slug:         t.Slug,
		Price:        t.Price,
		DurationDays: t.DurationDays,
	}
}
