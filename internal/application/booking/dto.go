package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/shared"
)

// DateLayout is the wire format of travel dates
const DateLayout = "2006-01-02"

// CreateBookingRequest represents a booking made by a signed-in user
type CreateBookingRequest struct {
	TourID          uuid.UUID `json:"tour_id" binding:"required"`
	TravelDate      string    `json:"travel_date" binding:"required,datetime=2006-01-02,future_date"`
	People          int       `json:"people" binding:"required,min=1,max=100"`
	ContactName     string    `json:"contact_name" binding:"required,max=100"`
	ContactEmail    string    `json:"contact_email" binding:"required,email,max=200"`
	ContactPhone    string    `json:"contact_phone" binding:"omitempty,max=50"`
	SpecialRequests string    `json:"special_requests" binding:"max=1000"`
}

func (r CreateBookingRequest) contact() booking.Contact {
	return booking.Contact{Name: r.ContactName, Email: r.ContactEmail, Phone: r.ContactPhone}
}

// UpdateBookingRequest represents an admin edit of a booking
type UpdateBookingRequest struct {
	TravelDate      string `json:"travel_date" binding:"required,datetime=2006-01-02"`
	People          int    `json:"people" binding:"required,min=1,max=100"`
	ContactName     string `json:"contact_name" binding:"required,max=100"`
	ContactEmail    string `json:"contact_email" binding:"required,email,max=200"`
	ContactPhone    string `json:"contact_phone" binding:"omitempty,max=50"`
	SpecialRequests string `json:"special_requests" binding:"max=1000"`
}

func (r UpdateBookingRequest) contact() booking.Contact {
	return booking.Contact{Name: r.ContactName, Email: r.ContactEmail, Phone: r.ContactPhone}
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed paid cancelled completed"`
	Reason string `json:"reason" binding:"max=500"`
}

// CancelBookingRequest carries the customer's cancellation reason
type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// UserBookingFilter contains the filters of "my bookings"
type UserBookingFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed paid cancelled completed"`
}

// BookingListFilter contains the admin booking list filters
type BookingListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed paid cancelled completed"`
	TourID   string `form:"tour_id" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	SortBy   string `form:"sort_by"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

func (f BookingListFilter) toDomainFilter() (shared.Filter, error) {
	out := shared.DefaultFilter()
	if f.Page > 0 {
		out.Page = f.Page
	}
	if f.PageSize > 0 {
		out.PageSize = f.PageSize
	}
	out.Search = f.Search
	if f.SortBy != "" {
		out.OrderBy = f.SortBy
		out.OrderDir = f.SortDir
	}
	if f.Status != "" {
		out.Filters["status"] = f.Status
	}
	if f.TourID != "" {
		tourID, err := uuid.Parse(f.TourID)
		if err != nil {
			return out, shared.NewDomainError("INVALID_TOUR", "tour_id must be a UUID")
		}
		out.Filters["tour_id"] = tourID
	}
	if f.From != "" {
		from, err := ParseDate(f.From)
		if err != nil {
			return out, err
		}
		out.Filters["from"] = from
	}
	if f.To != "" {
		to, err := ParseDate(f.To)
		if err != nil {
			return out, err
		}
		out.Filters["to"] = to
	}
	return out, nil
}

// ParseDate parses a travel date in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_TRAVEL_DATE", "Dates must use the YYYY-MM-DD format")
	}
	return t, nil
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          uuid.UUID       `json:"user_id"`
	TourID          uuid.UUID       `json:"tour_id"`
	TourTitle       string          `json:"tour_title"`
	TourSlug        string          `json:"tour_slug"`
	TravelDate      string          `json:"travel_date"`
	DurationDays    int             `json:"duration_days"`
	People          int             `json:"people"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ContactName     string          `json:"contact_name"`
	ContactEmail    string          `json:"contact_email"`
	ContactPhone    string          `json:"contact_phone,omitempty"`
	SpecialRequests string          `json:"special_requests,omitempty"`
	Status          string          `json:"status"`
	ConfirmedAt     *time.Time      `json:"confirmed_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToBookingResponse converts a domain booking to its response
func ToBookingResponse(b *booking.Booking) *BookingResponse {
	return &BookingResponse{
		ID:              b.ID,
		OrderNumber:     b.OrderNumber,
		UserID:          b.UserID,
		TourID:          b.TourID,
		TourTitle:       b.TourTitle,
		TourSlug:        b.TourSlug,
		TravelDate:      b.TravelDate.Format(DateLayout),
		DurationDays:    b.DurationDays,
		People:          b.People,
		UnitPrice:       b.UnitPrice,
		TotalPrice:      b.TotalPrice,
		ContactName:     b.Contact.Name,
		ContactEmail:    b.Contact.Email,
		ContactPhone:    b.Contact.Phone,
		SpecialRequests: b.SpecialRequests,
		Status:          string(b.Status),
		ConfirmedAt:     b.ConfirmedAt,
		PaidAt:          b.PaidAt,
		CancelledAt:     b.CancelledAt,
		CompletedAt:     b.CompletedAt,
		CancelReason:    b.CancelReason,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Version:         b.Version,
	}
}

// ToBookingResponses converts a slice of bookings
func ToBookingResponses(bookings []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(bookings))
	for i := range bookings {
		out[i] = *ToBookingResponse(&bookings[i])
	}
	return out
}

// VoucherFile is a rendered booking voucher
type VoucherFile struct {
	Filename string
	Content  []byte
}
