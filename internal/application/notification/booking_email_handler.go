// Package notification reacts to domain events with emails and cache revalidation.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/tourbook/backend/internal/domain/booking"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/internal/infrastructure/mail"
	"go.uber.org/zap"
)

// MessageRenderer builds an email from a named template
type MessageRenderer interface {
	Render(name string, data interface{}, to ...string) (mail.Message, error)
}

// BookingEmailHandler emails customers and the admin about bookings
type BookingEmailHandler struct {
	mailer     mail.Mailer
	templates  MessageRenderer
	adminEmail string
	logger     *zap.Logger
}

// NewBookingEmailHandler creates a BookingEmailHandler. An empty adminEmail
// disables the admin notification.
func NewBookingEmailHandler(mailer mail.Mailer, templates MessageRenderer, adminEmail string, logger *zap.Logger) *BookingEmailHandler {
	return &BookingEmailHandler{
		mailer:     mailer,
		templates:  templates,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// EventTypes returns the booking events that send email
func (h *BookingEmailHandler) EventTypes() []string {
	return []string{booking.EventTypeBookingCreated, booking.EventTypeBookingStatusChanged}
}

// Handle renders and sends the emails for one event. Failures are returned
// joined after every email was attempted.
func (h *BookingEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *booking.BookingCreatedEvent:
		errs := []error{h.send(ctx, mail.TemplateBookingConfirmation, e, e.ContactEmail)}
		if h.adminEmail != "" {
			errs = append(errs, h.send(ctx, mail.TemplateAdminNewBooking, e, h.adminEmail))
		}
		return errors.Join(errs...)
	case *booking.BookingStatusChangedEvent:
		return h.send(ctx, mail.TemplateBookingStatus, e, e.ContactEmail)
	}
	return nil
}

func (h *BookingEmailHandler) send(ctx context.Context, template string, data interface{}, to string) error {
	msg, err := h.templates.Render(template, data, to)
	if err != nil {
		h.logger.Error("Failed to render email", zap.String("template", template), zap.Error(err))
		return fmt.Errorf("render %s: %w", template, err)
	}
	if err := h.mailer.Send(ctx, msg); err != nil {
		h.logger.Error("Failed to send email",
			zap.String("template", template),
			zap.String("to", to),
			zap.Error(err))
		return fmt.Errorf("send %s: %w", template, err)
	}
	return nil
}

var _ shared.EventHandler = (*BookingEmailHandler)(nil)
