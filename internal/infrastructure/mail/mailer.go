// Package mail sends the transactional emails of the booking flow.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/tourbook/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Message is an outgoing email
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
}

// Validate checks that the message can be sent
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("mail: no recipients")
	}
	for _, to := range m.To {
		if strings.ContainsAny(to, "\r\n") {
			return fmt.Errorf("mail: invalid recipient %q", to)
		}
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		return fmt.Errorf("mail: subject contains a line break")
	}
	return nil
}

// Mailer delivers messages
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns the mailer selected by cfg.Driver
func New(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogMailer(logger), nil
	case "smtp":
		return NewSMTPMailer(cfg, logger)
	}
	return nil, fmt.Errorf("mail: unknown driver %q", cfg.Driver)
}

// LogMailer writes messages to the log instead of sending them
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer creates a LogMailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

// Send logs the message
func (m *LogMailer) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.logger.Info("Email (log driver)",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("html_bytes", len(msg.HTML)))
	m.logger.Debug("Email body", zap.String("text", msg.Text))
	return nil
}

var (
	_ Mailer = (*LogMailer)(nil)
	_ Mailer = (*SMTPMailer)(nil)
)
