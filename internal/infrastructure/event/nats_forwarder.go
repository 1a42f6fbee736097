package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/tourbook/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// msgPublisher is the part of *nats.Conn the forwarder uses
type msgPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSForwarder is a wildcard handler that republishes domain events to NATS
// under <subject>.<EventType>.
type NATSForwarder struct {
	conn    msgPublisher
	closer  func()
	subject string
	logger  *zap.Logger
}

// NewNATSForwarder connects to url and forwards events under subject
func NewNATSForwarder(url, subject string, logger *zap.Logger) (*NATSForwarder, error) {
	conn, err := nats.Connect(url,
		nats.Name("tourbook-backend"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	f := newNATSForwarder(conn, subject, logger)
	f.closer = func() {
		if err := conn.Drain(); err != nil {
			logger.Warn("NATS drain failed", zap.Error(err))
		}
	}
	return f, nil
}

func newNATSForwarder(conn msgPublisher, subject string, logger *zap.Logger) *NATSForwarder {
	return &NATSForwarder{
		conn:    conn,
		closer:  func() {},
		subject: strings.TrimSuffix(subject, "."),
		logger:  logger,
	}
}

// EventTypes returns nil so the forwarder receives every event
func (f *NATSForwarder) EventTypes() []string {
	return nil
}

// Handle publishes the event envelope. The event id doubles as the
// JetStream dedup id.
func (f *NATSForwarder) Handle(ctx context.Context, event shared.DomainEvent) error {
	data, err := Serialize(event)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(f.subject + "." + event.EventType())
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, event.EventID().String())
	msg.Header.Set("Content-Type", "application/json")

	if err := f.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("forward %s to NATS: %w", event.EventType(), err)
	}
	return nil
}

// Close drains the connection
func (f *NATSForwarder) Close() {
	f.closer()
}

var _ shared.EventHandler = (*NATSForwarder)(nil)
