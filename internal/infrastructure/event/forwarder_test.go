package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourbook/backend/internal/domain/shared"
	"github.com/tourbook/backend/tests/testutil"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	msgs []*nats.Msg
	err  error
}

func (p *recordingPublisher) PublishMsg(m *nats.Msg) error {
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, m)
	return nil
}

func TestSerialize_RoundTripsEnvelope(t *testing.T) {
	event := testutil.NewTestEvent("BookingCreated")

	data, err := Serialize(event)
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), env.ID)
	assert.Equal(t, "BookingCreated", env.Type)
	assert.Equal(t, "TestAggregate", env.AggregateType)
	assert.Equal(t, event.AggregateID(), env.AggregateID)
	assert.JSONEq(t, `"test data"`, string(mustField(t, env.Payload, "data")))
}

func TestDecodeEnvelope_Invalid(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{"id":"` + uuid.NewString() + `"}`))
	assert.Error(t, err)
	_, err = DecodeEnvelope([]byte(`not json`))
	assert.Error(t, err)
}

func TestNATSForwarder_Handle(t *testing.T) {
	pub := &recordingPublisher{}
	f := newNATSForwarder(pub, "tourbook.events.", zap.NewNop())
	event := testutil.NewTestEvent("BookingCreated")

	require.NoError(t, f.Handle(context.Background(), event))

	require.Len(t, pub.msgs, 1)
	msg := pub.msgs[0]
	assert.Equal(t, "tourbook.events.BookingCreated", msg.Subject)
	assert.Equal(t, event.EventID().String(), msg.Header.Get(nats.MsgIdHdr))
	env, err := DecodeEnvelope(msg.Data)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), env.ID)
	assert.Nil(t, f.EventTypes())
}

func TestNATSForwarder_PublishError(t *testing.T) {
	f := newNATSForwarder(&recordingPublisher{err: errors.New("nats: connection closed")}, "tourbook.events", zap.NewNop())

	err := f.Handle(context.Background(), testutil.NewTestEvent("TourPublished"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forward TourPublished to NATS")
}

func TestNATSForwarder_ReceivesEveryEventOnBus(t *testing.T) {
	pub := &recordingPublisher{}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(newNATSForwarder(pub, "tourbook.events", zap.NewNop()))

	events := []shared.DomainEvent{testutil.NewTestEvent("BookingCreated"), testutil.NewTestEvent("PostDeleted")}
	require.NoError(t, bus.Publish(context.Background(), events...))

	require.Len(t, pub.msgs, 2)
	assert.Equal(t, "tourbook.events.PostDeleted", pub.msgs[1].Subject)
}

func mustField(t *testing.T, raw []byte, field string) []byte {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[field]
}
