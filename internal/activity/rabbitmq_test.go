package activity

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"articlehub/internal/models"
)

type fakeChannel struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
	closed        bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return f.err
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Deliver(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch, exchange: "activity", routingKey: "events", logger: discardLogger()}
	userID := int64(9)
	event := models.ActivityEvent{
		EventID:   uuid.New(),
		UserID:    &userID,
		Action:    models.ActivityRejectArticle,
		Metadata:  map[string]any{"reason": "off topic"},
		CreatedAt: time.Now().UTC(),
	}

	require.NoError(t, p.Deliver(context.Background(), event))

	assert.Equal(t, "activity", ch.exchange)
	assert.Equal(t, "events", ch.key)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, event.EventID.String(), ch.msg.MessageId)
	assert.Equal(t, models.ActivityRejectArticle, ch.msg.Type)

	var got models.ActivityEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &got))
	assert.Equal(t, event.EventID, got.EventID)
	assert.Equal(t, "off topic", got.Metadata["reason"])
}

func TestPublisher_DeliverError(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &Publisher{channel: ch, logger: discardLogger()}

	err := p.Deliver(context.Background(), models.ActivityEvent{EventID: uuid.New()})
	assert.ErrorContains(t, err, "publish event")
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	p := &Publisher{channel: ch}

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
}
