package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/artisan-marketplace/internal/catalog"
	"github.com/andreasstove999/artisan-marketplace/internal/sequence"
)

type published struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	err    error
	closed bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

type failingSequencer struct{}

func (failingSequencer) NextSequence(context.Context, string) (int64, error) {
	return 0, errors.New("sequence store down")
}

func fixedPublisher(ch channel, seq sequence.Sequencer) *AMQPPublisher {
	p := newPublisher(ch, seq, PublisherOptions{})
	p.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestPublisher_CartItemAddedEnvelope(t *testing.T) {
	ch := &fakeChannel{}
	p := fixedPublisher(ch, sequence.NewCounter())
	meta := EventMeta{
		CorrelationID: "c0a8e2b6-3c6a-4d7e-9c8f-1f2e3d4c5b6a",
		PartitionKey:  "guest-session",
	}
	item := catalog.CartItem{ID: "ci-1", SessionID: "guest-session", ProductID: "prod-42", Quantity: 1}

	require.NoError(t, p.Publish(context.Background(), meta, CartItemAdded(item, time.Unix(0, 0).UTC())))
	require.NoError(t, p.Publish(context.Background(), meta, CartItemUpdated(item, time.Unix(0, 0).UTC())))
	require.Len(t, ch.sent, 2)

	first := ch.sent[0]
	assert.Equal(t, EventsExchange, first.exchange)
	assert.Equal(t, CartItemAddedRoutingKey, first.key)
	assert.Equal(t, "application/json", first.msg.ContentType)
	assert.Equal(t, amqp.Persistent, first.msg.DeliveryMode)

	env, err := ParseEnvelope(first.msg.Body)
	require.NoError(t, err)
	require.NoError(t, env.Validate(EventTypeCartItemAdded, 1))
	assert.Equal(t, "storefront-api", env.Producer)
	assert.Equal(t, meta.CorrelationID, env.CorrelationID)
	assert.Equal(t, int64(1), env.Sequence)
	assert.Equal(t, "marketplace/cart.item-added.v1.json", env.Schema)

	var payload CartItemPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "prod-42", payload.ProductID)
	assert.Equal(t, 1, payload.Quantity)

	second, err := ParseEnvelope(ch.sent[1].msg.Body)
	require.NoError(t, err)
	assert.Equal(t, CartItemUpdatedRoutingKey, ch.sent[1].key)
	assert.Equal(t, int64(2), second.Sequence, "sequence advances per partition")
}

func TestPublisher_RoutesEveryEvent(t *testing.T) {
	at := time.Unix(0, 0).UTC()
	cases := []struct {
		ev  Event
		key string
	}{
		{CartItemRemoved("ci-1", "s", at), CartItemRemovedRoutingKey},
		{CartCleared("s", at), CartClearedRoutingKey},
		{StoryGenerated(catalog.AIGeneration{ID: "g1", ArtisanID: "a1", GeneratedCaptions: []string{"x", "y", "z"}}, at), StoryGeneratedRoutingKey},
	}
	for _, tc := range cases {
		t.Run(tc.ev.Name, func(t *testing.T) {
			ch := &fakeChannel{}
			p := fixedPublisher(ch, sequence.NewCounter())
			require.NoError(t, p.Publish(context.Background(), EventMeta{PartitionKey: "s"}, tc.ev))
			require.Len(t, ch.sent, 1)
			assert.Equal(t, tc.key, ch.sent[0].key)
		})
	}
}

func TestPublisher_Errors(t *testing.T) {
	ctx := context.Background()

	p := fixedPublisher(&fakeChannel{}, sequence.NewCounter())
	require.Error(t, p.Publish(ctx, EventMeta{PartitionKey: "s"}, Event{Name: "Unknown"}))

	p = fixedPublisher(&fakeChannel{}, failingSequencer{})
	require.ErrorContains(t, p.Publish(ctx, EventMeta{PartitionKey: "s"}, CartCleared("s", time.Now())), "reserve sequence")

	boom := errors.New("channel closed")
	p = fixedPublisher(&fakeChannel{err: boom}, sequence.NewCounter())
	require.ErrorIs(t, p.Publish(ctx, EventMeta{PartitionKey: "s"}, CartCleared("s", time.Now())), boom)
}

func TestPublisher_Close(t *testing.T) {
	ch := &fakeChannel{}
	require.NoError(t, fixedPublisher(ch, sequence.NewCounter()).Close())
	assert.True(t, ch.closed)
}

func TestEnvelopeValidate(t *testing.T) {
	env := EventEnvelope{EventName: EventTypeCartCleared, EventVersion: 1, EventID: "e", PartitionKey: "s"}
	require.NoError(t, env.Validate(EventTypeCartCleared, 1))

	env.PartitionKey = ""
	require.Error(t, env.Validate(EventTypeCartCleared, 1))

	env.PartitionKey = "s"
	require.Error(t, env.Validate(EventTypeCartItemAdded, 1))
	require.Error(t, env.Validate(EventTypeCartCleared, 2))
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	require.NoError(t, p.Publish(context.Background(), EventMeta{}, CartCleared("s", time.Now())))
	require.NoError(t, p.Close())
}
