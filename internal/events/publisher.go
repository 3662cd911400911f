package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/artisan-marketplace/internal/sequence"
)

// Publisher emits enveloped events.
type Publisher interface {
	Publish(ctx context.Context, meta EventMeta, ev Event) error
	Close() error
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type AMQPPublisher struct {
	ch       channel
	seq      sequence.Sequencer
	producer string
	now      func() time.Time
}

type PublisherOptions struct {
	Producer string
}

func NewPublisher(conn *amqp.Connection, seq sequence.Sequencer, opts PublisherOptions) (*AMQPPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newPublisher(ch, seq, opts), nil
}

func newPublisher(ch channel, seq sequence.Sequencer, opts PublisherOptions) *AMQPPublisher {
	producer := opts.Producer
	if producer == "" {
		producer = defaultProducer
	}
	return &AMQPPublisher{
		ch:       ch,
		seq:      seq,
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *AMQPPublisher) Close() error {
	return p.ch.Close()
}

func (p *AMQPPublisher) Publish(ctx context.Context, meta EventMeta, ev Event) error {
	r, ok := routes[ev.Name]
	if !ok {
		return fmt.Errorf("unknown event %q", ev.Name)
	}

	seq, err := p.seq.NextSequence(ctx, meta.PartitionKey)
	if err != nil {
		return fmt.Errorf("reserve sequence: %w", err)
	}

	env, err := newEnvelope(meta, seq, p.producer, ev, r.schema, p.now())
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", ev.Name, err)
	}
	return p.publishJSON(ctx, r.routingKey, body)
}

func (p *AMQPPublisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func newEnvelope(meta EventMeta, seq int64, producer string, ev Event, schema string, occurredAt time.Time) (EventEnvelope, error) {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("marshal %s payload: %w", ev.Name, err)
	}
	return EventEnvelope{
		EventName:     ev.Name,
		EventVersion:  1,
		EventID:       uuid.NewString(),
		CorrelationID: meta.CorrelationID,
		CausationID:   meta.CausationID,
		Producer:      producer,
		PartitionKey:  meta.PartitionKey,
		Sequence:      seq,
		OccurredAt:    occurredAt,
		Schema:        schema,
		Payload:       payload,
	}, nil
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, EventMeta, Event) error { return nil }
func (NopPublisher) Close() error                                    { return nil }

var (
	_ Publisher = (*AMQPPublisher)(nil)
	_ Publisher = NopPublisher{}
)
