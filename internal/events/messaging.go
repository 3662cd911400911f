package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EventsExchange = "marketplace.events"

	CartItemAddedRoutingKey   = "cart.item-added.v1"
	CartItemUpdatedRoutingKey = "cart.item-updated.v1"
	CartItemRemovedRoutingKey = "cart.item-removed.v1"
	CartClearedRoutingKey     = "cart.cleared.v1"
	StoryGeneratedRoutingKey  = "story.generated.v1"

	defaultProducer = "storefront-api"
)

// Dial connects to RabbitMQ.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}
