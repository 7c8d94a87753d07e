// Package amqp publishes order lifecycle events to a RabbitMQ topic exchange.
// Each affected party gets its own copy of the event, routed by a
// "<party>.<id>" key so party-specific consumers can bind with wildcards
// (e.g. "customer.*" for the customer notification service).
package amqp

import (
	"context"
	"encoding/json"
	"fmt"

	"dispatch/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ExchangeName is the topic exchange all order events go through.
const ExchangeName = "order.events"

// Publisher implements ports.EventPublisher on top of a RabbitMQ channel.
type Publisher struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher dials the broker and declares the durable topic exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeName, err)
	}

	return &Publisher{conn: conn, ch: ch}, nil
}

// Publish sends one persistent JSON copy of the event per address. The first
// failed publish aborts the fan-out; the caller treats notification delivery
// as best effort either way.
func (p *Publisher) Publish(ctx context.Context, event ports.Event, addresses ...ports.Address) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Name, err)
	}

	for _, address := range addresses {
		err = p.ch.PublishWithContext(ctx,
			ExchangeName,
			routingKey(address),
			false, // mandatory
			false, // immediate
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				Timestamp:    event.OccurredAt,
				Type:         event.Name,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish %s to %s: %w", event.Name, routingKey(address), err)
		}
	}

	return nil
}

// Close releases the channel and the connection.
func (p *Publisher) Close() {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

func routingKey(address ports.Address) string {
	return fmt.Sprintf("%s.%s", address.Party, address.ID)
}
