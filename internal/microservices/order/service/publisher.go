package service

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/domain"
)

// Publisher announces order lifecycle events.
type Publisher interface {
	Publish(ctx context.Context, ev domain.OrderEvent) error
}

type RabbitPublisher struct {
	client *rabbitmq.Client
}

func NewRabbitPublisher(c *rabbitmq.Client) *RabbitPublisher {
	return &RabbitPublisher{client: c}
}

func (p *RabbitPublisher) Publish(ctx context.Context, ev domain.OrderEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}
	return p.client.Publish(ctx, rabbitmq.OrdersExchange, ev.RoutingKey(), body,
		amqp.Table{"x-source": "restaurant-admin"}, "application/json", true)
}

// NopPublisher drops events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }
