package service

import (
	"context"
	"encoding/json"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/domain"
)

// DeliverySource is the consuming half of the rabbitmq client.
type DeliverySource interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	src DeliverySource
	lg  *logger.Logger
}

func NewNotificatorService(src DeliverySource, lg *logger.Logger) *NotificatorService {
	return &NotificatorService{src: src, lg: lg}
}

// Notify consumes the order feed until ctx is done or the channel closes.
func (ns *NotificatorService) Notify(ctx context.Context, prefetch int) error {
	msgs, err := ns.src.Consume(rabbitmq.FeedQueue, "order-feed", prefetch)
	if err != nil {
		return err
	}
	ns.lg.Info("order_feed_consuming", map[string]any{"queue": rabbitmq.FeedQueue, "prefetch": prefetch})

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ns.Handle(d)
		}
	}
}

// Handle logs one order event. Undecodable messages are dead-lettered.
func (ns *NotificatorService) Handle(d amqp.Delivery) {
	var ev domain.OrderEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		ns.lg.Error("order_event_invalid", err, map[string]any{"routing_key": d.RoutingKey})
		_ = d.Nack(false, false)
		return
	}

	ns.lg.Info("order_event_received", map[string]any{
		"event":        ev.Event,
		"order_id":     ev.OrderID.String(),
		"table_number": ev.TableNumber,
		"status":       string(ev.Status),
		"total":        ev.Total,
		"items":        len(ev.Items),
		"occurred_at":  ev.OccurredAt,
	})
	_ = d.Ack(false)
}
