package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated   = "created"
	EventUpdated   = "updated"
	EventServed    = "served"
	EventPaid      = "paid"
	EventCancelled = "cancelled"
)

type OrderItemMsg struct {
	DishID   uuid.UUID `json:"dish_id"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

// OrderEvent is published on every order mutation.
type OrderEvent struct {
	Event       string         `json:"event"`
	OrderID     uuid.UUID      `json:"order_id"`
	TableID     uuid.UUID      `json:"table_id"`
	TableNumber string         `json:"table_number"`
	Status      OrderStatus    `json:"status"`
	Items       []OrderItemMsg `json:"items"`
	Total       float64        `json:"total"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

func NewOrderEvent(event string, o Order, at time.Time) OrderEvent {
	items := make([]OrderItemMsg, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemMsg{
			DishID:   it.Dish.ID,
			Name:     it.Dish.Name,
			Quantity: it.Quantity,
			Price:    it.Dish.Price,
		})
	}
	return OrderEvent{
		Event:       event,
		OrderID:     o.ID,
		TableID:     o.Table.ID,
		TableNumber: o.Table.Number,
		Status:      o.Status,
		Items:       items,
		Total:       o.Total,
		OccurredAt:  at.UTC(),
	}
}

// RoutingKey is the topic key the event is published under.
func (e OrderEvent) RoutingKey() string { return "order." + e.Event }
