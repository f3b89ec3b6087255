package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ItemInput struct {
	DishID   uuid.UUID `json:"dish_id"`
	Quantity int       `json:"quantity"`
}

// NewOrder is the payload of a create request.
type NewOrder struct {
	TableID uuid.UUID   `json:"table_id"`
	Items   []ItemInput `json:"items"`
}

func (n NewOrder) Validate() error {
	if n.TableID == uuid.Nil {
		return ValidationError{Field: "table_id", Message: "table is required"}
	}
	return ValidateItems(n.Items)
}

func ValidateItems(items []ItemInput) error {
	if len(items) == 0 {
		return ValidationError{Field: "items", Message: "items array cannot be empty"}
	}
	for i, it := range items {
		if it.DishID == uuid.Nil {
			return ValidationError{Field: fmt.Sprintf("items[%d].dish_id", i), Message: "dish is required"}
		}
		if it.Quantity < 1 {
			return ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be at least 1"}
		}
	}
	return nil
}

// MergeItems folds repeated dishes into one line, keeping first-seen order.
func MergeItems(items []ItemInput) []ItemInput {
	out := make([]ItemInput, 0, len(items))
	idx := make(map[uuid.UUID]int, len(items))
	for _, it := range items {
		if i, ok := idx[it.DishID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.DishID] = len(out)
		out = append(out, it)
	}
	return out
}

// OrderPatch is a partial update. Nil fields are left unchanged.
type OrderPatch struct {
	TableID *uuid.UUID   `json:"table_id,omitempty"`
	Items   []ItemInput  `json:"items,omitempty"`
	Status  *OrderStatus `json:"status,omitempty"`
}

func (p OrderPatch) Validate() error {
	if p.TableID != nil && *p.TableID == uuid.Nil {
		return ValidationError{Field: "table_id", Message: "table must not be empty"}
	}
	if p.Items != nil {
		if err := ValidateItems(p.Items); err != nil {
			return err
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", *p.Status)}
	}
	return nil
}

// Alters reports whether the patch would change an order that sits on
// tableID with status cur. A resent status or table counts as no change.
func (p OrderPatch) Alters(tableID uuid.UUID, cur OrderStatus) bool {
	switch {
	case p.TableID != nil && *p.TableID != tableID:
		return true
	case p.Items != nil:
		return true
	case p.Status != nil && *p.Status != cur:
		return true
	}
	return false
}

type OrderFilter struct {
	Statuses   []OrderStatus
	TableID    *uuid.UUID
	CategoryID *uuid.UUID
	DishID     *uuid.UUID
	From       *time.Time
	To         *time.Time
	Ascending  bool
}

type CategoryPatch struct {
	Name        *string
	Description *string
}

type DishPatch struct {
	Name        *string
	CategoryID  *uuid.UUID
	Ingredients *string
	Price       *float64
}

type TablePatch struct {
	Number   *string `json:"number,omitempty"`
	Capacity *int    `json:"capacity,omitempty"`
}

// StatusLogEntry is one row of an order's timeline.
type StatusLogEntry struct {
	OrderID   uuid.UUID `json:"order_id"`
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}
