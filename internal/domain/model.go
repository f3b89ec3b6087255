package domain

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Picture     string    `json:"picture"`
}

// NewCategory validates required fields and assigns a fresh id.
func NewCategory(name, description string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ValidationError{Field: "name", Message: "category name is required"}
	}
	return Category{ID: uuid.New(), Name: name, Description: strings.TrimSpace(description)}, nil
}

type Dish struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	CategoryID  uuid.UUID `json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Ingredients string    `json:"ingredients"`
	Price       float64   `json:"price"`
	Picture     string    `json:"picture"`
}

// NewDish validates a dish. The category reference is checked against the
// catalog by the caller.
func NewDish(name string, categoryID uuid.UUID, ingredients string, price float64) (Dish, error) {
	d := Dish{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		CategoryID:  categoryID,
		Ingredients: strings.TrimSpace(ingredients),
		Price:       price,
	}
	return d, d.Validate()
}

func (d Dish) Validate() error {
	if d.Name == "" {
		return ValidationError{Field: "name", Message: "dish name is required"}
	}
	if d.CategoryID == uuid.Nil {
		return ValidationError{Field: "category", Message: "category is required"}
	}
	if d.Ingredients == "" {
		return ValidationError{Field: "ingredients", Message: "ingredients are required"}
	}
	if d.Price < 0 || math.IsNaN(d.Price) || math.IsInf(d.Price, 0) {
		return ValidationError{Field: "price", Message: "price must be a non-negative number"}
	}
	return nil
}

// TableStatus is derived from open orders and never persisted.
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableActive    TableStatus = "active"
	TableServed    TableStatus = "served"
)

type Table struct {
	ID       uuid.UUID   `json:"id"`
	Number   string      `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status,omitempty"`
}

func NewTable(number string, capacity int) (Table, error) {
	t := Table{ID: uuid.New(), Number: strings.TrimSpace(number), Capacity: capacity}
	return t, t.Validate()
}

func (t Table) Validate() error {
	if t.Number == "" {
		return ValidationError{Field: "number", Message: "table number is required"}
	}
	if t.Capacity <= 0 {
		return ValidationError{Field: "capacity", Message: "capacity must be greater than zero"}
	}
	return nil
}

type OrderItem struct {
	Dish     Dish    `json:"dish"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type Order struct {
	ID        uuid.UUID   `json:"id"`
	Table     Table       `json:"table"`
	Items     []OrderItem `json:"items"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	PaidAt    *time.Time  `json:"paid_at,omitempty"`
	Total     float64     `json:"total"`
}

// Reprice recomputes line subtotals and the order total from the dish
// prices currently attached to the items.
func (o *Order) Reprice() {
	var total float64
	for i := range o.Items {
		sub := o.Items[i].Dish.Price * float64(o.Items[i].Quantity)
		o.Items[i].Subtotal = RoundMoney(sub)
		total += sub
	}
	o.Total = RoundMoney(total)
}

// Contains reports whether any line references the dish.
func (o Order) Contains(dishID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.Dish.ID == dishID {
			return true
		}
	}
	return false
}

// ContainsCategory reports whether any line's dish belongs to the category.
func (o Order) ContainsCategory(categoryID uuid.UUID) bool {
	for _, it := range o.Items {
		if it.Dish.CategoryID == categoryID {
			return true
		}
	}
	return false
}

func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
