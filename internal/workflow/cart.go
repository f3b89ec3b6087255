package workflow

import (
	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
)

type CartLine struct {
	Dish     domain.Dish `json:"dish"`
	Quantity int         `json:"quantity"`
}

// Cart is an ordered list of dish lines. Every method returns a new cart and
// leaves the receiver untouched.
type Cart []CartLine

// CartFromOrder pre-fills a cart with an order's lines.
func CartFromOrder(o domain.Order) Cart {
	c := make(Cart, 0, len(o.Items))
	for _, it := range o.Items {
		c = append(c, CartLine{Dish: it.Dish, Quantity: it.Quantity})
	}
	return c
}

func (c Cart) index(dishID uuid.UUID) int {
	for i, l := range c {
		if l.Dish.ID == dishID {
			return i
		}
	}
	return -1
}

// Add increments the dish's quantity or appends a new line.
func (c Cart) Add(d domain.Dish) Cart {
	out := append(Cart(nil), c...)
	if i := out.index(d.ID); i >= 0 {
		out[i].Quantity++
		return out
	}
	return append(out, CartLine{Dish: d, Quantity: 1})
}

// Remove decrements the dish's quantity and drops the line at zero.
func (c Cart) Remove(dishID uuid.UUID) Cart {
	i := c.index(dishID)
	if i < 0 {
		return c
	}
	if c[i].Quantity > 1 {
		out := append(Cart(nil), c...)
		out[i].Quantity--
		return out
	}
	return c.Delete(dishID)
}

// Delete drops the dish's line whatever its quantity.
func (c Cart) Delete(dishID uuid.UUID) Cart {
	i := c.index(dishID)
	if i < 0 {
		return c
	}
	out := make(Cart, 0, len(c)-1)
	out = append(out, c[:i]...)
	return append(out, c[i+1:]...)
}

func (c Cart) Items() []domain.ItemInput {
	out := make([]domain.ItemInput, 0, len(c))
	for _, l := range c {
		out = append(out, domain.ItemInput{DishID: l.Dish.ID, Quantity: l.Quantity})
	}
	return out
}

func (c Cart) Total() float64 {
	var t float64
	for _, l := range c {
		t += l.Dish.Price * float64(l.Quantity)
	}
	return domain.RoundMoney(t)
}
