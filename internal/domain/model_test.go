package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderValidate(t *testing.T) {
	table := uuid.New()
	dish := uuid.New()

	tests := []struct {
		name      string
		req       NewOrder
		wantField string
	}{
		{
			name: "valid request",
			req:  NewOrder{TableID: table, Items: []ItemInput{{DishID: dish, Quantity: 2}}},
		},
		{
			name:      "missing table",
			req:       NewOrder{Items: []ItemInput{{DishID: dish, Quantity: 1}}},
			wantField: "table_id",
		},
		{
			name:      "empty items",
			req:       NewOrder{TableID: table},
			wantField: "items",
		},
		{
			name:      "zero quantity",
			req:       NewOrder{TableID: table, Items: []ItemInput{{DishID: dish, Quantity: 0}}},
			wantField: "items[0].quantity",
		},
		{
			name:      "missing dish",
			req:       NewOrder{TableID: table, Items: []ItemInput{{Quantity: 1}}},
			wantField: "items[0].dish_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestMergeItems(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	got := MergeItems([]ItemInput{{DishID: a, Quantity: 1}, {DishID: b, Quantity: 2}, {DishID: a, Quantity: 3}})
	assert.Equal(t, []ItemInput{{DishID: a, Quantity: 4}, {DishID: b, Quantity: 2}}, got)
}

func TestOrderReprice(t *testing.T) {
	soup := Dish{ID: uuid.New(), Name: "Soup", Price: 8.00}
	tea := Dish{ID: uuid.New(), Name: "Tea", Price: 2.35}
	o := Order{Items: []OrderItem{{Dish: soup, Quantity: 2}, {Dish: tea, Quantity: 3}}}

	o.Reprice()
	assert.Equal(t, 16.00, o.Items[0].Subtotal)
	assert.Equal(t, 7.05, o.Items[1].Subtotal)
	assert.Equal(t, 23.05, o.Total)

	// Totals follow the current dish price, not the price at order time.
	o.Items[0].Dish.Price = 9.50
	o.Reprice()
	assert.Equal(t, 26.05, o.Total)
}

func TestConstructors(t *testing.T) {
	_, err := NewCategory("  ", "x")
	assert.True(t, IsValidation(err))

	c, err := NewCategory("Starters", " light ")
	require.NoError(t, err)
	assert.Equal(t, "light", c.Description)
	assert.NotEqual(t, uuid.Nil, c.ID)

	_, err = NewDish("Soup", uuid.Nil, "water", 8)
	assert.True(t, IsValidation(err))
	_, err = NewDish("Soup", c.ID, "water", -1)
	assert.True(t, IsValidation(err))
	_, err = NewDish("Soup", c.ID, "", 1)
	assert.True(t, IsValidation(err))
	d, err := NewDish("Soup", c.ID, "water", 0)
	require.NoError(t, err)
	assert.Equal(t, c.ID, d.CategoryID)

	_, err = NewTable("5", 0)
	assert.True(t, IsValidation(err))
	_, err = NewTable("", 4)
	assert.True(t, IsValidation(err))
	tb, err := NewTable(" 5 ", 4)
	require.NoError(t, err)
	assert.Equal(t, "5", tb.Number)
}

func TestNewOrderEvent(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	o := Order{
		ID:     uuid.New(),
		Table:  Table{ID: uuid.New(), Number: "5"},
		Status: StatusServed,
		Items:  []OrderItem{{Dish: Dish{ID: uuid.New(), Name: "Soup", Price: 8}, Quantity: 2}},
	}
	o.Reprice()

	ev := NewOrderEvent(EventServed, o, at)
	assert.Equal(t, "order.served", ev.RoutingKey())
	assert.Equal(t, "5", ev.TableNumber)
	assert.Equal(t, 16.0, ev.Total)
	require.Len(t, ev.Items, 1)
	assert.Equal(t, "Soup", ev.Items[0].Name)
}
