package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/domain"
)

// memLedger is a tiny in-memory ledger keyed by table.
type memLedger struct {
	dishes map[uuid.UUID]domain.Dish
	orders map[uuid.UUID]domain.Order
	fail   error
}

func newMemLedger(dishes ...domain.Dish) *memLedger {
	l := &memLedger{dishes: map[uuid.UUID]domain.Dish{}, orders: map[uuid.UUID]domain.Order{}}
	for _, d := range dishes {
		l.dishes[d.ID] = d
	}
	return l
}

func (l *memLedger) items(in []domain.ItemInput) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(in))
	for _, it := range in {
		out = append(out, domain.OrderItem{Dish: l.dishes[it.DishID], Quantity: it.Quantity})
	}
	return out
}

func (l *memLedger) LatestOrderForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error) {
	if l.fail != nil {
		return domain.Order{}, l.fail
	}
	for _, o := range l.orders {
		if o.Table.ID == tableID && o.Status.Open() {
			return o, nil
		}
	}
	return domain.Order{}, domain.NotFoundError{Entity: "order"}
}

func (l *memLedger) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	if l.fail != nil {
		return domain.Order{}, l.fail
	}
	if err := in.Validate(); err != nil {
		return domain.Order{}, err
	}
	o := domain.Order{ID: uuid.New(), Table: domain.Table{ID: in.TableID}, Status: domain.StatusActive, Items: l.items(in.Items)}
	o.Reprice()
	l.orders[o.ID] = o
	return o, nil
}

func (l *memLedger) UpdateOrder(ctx context.Context, id uuid.UUID, p domain.OrderPatch) (domain.Order, error) {
	if l.fail != nil {
		return domain.Order{}, l.fail
	}
	o := l.orders[id]
	if p.Items != nil {
		o.Items = l.items(p.Items)
	}
	o.Reprice()
	l.orders[id] = o
	return o, nil
}

func (l *memLedger) setStatus(id uuid.UUID, s domain.OrderStatus) (domain.Order, error) {
	if l.fail != nil {
		return domain.Order{}, l.fail
	}
	o, ok := l.orders[id]
	if !ok {
		return domain.Order{}, domain.NotFoundError{Entity: "order", ID: id.String()}
	}
	noop, err := domain.CheckTransition(o.Status, s)
	if err != nil || noop {
		return o, err
	}
	o.Status = s
	l.orders[id] = o
	return o, nil
}

func (l *memLedger) ServeOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return l.setStatus(id, domain.StatusServed)
}

func (l *memLedger) PayOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return l.setStatus(id, domain.StatusPaid)
}

func (l *memLedger) CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	if l.fail != nil {
		return domain.Order{}, l.fail
	}
	o := l.orders[id]
	delete(l.orders, id)
	return o, nil
}

func (l *memLedger) open() []domain.Order {
	var out []domain.Order
	for _, o := range l.orders {
		if o.Status.Open() {
			out = append(out, o)
		}
	}
	return out
}

func TestWorkflowLifecycle(t *testing.T) {
	ctx := context.Background()
	soup := domain.Dish{ID: uuid.New(), Name: "Soup", Price: 8}
	tea := domain.Dish{ID: uuid.New(), Name: "Tea", Price: 2}
	table := domain.Table{ID: uuid.New(), Number: "5", Capacity: 4}
	ledger := newMemLedger(soup, tea)
	c := NewController(ledger)

	var s State = Idle{}
	s, err := c.SelectTable(ctx, s, table)
	require.NoError(t, err)
	require.IsType(t, TableSelected{}, s)

	s, _ = c.AddDish(s, soup)
	s, _ = c.AddDish(s, soup)
	s, _ = c.AddDish(s, tea)
	s, _ = c.RemoveDish(s, tea.ID)
	sel := s.(TableSelected)
	require.Len(t, sel.Cart, 1)
	assert.Equal(t, 2, sel.Cart[0].Quantity)
	assert.Equal(t, 16.0, sel.Cart.Total())

	s, err = c.Submit(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, s)
	occ := DeriveOccupancy(ledger.open())
	assert.Equal(t, domain.TableActive, occ.StatusOf(table.ID))

	s, err = c.SelectTable(ctx, s, table)
	require.NoError(t, err)
	view := s.(ViewingExistingOrder)
	assert.Equal(t, 16.0, view.Order.Total)

	// edit keeps status and replaces items
	s, err = c.Edit(s)
	require.NoError(t, err)
	s, _ = c.AddDish(s, tea)
	s, err = c.Submit(ctx, s)
	require.NoError(t, err)
	o := ledger.orders[view.Order.ID]
	assert.Equal(t, domain.StatusActive, o.Status)
	assert.Equal(t, 18.0, o.Total)

	s, _ = c.SelectTable(ctx, s, table)
	s, err = c.MarkServed(ctx, s)
	require.NoError(t, err)
	occ = DeriveOccupancy(ledger.open())
	assert.Equal(t, domain.TableServed, occ.StatusOf(table.ID))
	assert.NotContains(t, occ.Active, table.ID)

	s, _ = c.SelectTable(ctx, s, table)
	s, err = c.MarkPaid(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, s)
	occ = DeriveOccupancy(ledger.open())
	assert.Equal(t, domain.TableAvailable, occ.StatusOf(table.ID))
}

func TestWorkflowCancel(t *testing.T) {
	ctx := context.Background()
	soup := domain.Dish{ID: uuid.New(), Name: "Soup", Price: 8}
	table := domain.Table{ID: uuid.New(), Number: "2", Capacity: 2}
	ledger := newMemLedger(soup)
	c := NewController(ledger)

	s, _ := c.SelectTable(ctx, Idle{}, table)
	s, _ = c.AddDish(s, soup)
	s, err := c.Submit(ctx, s)
	require.NoError(t, err)

	s, _ = c.SelectTable(ctx, s, table)
	s, err = c.Cancel(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, Idle{}, s)
	assert.Empty(t, ledger.orders)

	s, err = c.SelectTable(ctx, s, table)
	require.NoError(t, err)
	assert.IsType(t, TableSelected{}, s)
}

func TestWorkflowInvalidEvents(t *testing.T) {
	ctx := context.Background()
	c := NewController(newMemLedger())
	order := domain.Order{ID: uuid.New(), Status: domain.StatusActive}

	tests := []struct {
		name  string
		state State
		run   func(State) (State, error)
	}{
		{name: "submit from idle", state: Idle{}, run: func(s State) (State, error) { return c.Submit(ctx, s) }},
		{name: "edit from idle", state: Idle{}, run: c.Edit},
		{name: "add dish while viewing", state: ViewingExistingOrder{Order: order}, run: func(s State) (State, error) {
			return c.AddDish(s, domain.Dish{ID: uuid.New()})
		}},
		{name: "serve while editing", state: Editing{Order: order}, run: func(s State) (State, error) { return c.MarkServed(ctx, s) }},
		{name: "select table while editing", state: Editing{Order: order}, run: func(s State) (State, error) {
			return c.SelectTable(ctx, s, domain.Table{ID: uuid.New()})
		}},
		{name: "pay from table selected", state: TableSelected{}, run: func(s State) (State, error) { return c.MarkPaid(ctx, s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.run(tt.state)
			var terr *TransitionError
			require.ErrorAs(t, err, &terr)
			assert.Equal(t, tt.state.Name(), terr.State)
			assert.Equal(t, tt.state, got)
		})
	}
}

func TestWorkflowLedgerFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	soup := domain.Dish{ID: uuid.New(), Name: "Soup", Price: 8}
	ledger := newMemLedger(soup)
	c := NewController(ledger)

	s, err := c.SelectTable(ctx, Idle{}, domain.Table{ID: uuid.New()})
	require.NoError(t, err)
	s, _ = c.AddDish(s, soup)

	ledger.fail = errors.New("connection refused")
	got, err := c.Submit(ctx, s)
	require.Error(t, err)
	assert.Equal(t, s, got)
	assert.Len(t, got.(TableSelected).Cart, 1)

	got, err = c.SelectTable(ctx, s, domain.Table{ID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, s, got)

	ledger.fail = nil
	empty, _ := c.SelectTable(ctx, Idle{}, domain.Table{ID: uuid.New()})
	got, err = c.Submit(ctx, empty)
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, empty, got)

	assert.Equal(t, Idle{}, c.Reset(s))
}
