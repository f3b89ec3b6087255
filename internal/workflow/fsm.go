package workflow

import (
	"context"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
)

// Ledger is the part of the order service the workflow drives.
type Ledger interface {
	LatestOrderForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error)
	CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, patch domain.OrderPatch) (domain.Order, error)
	ServeOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	PayOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
}

// Controller moves a waiter session between states. It holds no session
// data itself: each call takes the current state and returns the next one.
// On any error the returned state is the one passed in.
type Controller struct {
	ledger Ledger
}

func NewController(l Ledger) *Controller {
	return &Controller{ledger: l}
}

func invalid(s State, event string) (State, error) {
	return s, &TransitionError{State: s.Name(), Event: event}
}

func (c *Controller) SelectTable(ctx context.Context, s State, t domain.Table) (State, error) {
	switch s.(type) {
	case Idle, TableSelected, ViewingExistingOrder:
	default:
		return invalid(s, "select_table")
	}
	o, err := c.ledger.LatestOrderForTable(ctx, t.ID)
	switch {
	case domain.IsNotFound(err):
		return TableSelected{Table: t, Cart: Cart{}}, nil
	case err != nil:
		return s, err
	}
	return ViewingExistingOrder{Order: o}, nil
}

func (c *Controller) Edit(s State) (State, error) {
	v, ok := s.(ViewingExistingOrder)
	if !ok {
		return invalid(s, "edit")
	}
	return Editing{Order: v.Order, Cart: CartFromOrder(v.Order)}, nil
}

func (c *Controller) AddDish(s State, d domain.Dish) (State, error) {
	return c.withCart(s, "add_dish", func(cart Cart) Cart { return cart.Add(d) })
}

func (c *Controller) RemoveDish(s State, dishID uuid.UUID) (State, error) {
	return c.withCart(s, "remove_dish", func(cart Cart) Cart { return cart.Remove(dishID) })
}

func (c *Controller) DeleteDish(s State, dishID uuid.UUID) (State, error) {
	return c.withCart(s, "delete_dish", func(cart Cart) Cart { return cart.Delete(dishID) })
}

func (c *Controller) withCart(s State, event string, fn func(Cart) Cart) (State, error) {
	switch st := s.(type) {
	case TableSelected:
		st.Cart = fn(st.Cart)
		return st, nil
	case Editing:
		st.Cart = fn(st.Cart)
		return st, nil
	}
	return invalid(s, event)
}

// Submit creates a new order from TableSelected, or replaces the items of
// the order being edited. The edited order keeps its status.
func (c *Controller) Submit(ctx context.Context, s State) (State, error) {
	switch st := s.(type) {
	case TableSelected:
		if _, err := c.ledger.CreateOrder(ctx, domain.NewOrder{TableID: st.Table.ID, Items: st.Cart.Items()}); err != nil {
			return s, err
		}
		return Idle{}, nil
	case Editing:
		if _, err := c.ledger.UpdateOrder(ctx, st.Order.ID, domain.OrderPatch{Items: st.Cart.Items()}); err != nil {
			return s, err
		}
		return Idle{}, nil
	}
	return invalid(s, "submit")
}

func (c *Controller) MarkServed(ctx context.Context, s State) (State, error) {
	return c.onExisting(ctx, s, "mark_served", c.ledger.ServeOrder)
}

func (c *Controller) MarkPaid(ctx context.Context, s State) (State, error) {
	return c.onExisting(ctx, s, "mark_paid", c.ledger.PayOrder)
}

func (c *Controller) Cancel(ctx context.Context, s State) (State, error) {
	return c.onExisting(ctx, s, "cancel", c.ledger.CancelOrder)
}

func (c *Controller) onExisting(ctx context.Context, s State, event string,
	call func(context.Context, uuid.UUID) (domain.Order, error)) (State, error) {

	v, ok := s.(ViewingExistingOrder)
	if !ok {
		return invalid(s, event)
	}
	if _, err := call(ctx, v.Order.ID); err != nil {
		return s, err
	}
	return Idle{}, nil
}

func (c *Controller) Reset(State) State { return Idle{} }
