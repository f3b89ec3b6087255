package workflow

import (
	"fmt"

	"restaurant-admin/internal/domain"
)

// State is one of Idle, TableSelected, ViewingExistingOrder or Editing.
type State interface {
	Name() string
	isState()
}

type Idle struct{}

// TableSelected means the table has no open order and a new cart is being built.
type TableSelected struct {
	Table domain.Table
	Cart  Cart
}

type ViewingExistingOrder struct {
	Order domain.Order
}

type Editing struct {
	Order domain.Order
	Cart  Cart
}

func (Idle) Name() string                 { return "idle" }
func (TableSelected) Name() string        { return "table_selected" }
func (ViewingExistingOrder) Name() string { return "viewing_existing_order" }
func (Editing) Name() string              { return "editing" }

func (Idle) isState()                 {}
func (TableSelected) isState()        {}
func (ViewingExistingOrder) isState() {}
func (Editing) isState()              {}

// TransitionError reports an event that is not valid in the current state.
type TransitionError struct {
	State string
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %s is not allowed in state %s", e.Event, e.State)
}
