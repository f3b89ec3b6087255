package domain

import "fmt"

type OrderStatus string

const (
	StatusActive OrderStatus = "active"
	StatusServed OrderStatus = "served"
	StatusPaid   OrderStatus = "paid"
)

// OpenStatuses are the statuses that occupy a table.
var OpenStatuses = []OrderStatus{StatusActive, StatusServed}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusActive, StatusServed, StatusPaid:
		return true
	}
	return false
}

func (s OrderStatus) Open() bool {
	return s == StatusActive || s == StatusServed
}

func ParseStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", v)}
	}
	return s, nil
}

// CheckTransition validates moving an order from one status to another.
// noop is true when to equals from and nothing needs to be written.
func CheckTransition(from, to OrderStatus) (noop bool, err error) {
	if !to.Valid() {
		return false, ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %q", to)}
	}
	if from == to {
		return true, nil
	}
	if from == StatusPaid {
		return false, ConflictError{Message: "order is already paid"}
	}
	switch {
	case from == StatusActive && to == StatusServed,
		from == StatusActive && to == StatusPaid,
		from == StatusServed && to == StatusPaid:
		return false, nil
	}
	return false, ConflictError{Message: fmt.Sprintf("cannot move order from %s to %s", from, to)}
}
