package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/domain"
)

// itemRequest accepts both "dish_id" and the admin UI's "dish".
type itemRequest struct {
	DishID   *uuid.UUID `json:"dish_id"`
	Dish     *uuid.UUID `json:"dish"`
	Quantity int        `json:"quantity"`
}

type orderRequest struct {
	TableID *uuid.UUID          `json:"table_id"`
	Table   *uuid.UUID          `json:"table"`
	Items   []itemRequest       `json:"items"`
	Status  *domain.OrderStatus `json:"status"`
}

func decodeOrder(r *http.Request) (orderRequest, error) {
	var req orderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return orderRequest{}, domain.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return req, nil
}

func (req orderRequest) table() *uuid.UUID {
	if req.TableID != nil {
		return req.TableID
	}
	return req.Table
}

func (req orderRequest) items() []domain.ItemInput {
	if req.Items == nil {
		return nil
	}
	out := make([]domain.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		in := domain.ItemInput{Quantity: it.Quantity}
		switch {
		case it.DishID != nil:
			in.DishID = *it.DishID
		case it.Dish != nil:
			in.DishID = *it.Dish
		}
		out = append(out, in)
	}
	return out
}

func (req orderRequest) newOrder() domain.NewOrder {
	n := domain.NewOrder{Items: req.items()}
	if t := req.table(); t != nil {
		n.TableID = *t
	}
	return n
}

func (req orderRequest) patch() domain.OrderPatch {
	return domain.OrderPatch{TableID: req.table(), Items: req.items(), Status: req.Status}
}

// orderFilter reads the list query: status (comma separated or repeated),
// table_id, category_id, dish_id, from, to and sort=asc|desc.
func orderFilter(r *http.Request) (domain.OrderFilter, error) {
	var (
		f   domain.OrderFilter
		err error
	)
	q := r.URL.Query()
	for _, raw := range q["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			s, err := domain.ParseStatus(part)
			if err != nil {
				return f, err
			}
			f.Statuses = append(f.Statuses, s)
		}
	}
	if f.TableID, err = httpx.QueryUUID(r, "table_id"); err != nil {
		return f, err
	}
	if f.CategoryID, err = httpx.QueryUUID(r, "category_id"); err != nil {
		return f, err
	}
	if f.DishID, err = httpx.QueryUUID(r, "dish_id"); err != nil {
		return f, err
	}
	if f.From, err = httpx.QueryDate(r, "from", false); err != nil {
		return f, err
	}
	if f.To, err = httpx.QueryDate(r, "to", true); err != nil {
		return f, err
	}
	switch strings.ToLower(q.Get("sort")) {
	case "", "desc":
	case "asc":
		f.Ascending = true
	default:
		return f, domain.ValidationError{Field: "sort", Message: "expected asc or desc"}
	}
	return f, nil
}
