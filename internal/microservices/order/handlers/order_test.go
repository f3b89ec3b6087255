package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
)

type stubOrders struct {
	created    domain.NewOrder
	patch      domain.OrderPatch
	filter     domain.OrderFilter
	transition domain.OrderStatus
	err        error
	activeHit  bool
}

func (s *stubOrders) order(id uuid.UUID, st domain.OrderStatus) domain.Order {
	return domain.Order{ID: id, Status: st, Table: domain.Table{Number: "5"}, Items: []domain.OrderItem{}}
}

func (s *stubOrders) LatestOrderForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return s.order(uuid.New(), domain.StatusActive), nil
}

func (s *stubOrders) CreateOrder(ctx context.Context, in domain.NewOrder) (domain.Order, error) {
	s.created = in
	if err := in.Validate(); err != nil {
		return domain.Order{}, err
	}
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return s.order(uuid.New(), domain.StatusActive), nil
}

func (s *stubOrders) UpdateOrder(ctx context.Context, id uuid.UUID, p domain.OrderPatch) (domain.Order, error) {
	s.patch = p
	return s.order(id, domain.StatusActive), s.err
}

func (s *stubOrders) ServeOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.TransitionStatus(ctx, id, domain.StatusServed)
}

func (s *stubOrders) PayOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.TransitionStatus(ctx, id, domain.StatusPaid)
}

func (s *stubOrders) CancelOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return s.order(id, domain.StatusActive), nil
}

func (s *stubOrders) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.order(id, domain.StatusActive), s.err
}

func (s *stubOrders) ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	s.filter = f
	return []domain.Order{}, nil
}

func (s *stubOrders) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	s.activeHit = true
	return []domain.Order{}, nil
}

func (s *stubOrders) TransitionStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (domain.Order, error) {
	s.transition = to
	if s.err != nil {
		return domain.Order{}, s.err
	}
	return s.order(id, to), nil
}

func (s *stubOrders) OrderTimeline(ctx context.Context, id uuid.UUID, limit, offset int) ([]domain.StatusLogEntry, error) {
	return []domain.StatusLogEntry{{OrderID: id, Status: "active"}}, s.err
}

func router(s *stubOrders) *mux.Router {
	r := mux.NewRouter()
	Routes(r, &Handler{OrderHandler: NewOrderHandler(s, logger.NewWithWriter("test", io.Discard))})
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder(t *testing.T) {
	table, dish := uuid.New(), uuid.New()

	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{
			name:     "api field names",
			body:     `{"table_id":"` + table.String() + `","items":[{"dish_id":"` + dish.String() + `","quantity":2}]}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "admin ui field names",
			body:     `{"table":"` + table.String() + `","items":[{"dish":"` + dish.String() + `","quantity":2}]}`,
			wantCode: http.StatusCreated,
		},
		{
			name:     "empty items",
			body:     `{"table":"` + table.String() + `","items":[]}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "malformed",
			body:     `{"table":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "table busy",
			body:     `{"table":"` + table.String() + `","items":[{"dish":"` + dish.String() + `","quantity":1}]}`,
			err:      domain.ConflictError{Message: "table already has an open order"},
			wantCode: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubOrders{err: tt.err}
			rec := do(router(s), http.MethodPost, "/orders", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusCreated {
				assert.Equal(t, table, s.created.TableID)
				assert.Equal(t, []domain.ItemInput{{DishID: dish, Quantity: 2}}, s.created.Items)
			}
		})
	}
}

func TestListOrdersFilter(t *testing.T) {
	s := &stubOrders{}
	table := uuid.New()
	rec := do(router(s), http.MethodGet, "/orders?status=active,served&table_id="+table.String()+"&from=2024-03-01&to=2024-03-31&sort=asc", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []domain.OrderStatus{domain.StatusActive, domain.StatusServed}, s.filter.Statuses)
	require.NotNil(t, s.filter.TableID)
	assert.Equal(t, table, *s.filter.TableID)
	require.NotNil(t, s.filter.To)
	assert.Equal(t, 31, s.filter.To.Day())
	assert.Equal(t, 23, s.filter.To.Hour())
	assert.True(t, s.filter.Ascending)

	for _, q := range []string{"status=cancelled", "sort=sideways", "table_id=x", "from=yesterday"} {
		rec := do(router(&stubOrders{}), http.MethodGet, "/orders?"+q, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestFixedRoutesAreNotOrderIDs(t *testing.T) {
	s := &stubOrders{}
	rec := do(router(s), http.MethodGet, "/orders/active", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.activeHit)

	rec = do(router(&stubOrders{err: domain.NotFoundError{Entity: "open order for table"}}), http.MethodGet, "/orders/latest/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransitions(t *testing.T) {
	id := uuid.NewString()

	s := &stubOrders{}
	rec := do(router(s), http.MethodPut, "/orders/"+id+"/serve", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusServed, s.transition)

	rec = do(router(s), http.MethodPut, "/orders/"+id+"/pay", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusPaid, s.transition)

	rec = do(router(&stubOrders{err: domain.ConflictError{Message: "order is already paid"}}), http.MethodPut, "/orders/"+id+"/serve", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "order is already paid", body["message"])
}

func TestUpdateOrderPatch(t *testing.T) {
	s := &stubOrders{}
	dish := uuid.New()
	rec := do(router(s), http.MethodPut, "/orders/"+uuid.NewString(), `{"items":[{"dish":"`+dish.String()+`","quantity":3}],"status":"served"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.patch.TableID)
	assert.Equal(t, []domain.ItemInput{{DishID: dish, Quantity: 3}}, s.patch.Items)
	require.NotNil(t, s.patch.Status)
	assert.Equal(t, domain.StatusServed, *s.patch.Status)

	s = &stubOrders{}
	rec = do(router(s), http.MethodPut, "/orders/"+uuid.NewString(), `{"status":"served"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, s.patch.Items, "omitted items are left unchanged")
}

func TestCancelOrderResponse(t *testing.T) {
	id := uuid.New()
	rec := do(router(&stubOrders{}), http.MethodDelete, "/orders/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message string       `json:"message"`
		Order   domain.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Order cancelled", body.Message)
	assert.Equal(t, id, body.Order.ID)

	rec = do(router(&stubOrders{err: domain.NotFoundError{Entity: "order"}}), http.MethodDelete, "/orders/"+id.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimeline(t *testing.T) {
	rec := do(router(&stubOrders{}), http.MethodGet, "/orders/"+uuid.NewString()+"/timeline?limit=10", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []domain.StatusLogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "active", entries[0].Status)
}
