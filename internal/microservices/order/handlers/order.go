package handlers

import (
	"net/http"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
	lg      *logger.Logger
}

func NewOrderHandler(s service.OrderServiceInterface, lg *logger.Logger) *OrderHandler {
	return &OrderHandler{service: s, lg: lg}
}

func (oh *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	f, err := orderFilter(r)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "list_orders", err)
		return
	}
	orders, err := oh.service.ListOrders(r.Context(), f)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "list_orders", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (oh *OrderHandler) Active(w http.ResponseWriter, r *http.Request) {
	orders, err := oh.service.ActiveOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "active_orders", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, orders)
}

func (oh *OrderHandler) Latest(w http.ResponseWriter, r *http.Request) {
	tableID, err := httpx.PathUUID(r, "tableId")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "latest_order", err)
		return
	}
	o, err := oh.service.LatestOrderForTable(r.Context(), tableID)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "latest_order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "get_order", err)
		return
	}
	o, err := oh.service.GetOrder(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "get_order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeOrder(r)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "create_order", err)
		return
	}
	o, err := oh.service.CreateOrder(r.Context(), req.newOrder())
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "create_order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, o)
}

func (oh *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "update_order", err)
		return
	}
	req, err := decodeOrder(r)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "update_order", err)
		return
	}
	o, err := oh.service.UpdateOrder(r.Context(), id, req.patch())
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "update_order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "cancel_order", err)
		return
	}
	o, err := oh.service.CancelOrder(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "cancel_order", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Order cancelled",
		"order":   o,
	})
}

func (oh *OrderHandler) Serve(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, "serve_order", domain.StatusServed)
}

func (oh *OrderHandler) Pay(w http.ResponseWriter, r *http.Request) {
	oh.transition(w, r, "pay_order", domain.StatusPaid)
}

func (oh *OrderHandler) transition(w http.ResponseWriter, r *http.Request, action string, to domain.OrderStatus) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, action, err)
		return
	}
	o, err := oh.service.TransitionStatus(r.Context(), id, to)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, action, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "order_timeline", err)
		return
	}
	q := r.URL.Query()
	limit := httpx.AtoiDefault(q.Get("limit"), 0)
	offset := httpx.AtoiDefault(q.Get("offset"), 0)

	entries, err := oh.service.OrderTimeline(r.Context(), id, limit, offset)
	if err != nil {
		httpx.WriteError(w, r, oh.lg, "order_timeline", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, entries)
}
