package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes registers the order endpoints. Fixed paths go first so that
// "active" and "latest" are not taken for an order id.
func Routes(r *mux.Router, h *Handler) {
	oh := h.OrderHandler
	r.HandleFunc("/orders", oh.List).Methods(http.MethodGet)
	r.HandleFunc("/orders", oh.Create).Methods(http.MethodPost)
	r.HandleFunc("/orders/active", oh.Active).Methods(http.MethodGet)
	r.HandleFunc("/orders/latest/{tableId}", oh.Latest).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", oh.Get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", oh.Update).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}", oh.Cancel).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}/serve", oh.Serve).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}/pay", oh.Pay).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}/timeline", oh.Timeline).Methods(http.MethodGet)
}
