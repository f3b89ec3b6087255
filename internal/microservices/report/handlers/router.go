package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func Routes(r *mux.Router, h *Handler) {
	r.HandleFunc("/paid-orders", h.ReportHandler.PaidOrders).Methods(http.MethodGet)
	r.HandleFunc("/reports/revenue", h.ReportHandler.Revenue).Methods(http.MethodGet)
}
