package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func Routes(r *mux.Router, h *Handler) {
	th := h.TableHandler
	r.HandleFunc("/tables", th.List).Methods(http.MethodGet)
	r.HandleFunc("/tables", th.Create).Methods(http.MethodPost)
	r.HandleFunc("/tables/occupancy", th.Occupancy).Methods(http.MethodGet)
	r.HandleFunc("/tables/{id}", th.Update).Methods(http.MethodPut)
	r.HandleFunc("/tables/{id}", th.Delete).Methods(http.MethodDelete)
}
