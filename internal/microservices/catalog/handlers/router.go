package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func Routes(r *mux.Router, h *Handler) {
	r.HandleFunc("/categories", h.CategoryHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/categories", h.CategoryHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/categories/{id}", h.CategoryHandler.Update).Methods(http.MethodPut)
	r.HandleFunc("/categories/{id}", h.CategoryHandler.Delete).Methods(http.MethodDelete)

	r.HandleFunc("/dishes", h.DishHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/dishes", h.DishHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/dishes/{id}", h.DishHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/dishes/{id}", h.DishHandler.Update).Methods(http.MethodPut)
	r.HandleFunc("/dishes/{id}", h.DishHandler.Delete).Methods(http.MethodDelete)
}
