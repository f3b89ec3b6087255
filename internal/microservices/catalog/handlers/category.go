package handlers

import (
	"net/http"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/catalog/service"
)

type CategoryHandler struct {
	service   service.CategoryServiceInterface
	maxUpload int64
	lg        *logger.Logger
}

func NewCategoryHandler(s service.CategoryServiceInterface, maxUpload int64, lg *logger.Logger) *CategoryHandler {
	return &CategoryHandler{service: s, maxUpload: maxUpload, lg: lg}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.service.ListCategories(r.Context())
	if err != nil {
		httpx.WriteError(w, r, h.lg, "list_categories", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cats)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxUpload)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "create_category", err)
		return
	}
	defer f.Close()

	c, err := h.service.CreateCategory(r.Context(), f.value("name"), f.value("description"), f.picture)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "create_category", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_category", err)
		return
	}
	f, err := readForm(w, r, h.maxUpload)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_category", err)
		return
	}
	defer f.Close()

	patch := domain.CategoryPatch{Name: f.optional("name"), Description: f.optional("description")}
	c, err := h.service.UpdateCategory(r.Context(), id, patch, f.picture)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_category", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "delete_category", err)
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.lg, "delete_category", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}
