package handlers

import (
	"net/http"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/catalog/service"
)

type DishHandler struct {
	service   service.DishServiceInterface
	maxUpload int64
	lg        *logger.Logger
}

func NewDishHandler(s service.DishServiceInterface, maxUpload int64, lg *logger.Logger) *DishHandler {
	return &DishHandler{service: s, maxUpload: maxUpload, lg: lg}
}

func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	categoryID, err := httpx.QueryUUID(r, "category_id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "list_dishes", err)
		return
	}
	dishes, err := h.service.ListDishes(r.Context(), categoryID)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "list_dishes", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dishes)
}

func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "get_dish", err)
		return
	}
	d, err := h.service.GetDish(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "get_dish", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	f, err := readForm(w, r, h.maxUpload)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "create_dish", err)
		return
	}
	defer f.Close()

	in, err := dishFromForm(f)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "create_dish", err)
		return
	}
	d, err := h.service.CreateDish(r.Context(), in, f.picture)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "create_dish", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, d)
}

func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_dish", err)
		return
	}
	f, err := readForm(w, r, h.maxUpload)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_dish", err)
		return
	}
	defer f.Close()

	patch := domain.DishPatch{Name: f.optional("name"), Ingredients: f.optional("ingredients")}
	if patch.Price, err = f.price("price"); err != nil {
		httpx.WriteError(w, r, h.lg, "update_dish", err)
		return
	}
	if patch.CategoryID, err = f.uuid(categoryKey(f)); err != nil {
		httpx.WriteError(w, r, h.lg, "update_dish", err)
		return
	}

	d, err := h.service.UpdateDish(r.Context(), id, patch, f.picture)
	if err != nil {
		httpx.WriteError(w, r, h.lg, "update_dish", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, d)
}

func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathUUID(r, "id")
	if err != nil {
		httpx.WriteError(w, r, h.lg, "delete_dish", err)
		return
	}
	if err := h.service.DeleteDish(r.Context(), id); err != nil {
		httpx.WriteError(w, r, h.lg, "delete_dish", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"message": "Dish deleted"})
}

// categoryKey accepts both "category_id" and the admin UI's "category".
func categoryKey(f *form) string {
	if _, ok := f.fields["category_id"]; ok {
		return "category_id"
	}
	return "category"
}

func dishFromForm(f *form) (domain.Dish, error) {
	d := domain.Dish{Name: f.value("name"), Ingredients: f.value("ingredients")}
	price, err := f.price("price")
	if err != nil {
		return domain.Dish{}, err
	}
	if price == nil {
		return domain.Dish{}, domain.ValidationError{Field: "price", Message: "price is required"}
	}
	d.Price = *price

	cat, err := f.uuid(categoryKey(f))
	if err != nil {
		return domain.Dish{}, err
	}
	if cat != nil {
		d.CategoryID = *cat
	}
	return d, nil
}
