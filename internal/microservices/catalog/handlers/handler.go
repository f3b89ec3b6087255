package handlers

import (
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/catalog/service"
)

type Handler struct {
	CategoryHandler *CategoryHandler
	DishHandler     *DishHandler
}

func New(s *service.Service, maxUpload int64, lg *logger.Logger) *Handler {
	return &Handler{
		CategoryHandler: NewCategoryHandler(s.CategoryService, maxUpload, lg),
		DishHandler:     NewDishHandler(s.DishService, maxUpload, lg),
	}
}
