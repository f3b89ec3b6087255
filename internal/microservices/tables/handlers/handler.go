package handlers

import (
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/tables/service"
)

type Handler struct {
	TableHandler *TableHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		TableHandler: NewTableHandler(s.TableService, lg),
	}
}
