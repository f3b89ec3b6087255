package handlers

import (
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/report/service"
)

type Handler struct {
	ReportHandler *ReportHandler
}

func New(s *service.Service, lg *logger.Logger) *Handler {
	return &Handler{
		ReportHandler: NewReportHandler(s.ReportService, lg),
	}
}
