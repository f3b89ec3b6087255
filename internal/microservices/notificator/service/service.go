package service

import (
	"restaurant-admin/internal/common/logger"
)

type Service struct {
	NotificatorService *NotificatorService
}

func New(src DeliverySource, lg *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(src, lg)}
}
