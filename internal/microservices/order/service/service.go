package service

import (
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(repo *repository.Repository, pub Publisher, lg *logger.Logger) *Service {
	return &Service{
		OrderService: NewOrderService(repo.OrderRepo, pub, lg),
	}
}
