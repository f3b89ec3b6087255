package service

import (
	"context"

	"restaurant-admin/internal/domain"
)

// OrderLister is the read side of the order ledger.
type OrderLister interface {
	ListOrders(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)
}

type Service struct {
	ReportService ReportServiceInterface
}

func New(orders OrderLister) *Service {
	return &Service{
		ReportService: NewReportService(orders),
	}
}
