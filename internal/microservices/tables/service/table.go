package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/tables/repository"
	"restaurant-admin/internal/workflow"
)

type TableServiceInterface interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	Occupancy(ctx context.Context) (workflow.Occupancy, error)
	CreateTable(ctx context.Context, number string, capacity int) (domain.Table, error)
	UpdateTable(ctx context.Context, id uuid.UUID, patch domain.TablePatch) (domain.Table, error)
	DeleteTable(ctx context.Context, id uuid.UUID) error
}

type TableService struct {
	repo   repository.TableRepositoryInterface
	orders OpenOrders
}

func NewTableService(repo repository.TableRepositoryInterface, orders OpenOrders) TableServiceInterface {
	return &TableService{repo: repo, orders: orders}
}

// ListTables returns every table with its status derived from open orders.
func (s *TableService) ListTables(ctx context.Context) ([]domain.Table, error) {
	tables, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	occ, err := s.Occupancy(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tables {
		tables[i].Status = occ.StatusOf(tables[i].ID)
	}
	return tables, nil
}

func (s *TableService) Occupancy(ctx context.Context) (workflow.Occupancy, error) {
	open, err := s.orders.ActiveOrders(ctx)
	if err != nil {
		return workflow.Occupancy{}, err
	}
	return workflow.DeriveOccupancy(open), nil
}

func (s *TableService) CreateTable(ctx context.Context, number string, capacity int) (domain.Table, error) {
	t, err := domain.NewTable(number, capacity)
	if err != nil {
		return domain.Table{}, err
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return domain.Table{}, err
	}
	t.Status = domain.TableAvailable
	return t, nil
}

// UpdateTable keeps the old value for blank or omitted fields.
func (s *TableService) UpdateTable(ctx context.Context, id uuid.UUID, patch domain.TablePatch) (domain.Table, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Table{}, err
	}
	if patch.Number != nil && strings.TrimSpace(*patch.Number) != "" {
		t.Number = strings.TrimSpace(*patch.Number)
	}
	if patch.Capacity != nil {
		t.Capacity = *patch.Capacity
	}
	if err := t.Validate(); err != nil {
		return domain.Table{}, err
	}
	if err := s.repo.Update(ctx, t); err != nil {
		return domain.Table{}, err
	}
	occ, err := s.Occupancy(ctx)
	if err != nil {
		return domain.Table{}, err
	}
	t.Status = occ.StatusOf(t.ID)
	return t, nil
}

func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
