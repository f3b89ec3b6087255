package service

import (
	"context"

	"restaurant-admin/internal/domain"
	"restaurant-admin/internal/microservices/tables/repository"
)

// OpenOrders lists the orders that currently occupy tables.
type OpenOrders interface {
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
}

type Service struct {
	TableService TableServiceInterface
}

func New(repo *repository.Repository, orders OpenOrders) *Service {
	return &Service{
		TableService: NewTableService(repo.TableRepo, orders),
	}
}
